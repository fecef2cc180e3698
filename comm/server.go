package comm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/simmer/protocol"
)

// BufferFullNotice is sent in place of a reply when a packet arrives while
// the previous one is still waiting for the tick.
const BufferFullNotice = "Receive Data Buffer is full, please retry in a moment."

// Options configures the two listeners.
type Options struct {
	Host   string
	PortRx int // control program sends commands here
	PortTx int // control program collects replies here

	Poll        time.Duration // transmit polling period, one tick
	Timeout     time.Duration // per-connection deadline
	PacketBytes int           // largest packet read from one connection
	Framing     protocol.Framing
	Binary      bool
}

// Server runs the receive and transmit workers.
type Server struct {
	opts   Options
	logger *slog.Logger

	// Inbound carries raw command packets to the tick.
	Inbound *Slot[string]
	// Outbound carries encoded reply payloads from the tick.
	Outbound *Slot[[]byte]

	rx, tx net.Listener
}

// NewServer builds a server; call Listen then Serve.
func NewServer(opts Options, logger *slog.Logger) *Server {
	if opts.PacketBytes <= 0 {
		opts.PacketBytes = 1024
	}
	if opts.Poll <= 0 {
		opts.Poll = time.Second / 60
	}
	return &Server{
		opts:     opts,
		logger:   logger,
		Inbound:  NewSlot[string](),
		Outbound: NewSlot[[]byte](),
	}
}

// Listen binds both ports. A port of 0 picks a free one.
func (s *Server) Listen() error {
	rx, err := net.Listen("tcp", net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.PortRx)))
	if err != nil {
		return fmt.Errorf("listening for commands: %w", err)
	}
	tx, err := net.Listen("tcp", net.JoinHostPort(s.opts.Host, strconv.Itoa(s.opts.PortTx)))
	if err != nil {
		rx.Close()
		return fmt.Errorf("listening for replies: %w", err)
	}
	s.rx, s.tx = rx, tx
	s.logger.Info("comm listening", "rx", rx.Addr().String(), "tx", tx.Addr().String())
	return nil
}

// RxAddr returns the bound command address.
func (s *Server) RxAddr() net.Addr { return s.rx.Addr() }

// TxAddr returns the bound reply address.
func (s *Server) TxAddr() net.Addr { return s.tx.Addr() }

// Serve runs both workers until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if s.rx == nil || s.tx == nil {
		return errors.New("comm: Serve called before Listen")
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		s.rx.Close()
		s.tx.Close()
		return nil
	})
	g.Go(func() error { return s.acceptLoop(ctx, s.rx, s.receive) })
	g.Go(func() error { return s.acceptLoop(ctx, s.tx, s.transmit) })

	return g.Wait()
}

// acceptLoop serves one connection at a time.
func (s *Server) acceptLoop(ctx context.Context, ln net.Listener, handle func(context.Context, net.Conn, string)) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept on %s: %w", ln.Addr(), err)
		}
		id := uuid.NewString()
		s.logger.Debug("connection opened", "conn", id, "remote", conn.RemoteAddr().String())
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		handle(ctx, conn, id)
		stop()
		conn.Close()
	}
}

// receive reads one packet. When the inbound slot is still full the packet is
// dropped and a notice is offered for transmission instead.
func (s *Server) receive(_ context.Context, conn net.Conn, id string) {
	if s.opts.Timeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.opts.Timeout))
	}
	buf := make([]byte, s.opts.PacketBytes)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		s.logger.Warn("command read failed", "conn", id, "error", err)
		return
	}
	if n == 0 {
		return
	}
	data := string(buf[:n])

	if s.Inbound.TryPut(data) {
		s.logger.Debug("command received", "conn", id, "data", data)
		return
	}
	s.logger.Warn("receive buffer full, packet dropped", "conn", id, "data", data)
	if !s.Outbound.TryPut(s.notice()) {
		s.logger.Warn("transmit buffer full, notice dropped", "conn", id)
	}
}

func (s *Server) notice() []byte {
	if s.opts.Binary {
		return protocol.EncodeBinary([]protocol.Reply{{Value: math.NaN()}})
	}
	framed, err := s.opts.Framing.Packetize(BufferFullNotice)
	if err != nil {
		return []byte(BufferFullNotice)
	}
	return []byte(framed)
}

// transmit waits for a reply, polling once per tick, and writes it.
func (s *Server) transmit(ctx context.Context, conn net.Conn, id string) {
	ticker := time.NewTicker(s.opts.Poll)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if s.opts.Timeout > 0 {
		timer := time.NewTimer(s.opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if payload, ok := s.Outbound.TryTake(); ok {
			if s.opts.Timeout > 0 {
				conn.SetWriteDeadline(time.Now().Add(s.opts.Timeout))
			}
			if _, err := conn.Write(payload); err != nil {
				s.logger.Warn("reply write failed", "conn", id, "error", err)
				return
			}
			s.logger.Debug("reply sent", "conn", id, "bytes", len(payload))
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			s.logger.Warn("no reply before timeout", "conn", id)
			return
		case <-ticker.C:
		}
	}
}
