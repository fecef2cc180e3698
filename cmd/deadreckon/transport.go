package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"go.bug.st/serial"
)

// transport sends one packet and returns the reply bytes.
type transport interface {
	Exchange(ctx context.Context, packet []byte) ([]byte, error)
	Close() error
}

// tcpTransport talks to the simulator: the command goes to the receive port
// on one connection and the reply is collected from the transmit port on
// another.
type tcpTransport struct {
	host    string
	rx, tx  int
	timeout time.Duration
}

func (t *tcpTransport) Exchange(ctx context.Context, packet []byte) ([]byte, error) {
	var d net.Dialer
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	send, err := d.DialContext(ctx, "tcp", net.JoinHostPort(t.host, strconv.Itoa(t.rx)))
	if err != nil {
		return nil, fmt.Errorf("dialing command port: %w", err)
	}
	_, err = send.Write(packet)
	send.Close()
	if err != nil {
		return nil, fmt.Errorf("sending command: %w", err)
	}

	recv, err := d.DialContext(ctx, "tcp", net.JoinHostPort(t.host, strconv.Itoa(t.tx)))
	if err != nil {
		return nil, fmt.Errorf("dialing reply port: %w", err)
	}
	defer recv.Close()
	if deadline, ok := ctx.Deadline(); ok {
		recv.SetReadDeadline(deadline)
	}
	reply, err := io.ReadAll(recv)
	if err != nil {
		return nil, fmt.Errorf("reading reply: %w", err)
	}
	return reply, nil
}

func (t *tcpTransport) Close() error { return nil }

// serialTransport talks to a robot over a serial line. Text replies end at
// the frame end byte; binary replies are a known number of values.
type serialTransport struct {
	port    serial.Port
	end     byte
	binary  bool
	timeout time.Duration
}

func openSerial(name string, baud int, end byte, binary bool, timeout time.Duration) (*serialTransport, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	if err := port.SetReadTimeout(timeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("setting read timeout: %w", err)
	}
	return &serialTransport{port: port, end: end, binary: binary, timeout: timeout}, nil
}

// Exchange writes the packet and reads until a full reply arrives or the
// timeout passes. Binary replies end at the first idle read.
func (t *serialTransport) Exchange(ctx context.Context, packet []byte) ([]byte, error) {
	if _, err := t.port.Write(packet); err != nil {
		return nil, fmt.Errorf("writing serial: %w", err)
	}

	var reply []byte
	buf := make([]byte, 256)
	deadline := time.Now().Add(t.timeout)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := t.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading serial: %w", err)
		}
		if n == 0 {
			// read timeout with nothing pending
			if t.binary && len(reply) > 0 {
				return reply, nil
			}
			continue
		}
		reply = append(reply, buf[:n]...)
		if !t.binary && reply[len(reply)-1] == t.end {
			return reply, nil
		}
	}
	if len(reply) > 0 {
		return reply, nil
	}
	return nil, fmt.Errorf("no serial reply within %s", t.timeout)
}

func (t *serialTransport) Close() error { return t.port.Close() }
