package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/pthm-cable/simmer/comm"
	"github.com/pthm-cable/simmer/protocol"
)

// errBufferFull is returned by exchange when the simulator answered with its
// buffer-full notice instead of a reply.
var errBufferFull = errors.New("simulator receive buffer full")

// maxNotices bounds consecutive buffer-full notices for one step. In binary
// mode the notice is a lone NaN, which an unknown single drive also returns.
const maxNotices = 50

// step is one drive command of the route.
type step struct {
	drive string
	value float64
}

// route is the default dead-reckoning path through the stock maze.
var route = []step{
	{"w0", 36}, {"r0", 90}, {"w0", 36}, {"r0", 90}, {"w0", 12},
	{"r0", -90}, {"w0", 24}, {"r0", -90}, {"w0", 6}, {"r0", 720},
}

// client runs a route against a simulator or robot.
type client struct {
	conn    transport
	framing protocol.Framing
	binary  bool
	sensors []string
	retry   time.Duration
	logger  *slog.Logger
}

// exchange sends one command list and decodes the reply into values keyed
// by id. In binary mode ids come from the command order.
func (c *client) exchange(ctx context.Context, cmds []protocol.Command) (map[string]float64, error) {
	parts := make([]string, len(cmds))
	for i, cmd := range cmds {
		parts[i] = cmd.Format()
	}
	packet, err := c.framing.Packetize(strings.Join(parts, ","))
	if err != nil {
		return nil, err
	}

	raw, err := c.conn.Exchange(ctx, []byte(packet))
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(cmds))
	if c.binary {
		values, err := protocol.DecodeBinary(raw)
		if err != nil {
			return nil, err
		}
		if len(values) == 1 && math.IsNaN(values[0]) {
			return nil, errBufferFull
		}
		if len(values) != len(cmds) {
			return nil, fmt.Errorf("got %d values for %d commands", len(values), len(cmds))
		}
		for i, v := range values {
			out[cmds[i].ID] = v
		}
		return out, nil
	}

	payload, err := c.framing.Depacketize(string(raw))
	if err != nil {
		return nil, fmt.Errorf("reply %q: %w", raw, err)
	}
	if payload == comm.BufferFullNotice {
		return nil, errBufferFull
	}
	for _, r := range protocol.DecodeText(payload) {
		out[r.ID] = r.Value
	}
	return out, nil
}

// run sends each step until the drive accepts it. Before every attempt the
// sensors are queried and logged. A drive answers inf once it has taken the
// command and 0 while still busy with the previous one. Busy drives and
// buffer-full notices are retried after c.retry.
func (c *client) run(ctx context.Context, steps []step) error {
	for i, s := range steps {
		notices := 0
		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			accepted, err := c.attempt(ctx, i, s)
			switch {
			case errors.Is(err, errBufferFull):
				notices++
				if notices > maxNotices {
					return fmt.Errorf("step %d: %s: %d buffer-full notices in a row: %w", i, s.drive, notices, err)
				}
				c.logger.Warn("simulator busy", "step", i, "notices", notices)
			case err != nil:
				return err
			case accepted:
				c.logger.Info("drive accepted", "step", i, "drive", s.drive, "value", s.value)
			default:
				notices = 0
			}
			if accepted {
				break
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retry):
			}
		}
	}
	return nil
}

// attempt reads the sensors then sends the drive command once.
func (c *client) attempt(ctx context.Context, i int, s step) (bool, error) {
	if len(c.sensors) > 0 {
		query := make([]protocol.Command, len(c.sensors))
		for j, id := range c.sensors {
			query[j] = protocol.Command{ID: id}
		}
		readings, err := c.exchange(ctx, query)
		if err != nil {
			return false, fmt.Errorf("step %d: reading sensors: %w", i, err)
		}
		attrs := make([]any, 0, 2*len(c.sensors)+2)
		attrs = append(attrs, "step", i)
		for _, id := range c.sensors {
			attrs = append(attrs, id, readings[id])
		}
		c.logger.Info("sensors", attrs...)
	}

	reply, err := c.exchange(ctx, []protocol.Command{{ID: s.drive, Value: s.value}})
	if err != nil {
		return false, fmt.Errorf("step %d: sending %s: %w", i, s.drive, err)
	}
	v, ok := reply[s.drive]
	if !ok || math.IsNaN(v) {
		return false, fmt.Errorf("step %d: drive %s not recognised", i, s.drive)
	}
	return math.IsInf(v, 1), nil
}
