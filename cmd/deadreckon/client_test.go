package main

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/simmer/comm"
	"github.com/pthm-cable/simmer/protocol"
)

// fakeRobot answers sensor queries with fixed readings and refuses the first
// busy drive commands it receives.
type fakeRobot struct {
	binary  bool
	busyFor int
	// notices is how many packets are answered with the buffer-full notice
	// before normal replies resume.
	notices int
	packets []string
	drives  []protocol.Command
}

func (f *fakeRobot) Exchange(_ context.Context, packet []byte) ([]byte, error) {
	f.packets = append(f.packets, string(packet))
	if f.notices > 0 {
		f.notices--
		if f.binary {
			return protocol.EncodeBinary([]protocol.Reply{{Value: math.NaN()}}), nil
		}
		out, err := protocol.DefaultFraming.Packetize(comm.BufferFullNotice)
		return []byte(out), err
	}
	payload, err := protocol.DefaultFraming.Depacketize(string(packet))
	if err != nil {
		return nil, err
	}

	var replies []protocol.Reply
	for _, cmd := range protocol.ParseCommands(payload) {
		r := protocol.Reply{ID: cmd.ID}
		switch cmd.ID {
		case "u0":
			r.Value = 5
		case "u1":
			r.Value = 12.5
		case "w0", "r0":
			if f.busyFor > 0 {
				f.busyFor--
				r.Value = 0
			} else {
				r.Value = math.Inf(1)
				f.drives = append(f.drives, cmd)
			}
		default:
			r.Value = math.NaN()
		}
		replies = append(replies, r)
	}

	if f.binary {
		return protocol.EncodeBinary(replies), nil
	}
	out, err := protocol.DefaultFraming.Packetize(protocol.EncodeText(replies, 3))
	return []byte(out), err
}

func (f *fakeRobot) Close() error { return nil }

func newTestClient(robot *fakeRobot) *client {
	return &client{
		conn:    robot,
		framing: protocol.DefaultFraming,
		binary:  robot.binary,
		sensors: []string{"u0", "u1"},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunSendsRoute(t *testing.T) {
	for _, binary := range []bool{false, true} {
		robot := &fakeRobot{binary: binary}
		c := newTestClient(robot)

		require.NoError(t, c.run(context.Background(), route))
		require.Len(t, robot.drives, len(route))
		for i, s := range route {
			assert.Equal(t, s.drive, robot.drives[i].ID)
			assert.Equal(t, s.value, robot.drives[i].Value)
		}
		assert.Equal(t, "[u0:0,u1:0]", robot.packets[0])
		assert.Equal(t, "[w0:36]", robot.packets[1])
	}
}

func TestRunRetriesBusyDrive(t *testing.T) {
	robot := &fakeRobot{busyFor: 2}
	c := newTestClient(robot)

	require.NoError(t, c.run(context.Background(), route[:1]))
	assert.Len(t, robot.drives, 1)
	// three sensor queries and three drive attempts
	assert.Len(t, robot.packets, 6)
}

func TestRunRejectsUnknownDrive(t *testing.T) {
	c := newTestClient(&fakeRobot{})
	err := c.run(context.Background(), []step{{"x9", 1}})
	assert.Error(t, err)
}

func TestExchangeDecodesReadings(t *testing.T) {
	for _, binary := range []bool{false, true} {
		c := newTestClient(&fakeRobot{binary: binary})
		got, err := c.exchange(context.Background(), []protocol.Command{{ID: "u0"}, {ID: "u1"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"u0": 5, "u1": 12.5}, got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newTestClient(&fakeRobot{})
	assert.ErrorIs(t, c.run(ctx, route), context.Canceled)
}

func TestRunWaitsOutBufferFull(t *testing.T) {
	tests := []struct {
		name    string
		binary  bool
		notices int
	}{
		{"text notice on sensor query", false, 1},
		{"text notice on drive", false, 2},
		{"binary notice on sensor query", true, 1},
		{"binary notice on drive", true, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			robot := &fakeRobot{binary: tc.binary, notices: tc.notices}
			c := newTestClient(robot)

			require.NoError(t, c.run(context.Background(), route[:2]))
			require.Len(t, robot.drives, 2)
			assert.Equal(t, "w0", robot.drives[0].ID)
			assert.Equal(t, "r0", robot.drives[1].ID)
		})
	}
}

func TestRunGivesUpOnEndlessBufferFull(t *testing.T) {
	robot := &fakeRobot{notices: 2 * maxNotices}
	c := newTestClient(robot)

	err := c.run(context.Background(), route[:1])
	require.Error(t, err)
	assert.ErrorIs(t, err, errBufferFull)
	assert.Empty(t, robot.drives)
}

func TestExchangeReportsBufferFull(t *testing.T) {
	for _, binary := range []bool{false, true} {
		c := newTestClient(&fakeRobot{binary: binary, notices: 1})
		_, err := c.exchange(context.Background(), []protocol.Command{{ID: "w0", Value: 1}})
		assert.ErrorIs(t, err, errBufferFull)
	}
}
