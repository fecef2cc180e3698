// Package game assembles the maze, the robot and its devices, and advances
// them one fixed-rate frame at a time. It has no dependency on the window or
// the network: callers pass in the frame's input and pending packet and get
// back the reply and a render snapshot.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/pthm-cable/simmer/components"
	"github.com/pthm-cable/simmer/config"
	"github.com/pthm-cable/simmer/devices"
	"github.com/pthm-cable/simmer/geom"
	"github.com/pthm-cable/simmer/maze"
	"github.com/pthm-cable/simmer/protocol"
	"github.com/pthm-cable/simmer/systems"
	"github.com/pthm-cable/simmer/telemetry"
)

// maxTrail bounds the in-memory trail; older points are dropped.
const maxTrail = 36000

// floorStream separates the floor pattern RNG from the measurement error
// stream drawn from the same seed.
const floorStream = 0x9e3779b97f4a7c15

// TickResult is the outcome of one frame.
type TickResult struct {
	Responses []devices.Response
	// Reply is the encoded response packet, nil when no commands ran.
	Reply []byte
	// Trail is the point recorded this frame, if any.
	Trail  *components.TrailPoint
	Render RenderState
}

// Simulation owns the world state. It is not safe for concurrent use; the
// comm workers talk to it only through the slots the caller drains.
type Simulation struct {
	cfg    *config.Config
	logger *slog.Logger
	seed   uint64

	maze  *maze.Maze
	walls []geom.Segment

	robot     *components.Body
	block     *components.Body
	robotGate *systems.Gate
	blockGate *systems.Gate

	robotStart components.Pose
	blockStart components.Pose

	*loadout
	env *devices.Environment

	framing protocol.Framing
	digits  int
	binary  bool

	manualStep float64 // inches per frame
	manualTurn float64 // degrees per frame

	tick  int32
	trail []components.TrailPoint
	perf  *telemetry.PerfCollector
}

// New builds the simulation. Any error is a configuration error and the
// simulation must not start.
func New(cfg *config.Config, logger *slog.Logger) (*Simulation, error) {
	seed := cfg.Simulation.ErrorSeed
	if cfg.Simulation.RandomError {
		seed = uint64(time.Now().UnixNano())
	}

	grid, err := cfg.LoadGrid()
	if err != nil {
		return nil, fmt.Errorf("loading maze: %w", err)
	}
	m, err := maze.New(grid, maze.Options{
		WallValue:   cfg.Maze.WallValue,
		WallLength:  cfg.Maze.WallSegmentLength,
		FloorLength: cfg.Maze.FloorSegmentLength,
	}, rand.New(rand.NewPCG(seed, floorStream)))
	if err != nil {
		return nil, fmt.Errorf("building maze: %w", err)
	}

	l, err := buildLoadout(cfg)
	if err != nil {
		return nil, err
	}

	start, end := cfg.Framing()
	s := &Simulation{
		cfg:     cfg,
		logger:  logger,
		seed:    seed,
		maze:    m,
		walls:   m.Walls.Segments(),
		loadout: l,
		framing: protocol.Framing{Start: start, End: end},
		digits:  cfg.Network.RoundDigits,
		binary:  cfg.Network.Binary,

		manualStep: cfg.Manual.Speed / cfg.Simulation.FrameRate,
		manualTurn: cfg.Manual.RotationSpeed / cfg.Simulation.FrameRate,

		perf: telemetry.NewPerfCollector(int(cfg.Simulation.FrameRate)),
	}

	rc := cfg.Robot
	s.robotStart = components.Pose{Position: vec(rc.StartPosition), Rotation: rc.StartRotation}
	s.robot = components.NewRect("robot", rc.Width, rc.Length, rc.Height, s.robotStart)
	s.robotGate = systems.NewGate(s.robot)

	if bc := cfg.Block; bc.Enabled {
		s.blockStart = components.Pose{Position: vec(bc.Position), Rotation: bc.Rotation}
		s.block = components.NewRect("block", bc.Size, bc.Size, bc.Height, s.blockStart)
		s.blockGate = systems.NewGate(s.block)
	}

	s.env = &devices.Environment{
		Robot:     s.robot,
		Block:     s.block,
		Maze:      m,
		Walls:     s.walls,
		FrameRate: cfg.Simulation.FrameRate,
		Noise:     devices.NewNoise(seed),
	}
	s.zeroGyroscopes()

	logger.Info("simulation loaded",
		"maze_rows", grid.Rows(),
		"maze_cols", grid.Cols(),
		"walls", m.Walls.Len(),
		"walls_fingerprint", fmt.Sprintf("%016x", m.Walls.Fingerprint()),
		"bright_tiles", len(m.Floor.BrightTiles()),
		"devices", len(l.registry.All()),
		"seed", seed,
	)
	return s, nil
}

// Tick advances one frame: commands, then motion, then sensors, then the
// trail.
func (s *Simulation) Tick(input Input, inbound string) TickResult {
	s.perf.StartTick()
	defer s.perf.EndTick()

	if input.Reset {
		s.Reset()
	}
	if input.Teleport != nil {
		s.teleport(input.BlockMode, *input.Teleport)
	}

	var result TickResult

	s.perf.StartPhase(telemetry.PhaseCommands)
	if inbound != "" {
		result.Responses = s.execute(inbound)
		result.Reply = s.encode(result.Responses)
	}

	s.perf.StartPhase(telemetry.PhaseMotion)
	if input.Moving() {
		s.moveManual(input)
	} else {
		s.moveFromCommand()
	}

	s.perf.StartPhase(telemetry.PhaseSensors)
	s.previewSensors()
	s.registry.Update(s.env)

	s.perf.StartPhase(telemetry.PhaseTrail)
	result.Trail = s.recordTrail()
	s.tick++

	result.Render = s.renderState(input)
	return result
}

// execute runs every command in a packet. Errors never abort the batch: a
// packet without framing is dropped, an unknown id answers NaN.
func (s *Simulation) execute(inbound string) []devices.Response {
	payload, err := s.framing.Depacketize(inbound)
	if err != nil {
		s.logger.Warn("dropping inbound packet", "tick", s.tick, "error", err, "data", inbound)
		return nil
	}

	cmds := protocol.ParseCommands(payload)
	responses := make([]devices.Response, 0, len(cmds))
	for _, cmd := range cmds {
		if cmd.Malformed {
			s.logger.Warn("malformed command, using 0", "tick", s.tick, "command", cmd.Raw)
		}
		d, ok := s.registry.Lookup(cmd.ID)
		if !ok {
			s.logger.Warn("unknown device", "tick", s.tick, "id", cmd.ID)
			responses = append(responses, devices.Response{ID: cmd.ID, Value: math.NaN()})
			continue
		}
		r := d.Simulate(cmd.Value, s.env)
		if _, isDrive := d.(*devices.Drive); isDrive && r.Value == 0 {
			s.logger.Debug("drive busy, command rejected", "tick", s.tick, "id", cmd.ID, "value", cmd.Value)
		}
		responses = append(responses, r)
	}
	return responses
}

// encode builds the reply packet. Nothing is sent for an empty batch or a
// payload the framing refuses.
func (s *Simulation) encode(responses []devices.Response) []byte {
	if len(responses) == 0 {
		return nil
	}
	replies := make([]protocol.Reply, len(responses))
	for i, r := range responses {
		replies[i] = protocol.Reply{ID: r.ID, Value: r.Value}
	}
	if s.binary {
		return protocol.EncodeBinary(replies)
	}
	packet, err := s.framing.Packetize(protocol.EncodeText(replies, s.digits))
	if err != nil {
		s.logger.Warn("reply not sent", "tick", s.tick, "error", err)
		return nil
	}
	return []byte(packet)
}

// moveManual moves the robot, or the block in block mode, from the keys.
// Drive buffers wait until the keys are released.
func (s *Simulation) moveManual(in Input) {
	delta, rotation := in.Motion(s.manualStep, s.manualTurn)
	if in.BlockMode && s.block != nil {
		s.blockGate.Move(delta, rotation, s.walls, s.robot.Segments())
		return
	}
	s.robotGate.Move(delta, rotation, s.walls, s.blockSegments())
}

// moveFromCommand runs one frame of the drive train. The buffer drains and
// the odometers turn even when the move is blocked.
func (s *Simulation) moveFromCommand() {
	delta, rotation := s.train.Step()
	s.robotGate.Move(delta, rotation, s.walls, s.blockSegments())
}

func (s *Simulation) teleport(blockMode bool, target components.Pose) {
	gate := s.robotGate
	if blockMode && s.blockGate != nil {
		gate = s.blockGate
	}
	if !gate.Teleport(target, s.maze) {
		s.logger.Debug("teleport rejected", "body", gate.Body().Name, "x", target.Position.X, "y", target.Position.Y)
	}
}

func (s *Simulation) blockSegments() []geom.Segment {
	if s.block == nil {
		return nil
	}
	return s.block.Segments()
}

// previewSensors refreshes the display-only readings. They draw no noise so
// the error stream seen by the control program does not depend on them.
func (s *Simulation) previewSensors() {
	for id := range s.preview {
		d, _ := s.registry.Lookup(id)
		switch d := d.(type) {
		case *devices.Ultrasonic:
			d.Range(s.env)
		case *devices.Infrared:
			d.Overlap(s.env)
		}
	}
}

func (s *Simulation) recordTrail() *components.TrailPoint {
	interval := s.cfg.Telemetry.TrailInterval
	if interval <= 0 || int(s.tick)%interval != 0 {
		return nil
	}
	p := s.robot.Trail(s.tick)
	if len(s.trail) == maxTrail {
		copy(s.trail, s.trail[1:])
		s.trail = s.trail[:maxTrail-1]
	}
	s.trail = append(s.trail, p)
	return &p
}

// Reset returns the robot and block to their start poses, drops buffered
// movement and zeroes the odometers and gyroscopes.
func (s *Simulation) Reset() {
	s.robotGate.Reset(s.robotStart)
	if s.blockGate != nil {
		s.blockGate.Reset(s.blockStart)
	}
	s.train.Stop()
	s.arena.ResetOdometers()
	s.zeroGyroscopes()
	s.logger.Info("simulation reset", "tick", s.tick)
}

// zeroGyroscopes clears every gyroscope and references it to the robot's
// current rotation, so the first frame of motion is not lost.
func (s *Simulation) zeroGyroscopes() {
	for _, d := range s.registry.All() {
		if g, ok := d.(*devices.Gyroscope); ok {
			g.Reset()
			g.Reference(s.robot.Pose().Rotation)
		}
	}
}

// TickCount returns the number of frames run.
func (s *Simulation) TickCount() int32 { return s.tick }

// Seed returns the measurement error seed in use.
func (s *Simulation) Seed() uint64 { return s.seed }

// Robot returns the robot body.
func (s *Simulation) Robot() *components.Body { return s.robot }

// Block returns the block body, nil when disabled.
func (s *Simulation) Block() *components.Body { return s.block }

// Maze returns the loaded maze.
func (s *Simulation) Maze() *maze.Maze { return s.maze }

// Busy reports whether a drive command is still executing.
func (s *Simulation) Busy() bool { return s.train.Busy() }

// Trail returns the recorded robot trail. The slice is shared.
func (s *Simulation) Trail() []components.TrailPoint { return s.trail }

// PerfStats returns timing over the last second of frames.
func (s *Simulation) PerfStats() telemetry.PerfStats { return s.perf.Stats() }
