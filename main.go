package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/simmer/camera"
	"github.com/pthm-cable/simmer/comm"
	"github.com/pthm-cable/simmer/config"
	"github.com/pthm-cable/simmer/game"
	"github.com/pthm-cable/simmer/protocol"
	"github.com/pthm-cable/simmer/renderer"
	"github.com/pthm-cable/simmer/telemetry"
	"github.com/pthm-cable/simmer/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog every stats window")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Uint64("seed", 0, "Measurement error seed (0 = use config)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	noServer := flag.Bool("no-server", false, "Do not open the command and reply ports")

	flag.Parse()

	logger := newLogger(*logFormat)
	slog.SetDefault(logger)

	if err := run(logger, options{
		configPath: *configPath,
		headless:   *headless,
		logStats:   *logStats,
		outputDir:  *outputDir,
		seed:       *seed,
		maxTicks:   *maxTicks,
		noServer:   *noServer,
	}); err != nil {
		logger.Error("simulator stopped", "error", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	headless   bool
	logStats   bool
	outputDir  string
	seed       uint64
	maxTicks   int
	noServer   bool
}

func newLogger(format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// runner drives the simulation one frame at a time and moves packets between
// it and the comm workers.
type runner struct {
	cfg    *config.Config
	sim    *game.Simulation
	server *comm.Server
	out    *telemetry.OutputManager
	logger *slog.Logger

	logStats    bool
	maxTicks    int
	statsTicks  int32
	lastStatsAt int32
}

func run(logger *slog.Logger, opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.seed != 0 {
		cfg.Simulation.ErrorSeed = opts.seed
		cfg.Simulation.RandomError = false
	}

	sim, err := game.New(cfg, logger)
	if err != nil {
		return err
	}

	out, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &runner{
		cfg:        cfg,
		sim:        sim,
		out:        out,
		logger:     logger,
		logStats:   opts.logStats,
		maxTicks:   opts.maxTicks,
		statsTicks: int32(cfg.Telemetry.StatsWindow * cfg.Simulation.FrameRate),
	}

	serveErr := make(chan error, 1)
	if !opts.noServer {
		start, end := cfg.Framing()
		r.server = comm.NewServer(comm.Options{
			Host:        cfg.Network.Host,
			PortRx:      cfg.Network.PortRx,
			PortTx:      cfg.Network.PortTx,
			Poll:        cfg.Derived.FrameDuration,
			Timeout:     cfg.Derived.Timeout,
			PacketBytes: cfg.Network.PacketBytes,
			Framing:     protocol.Framing{Start: start, End: end},
			Binary:      cfg.Network.Binary,
		}, logger)
		if err := r.server.Listen(); err != nil {
			return err
		}
		go func() { serveErr <- r.server.Serve(ctx) }()
	}

	logger.Info("starting simulation",
		"seed", sim.Seed(),
		"headless", opts.headless,
		"server", !opts.noServer,
		"frame_rate", cfg.Simulation.FrameRate,
		"max_ticks", opts.maxTicks,
	)

	if opts.headless {
		err = r.runHeadless(ctx, !opts.noServer)
	} else {
		err = r.runWindow(ctx)
	}
	stop()

	if r.server != nil {
		if serr := <-serveErr; serr != nil {
			err = errors.Join(err, serr)
		}
	}
	return err
}

// step advances one frame and handles its side effects. It reports whether
// the tick limit has been reached.
func (r *runner) step(in game.Input) (game.TickResult, bool) {
	var inbound string
	if r.server != nil {
		inbound, _ = r.server.Inbound.TryTake()
	}

	res := r.sim.Tick(in, inbound)

	if res.Reply != nil && r.server != nil {
		if !r.server.Outbound.TryPut(res.Reply) {
			r.logger.Warn("transmit buffer full, reply dropped", "tick", res.Render.Tick)
		}
	}
	if res.Trail != nil {
		if err := r.out.WriteTrail(*res.Trail); err != nil {
			r.logger.Warn("trail not written", "error", err)
		}
	}

	tick := r.sim.TickCount()
	if r.statsTicks > 0 && tick-r.lastStatsAt >= r.statsTicks {
		r.lastStatsAt = tick
		stats := r.sim.PerfStats()
		if r.logStats {
			r.logger.Info("perf", "tick", tick, "stats", stats)
		}
		if err := r.out.WritePerf(stats, tick); err != nil {
			r.logger.Warn("perf not written", "error", err)
		}
	}

	done := r.maxTicks > 0 && int(tick) >= r.maxTicks
	if done {
		r.logger.Info("max ticks reached", "tick", tick)
	}
	return res, done
}

// runHeadless advances without a window. With the server running it keeps
// the frame rate so drive commands take real time; without it the loop runs
// as fast as it can.
func (r *runner) runHeadless(ctx context.Context, paced bool) error {
	var ticker *time.Ticker
	if paced {
		ticker = time.NewTicker(r.cfg.Derived.FrameDuration)
		defer ticker.Stop()
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		if _, done := r.step(game.Input{}); done {
			return nil
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	}
}

func (r *runner) runWindow(ctx context.Context) error {
	m := r.sim.Maze()
	border := float32(r.cfg.Derived.BorderPixels)
	cam := camera.New(float32(r.cfg.Screen.PPI), border, float32(m.Width), float32(m.Height))
	canvasW, canvasH := cam.Canvas()

	rl.InitWindow(canvasW+ui.PanelWidth, canvasH, "SimMeR")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(r.cfg.Simulation.FrameRate))

	scene := renderer.NewScene(cam)
	hud := ui.NewHUD(canvasW, 0)
	controller := ui.NewController(cam)

	var listening string
	if r.server != nil {
		listening = fmt.Sprintf("%s / %s", r.server.RxAddr(), r.server.TxAddr())
	}

	var actions ui.Actions
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		placing := r.sim.Robot().Pose()
		if controller.BlockMode() && r.sim.Block() != nil {
			placing = r.sim.Block().Pose()
		}
		in := controller.Read(actions, placing)

		res, done := r.step(in)

		rl.BeginDrawing()
		scene.Draw(&res.Render)
		hud.DrawFrameIndicator(int32(border))
		actions = hud.Draw(ui.HUDData{
			Render:    &res.Render,
			FPS:       rl.GetFPS(),
			Seed:      r.sim.Seed(),
			Listening: listening,
		})
		hud.DrawControls(canvasH)
		rl.EndDrawing()

		if done {
			break
		}
	}
	return nil
}
