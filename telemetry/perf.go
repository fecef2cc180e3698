package telemetry

import (
	"log/slog"
	"time"
)

// Phase names one part of the simulation step.
type Phase string

// Phases of a tick, in execution order.
const (
	PhaseCommands Phase = "commands"
	PhaseMotion   Phase = "motion"
	PhaseSensors  Phase = "sensors"
	PhaseTrail    Phase = "trail"
)

// Phases lists every phase in execution order.
var Phases = []Phase{PhaseCommands, PhaseMotion, PhaseSensors, PhaseTrail}

type tickSample struct {
	total  time.Duration
	phases map[Phase]time.Duration
}

// PerfCollector times ticks and their phases over a rolling window.
type PerfCollector struct {
	window  []tickSample
	next    int
	filled  int
	current map[Phase]time.Duration

	tickStart  time.Time
	phaseStart time.Time
	phase      Phase

	now func() time.Time
}

// NewPerfCollector keeps the last windowSize ticks. Sizes below one default to
// one second at 60 fps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		window: make([]tickSample, windowSize),
		now:    time.Now,
	}
}

// StartTick begins timing a tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = make(map[Phase]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase closes the running phase, if any, and opens the next one.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and records the tick.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.phase = ""

	p.window[p.next] = tickSample{total: now.Sub(p.tickStart), phases: p.current}
	p.next = (p.next + 1) % len(p.window)
	if p.filled < len(p.window) {
		p.filled++
	}
}

// PerfStats aggregates the window.
type PerfStats struct {
	Ticks           int
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	PhaseAvg        map[Phase]time.Duration
	PhasePct        map[Phase]float64
	TicksPerSecond  float64 // throughput if ticks ran back to back
}

// Stats summarises the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Ticks:    p.filled,
		PhaseAvg: make(map[Phase]time.Duration),
		PhasePct: make(map[Phase]float64),
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	sums := make(map[Phase]time.Duration)
	for i := 0; i < p.filled; i++ {
		t := p.window[i]
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		for ph, d := range t.phases {
			sums[ph] += d
		}
	}

	s.AvgTickDuration = total / time.Duration(p.filled)
	for ph, sum := range sums {
		avg := sum / time.Duration(p.filled)
		s.PhaseAvg[ph] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("ticks", s.Ticks),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, ph := range Phases {
		if pct, ok := s.PhasePct[ph]; ok {
			attrs = append(attrs, slog.Float64(string(ph)+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	Tick        int32   `csv:"tick"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	CommandsPct float64 `csv:"commands_pct"`
	MotionPct   float64 `csv:"motion_pct"`
	SensorsPct  float64 `csv:"sensors_pct"`
	TrailPct    float64 `csv:"trail_pct"`
}

// ToCSV flattens the stats for the tick that closed the window.
func (s PerfStats) ToCSV(tick int32) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:        tick,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		MinTickUS:   s.MinTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		CommandsPct: s.PhasePct[PhaseCommands],
		MotionPct:   s.PhasePct[PhaseMotion],
		SensorsPct:  s.PhasePct[PhaseSensors],
		TrailPct:    s.PhasePct[PhaseTrail],
	}
}
