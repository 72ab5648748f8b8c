package sim

import (
	"log"
	"math"
	"sort"
	"time"

	"trackreplay/model"
)

// Speed multiplier bounds.
const (
	MinSpeed = 0.1
	MaxSpeed = 10.0
)

// ClampSpeed bounds a multiplier; non-positive values mean real time.
func ClampSpeed(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 1
	}
	if v < MinSpeed {
		return MinSpeed
	}
	if v > MaxSpeed {
		return MaxSpeed
	}
	return v
}

// TickInput is what the frame driver supplies once per tick. Speed 0 keeps the
// engine's current multiplier. Busy reports that the previous commentary is
// still being played out.
type TickInput struct {
	Elapsed time.Duration
	Speed   float64
	Busy    bool
}

// CompetitorFrame is one competitor's state in a frame.
type CompetitorFrame struct {
	ID       int     `json:"id"`
	Distance float64 `json:"distance"`
	Lane     int     `json:"lane"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Lap      int     `json:"lap"`
	Finished bool    `json:"finished"`
}

// Frame is the result of a tick.
type Frame struct {
	Seq            uint64            `json:"seq"`
	RaceTime       float64           `json:"race_time"`
	Clock          string            `json:"clock"`
	Countdown      int               `json:"countdown"`
	Running        bool              `json:"running"`
	Speed          float64           `json:"speed"`
	Competitors    []CompetitorFrame `json:"competitors"`
	LeaderID       int               `json:"leader_id"`
	LeaderDistance float64           `json:"leader_distance"`
	Lap            int               `json:"lap"`
	Laps           int               `json:"laps"`
	Focus          *int              `json:"focus"`
	Commentary     *Commentary       `json:"commentary,omitempty"`
	Finishers      []int             `json:"finishers,omitempty"`
	AllFinished    bool              `json:"all_finished"`
}

// State is the engine's mutable simulation state.
type State struct {
	RaceTime    float64         `json:"race_time"`
	Running     bool            `json:"running"`
	Finished    bool            `json:"finished"`
	Speed       float64         `json:"speed"`
	Distances   map[int]float64 `json:"distances"`
	Lanes       map[int]int     `json:"lanes"`
	FinishOrder []int           `json:"finish_order"`
	Focus       *int            `json:"focus"`

	fresh bool
}

// Engine is the composition root of a replay. It is not safe for concurrent
// use; one goroutine owns it and applies ticks and control calls in sequence.
type Engine struct {
	race  *model.Race
	track *Track
	lanes *LaneAllocator
	sched *Scheduler
	state State
	seq   uint64
}

// NewEngine builds an engine over a validated race.
func NewEngine(race *model.Race) *Engine {
	track := NewTrack(race.Track)
	e := &Engine{
		race:  race,
		track: track,
		lanes: NewLaneAllocator(track.Config().MaxLane()),
		sched: NewScheduler(race),
	}
	for _, id := range e.sched.Orphans() {
		log.Printf("commentary: event %d belongs to a competitor not on the roster, skipping", id)
	}
	e.state.Speed = 1
	e.Reset()
	return e
}

// Race returns the race being replayed.
func (e *Engine) Race() *model.Race { return e.race }

// Track returns the track geometry.
func (e *Engine) Track() *Track { return e.track }

// Scheduler exposes the commentary scheduler.
func (e *Engine) Scheduler() *Scheduler { return e.sched }

// Start runs the clock. A freshly reset engine jumps to the pre-race countdown.
func (e *Engine) Start() {
	if e.state.Running || e.state.Finished {
		return
	}
	if e.state.fresh {
		e.state.RaceTime = e.race.PreRaceStart
		e.state.fresh = false
	}
	e.state.Running = true
}

// Pause stops the clock and drops the commentary focus.
func (e *Engine) Pause() {
	e.state.Running = false
	e.state.Focus = nil
}

// Reset returns the replay to its initial state: clock at zero, every
// commentary event pending, lanes forgotten.
func (e *Engine) Reset() {
	speed := e.state.Speed
	e.state = State{
		Speed:     speed,
		Distances: make(map[int]float64, len(e.race.Competitors)),
		Lanes:     make(map[int]int, len(e.race.Competitors)),
		fresh:     true,
	}
	e.lanes.Reset()
	e.sched.Reset()
	e.seq = 0
}

// SetSpeed changes the time multiplier.
func (e *Engine) SetSpeed(v float64) { e.state.Speed = ClampSpeed(v) }

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	s := e.state
	s.Distances = make(map[int]float64, len(e.state.Distances))
	for k, v := range e.state.Distances {
		s.Distances[k] = v
	}
	s.Lanes = make(map[int]int, len(e.state.Lanes))
	for k, v := range e.state.Lanes {
		s.Lanes[k] = v
	}
	s.FinishOrder = append([]int(nil), e.state.FinishOrder...)
	if e.state.Focus != nil {
		f := *e.state.Focus
		s.Focus = &f
	}
	return s
}

// Tick advances the clock by the elapsed wall time scaled by the speed and
// returns the resulting frame. Distances and commentary depend only on the
// accumulated race time, not on how many ticks it took to get there.
func (e *Engine) Tick(in TickInput) Frame {
	if in.Speed != 0 {
		e.SetSpeed(in.Speed)
	}
	if e.state.Running && in.Elapsed > 0 {
		e.state.RaceTime += in.Elapsed.Seconds() * e.state.Speed
	}
	e.seq++

	total := e.track.Config().RaceDistance
	standings := make([]Standing, len(e.race.Competitors))
	for i := range e.race.Competitors {
		c := &e.race.Competitors[i]
		standings[i] = Standing{ID: c.ID, Distance: DistanceAtTime(c.Splits, total, e.state.RaceTime)}
	}

	if e.state.Running || len(e.state.Lanes) == 0 {
		e.state.Lanes = e.lanes.Assign(standings)
	}

	frame := Frame{
		Seq:         e.seq,
		RaceTime:    e.state.RaceTime,
		Clock:       FormatRaceTime(e.state.RaceTime),
		Countdown:   Countdown(e.state.RaceTime),
		Speed:       e.state.Speed,
		Competitors: make([]CompetitorFrame, len(standings)),
		Laps:        e.track.Config().Laps(),
		AllFinished: true,
	}

	var crossed []int
	leaderIdx := -1
	for i, s := range standings {
		lane := e.state.Lanes[s.ID]
		pos := e.track.PositionAt(s.Distance, lane)
		finished := s.Distance >= total
		frame.Competitors[i] = CompetitorFrame{
			ID:       s.ID,
			Distance: s.Distance,
			Lane:     lane,
			X:        pos.X,
			Y:        pos.Y,
			Lap:      e.lapOf(s.Distance),
			Finished: finished,
		}
		if !finished {
			frame.AllFinished = false
		} else if _, seen := e.state.Distances[s.ID]; !seen || e.state.Distances[s.ID] < total {
			crossed = append(crossed, s.ID)
		}
		if leaderIdx < 0 || s.Distance > standings[leaderIdx].Distance {
			leaderIdx = i
		}
		e.state.Distances[s.ID] = s.Distance
	}
	if leaderIdx >= 0 {
		frame.LeaderID = standings[leaderIdx].ID
		frame.LeaderDistance = standings[leaderIdx].Distance
	}
	if len(crossed) > 0 {
		sort.SliceStable(crossed, func(i, j int) bool {
			a, _ := e.race.Competitor(crossed[i])
			b, _ := e.race.Competitor(crossed[j])
			return a.FinishTime() < b.FinishTime()
		})
		e.state.FinishOrder = append(e.state.FinishOrder, crossed...)
		frame.Finishers = crossed
	}
	frame.Lap = e.focusLap(frame)

	if e.state.Running {
		if c, ok := e.sched.NextEvent(e.state.RaceTime, in.Busy); ok {
			frame.Commentary = &c
			e.state.Focus = c.SubjectID
		} else if !in.Busy {
			e.state.Focus = nil
		}
		if frame.AllFinished {
			e.state.Running = false
			e.state.Finished = true
		}
	}
	if e.state.Focus != nil {
		f := *e.state.Focus
		frame.Focus = &f
	}
	frame.Running = e.state.Running
	return frame
}

func (e *Engine) lapOf(d float64) int {
	cfg := e.track.Config()
	lap := int(d/cfg.LapLength) + 1
	if laps := cfg.Laps(); lap > laps {
		lap = laps
	}
	return lap
}

// focusLap counts laps for the highlighted competitor, else the leader.
func (e *Engine) focusLap(f Frame) int {
	if f.RaceTime < 0 {
		return 1
	}
	d := f.LeaderDistance
	if c, ok := e.race.Highlighted(); ok {
		d = e.state.Distances[c.ID]
	}
	return e.lapOf(d)
}
