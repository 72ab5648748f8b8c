package driver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"trackreplay/model"
	"trackreplay/sim"
)

// Options configures a headless replay.
type Options struct {
	Speed         float64
	Step          time.Duration // simulated wall time per tick
	SimulateAudio bool          // hold the busy flag for each clip's duration
	MaxTicks      int
	ReportPath    string
	Trace         bool
}

// Summary is the outcome of a headless replay.
type Summary struct {
	Speed     float64
	Ticks     int
	RaceTime  float64
	Completed bool
	Timeline  []sim.Commentary
	Results   []sim.Result
	Pending   int
}

// DefaultStep is one animation frame.
const DefaultStep = time.Second / 60

// ErrTickLimit is returned when a replay does not finish within MaxTicks.
var ErrTickLimit = errors.New("replay did not finish within tick limit")

// Run executes a fast, headless replay: fixed logical steps, no sleeps. Race
// state matches a real-time stream at the same speed; only wall-clock cost
// differs.
func Run(race *model.Race, opt Options) (Summary, error) {
	if race == nil || len(race.Competitors) == 0 {
		return Summary{}, fmt.Errorf("race not loaded")
	}
	step := opt.Step
	if step <= 0 {
		step = DefaultStep
	}
	speed := sim.ClampSpeed(opt.Speed)
	maxTicks := opt.MaxTicks
	if maxTicks <= 0 {
		// generous bound: the whole race plus countdown at the slowest speed
		span := 0.0
		for i := range race.Competitors {
			if f := race.Competitors[i].FinishTime(); f > span {
				span = f
			}
		}
		span -= race.PreRaceStart
		maxTicks = int(span/(step.Seconds()*speed)) + 1000
	}

	eng := sim.NewEngine(race)
	eng.SetSpeed(speed)
	eng.Start()

	sum := Summary{Speed: speed}
	var wall, busyUntil time.Duration
	for sum.Ticks < maxTicks {
		busy := opt.SimulateAudio && wall < busyUntil
		f := eng.Tick(sim.TickInput{Elapsed: step, Busy: busy})
		wall += step
		sum.Ticks++
		if f.Commentary != nil {
			c := *f.Commentary
			sum.Timeline = append(sum.Timeline, c)
			busyUntil = wall + time.Duration(c.Duration*float64(time.Second))
			if opt.Trace {
				log.Printf("trace: t=%s id=%d source=%s", f.Clock, c.EventID, c.Source)
			}
		}
		if f.AllFinished {
			sum.Completed = true
			sum.RaceTime = f.RaceTime
			break
		}
		sum.RaceTime = f.RaceTime
	}
	sum.Results = sim.BuildResults(race)
	sum.Pending = eng.Scheduler().PendingCount()
	if !sum.Completed {
		return sum, fmt.Errorf("%w (%d ticks at %.2fx)", ErrTickLimit, maxTicks, speed)
	}
	log.Printf("batch: speed=%.2fx ticks=%d clock=%s commentary=%d pending=%d", speed, sum.Ticks, sim.FormatRaceTime(sum.RaceTime), len(sum.Timeline), sum.Pending)

	if opt.ReportPath != "" {
		if _, err := sim.WriteCSVReport(opt.ReportPath, sum.Report(race.Name)); err != nil {
			return sum, fmt.Errorf("report: %w", err)
		}
	}
	return sum, nil
}

// Report converts the summary for the sim report writers.
func (s Summary) Report(raceName string) sim.ReportSummary {
	return sim.ReportSummary{
		Race:     raceName,
		Speed:    s.Speed,
		Ticks:    s.Ticks,
		RaceTime: s.RaceTime,
		Results:  s.Results,
		Timeline: s.Timeline,
	}
}

// RunSpeeds replays the race at several speeds concurrently and checks that the
// commentary comes out in the same order at every speed.
func RunSpeeds(ctx context.Context, race *model.Race, speeds []float64, opt Options) ([]Summary, error) {
	out := make([]Summary, len(speeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, sp := range speeds {
		i, sp := i, sp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := opt
			o.Speed = sp
			o.ReportPath = ""
			s, err := Run(race, o)
			if err != nil {
				return fmt.Errorf("speed %.2fx: %w", sp, err)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ConsistentOrder(out); err != nil {
		return out, err
	}
	return out, nil
}

// ConsistentOrder verifies every timeline is a prefix of the longest one. Busy
// gaps can leave late events unplayed at high speed. They can only reorder events
// when a zero-distance trigger competes with a countdown time trigger, since the
// former is due from the first tick but sorts at dueTime 0.
func ConsistentOrder(sums []Summary) error {
	longest := -1
	for i, s := range sums {
		if longest < 0 || len(s.Timeline) > len(sums[longest].Timeline) {
			longest = i
		}
	}
	if longest < 0 {
		return nil
	}
	ref := sums[longest].Timeline
	for _, s := range sums {
		for k, c := range s.Timeline {
			if c.EventID != ref[k].EventID {
				return fmt.Errorf("speed %.2fx: commentary %d is event %d, expected %d", s.Speed, k, c.EventID, ref[k].EventID)
			}
		}
	}
	return nil
}
