package sim

import (
	"math"
	"sort"

	"trackreplay/model"
)

// EventState is the lifecycle of a scheduled commentary event.
type EventState uint8

const (
	Pending EventState = iota
	Played
)

func (s EventState) String() string {
	if s == Played {
		return "played"
	}
	return "pending"
}

// Source tells which trigger class produced a commentary event.
type Source string

const (
	SourceTime       Source = "time"
	SourceDistance   Source = "distance"
	SourceCheckpoint Source = "checkpoint"
)

// Commentary is a dispatched catalog entry.
type Commentary struct {
	EventID   model.EventID `json:"event_id"`
	SubjectID *int          `json:"subject_id"`
	Text      string        `json:"text"`
	Clip      string        `json:"clip,omitempty"`
	Duration  float64       `json:"duration_sec"`
	Source    Source        `json:"source"`
	DueTime   float64       `json:"due_time"`
	RaceTime  float64       `json:"race_time"`
}

type trigger struct {
	id      model.EventID
	source  Source
	value   float64
	owner   *model.Competitor
	dueTime float64
}

// Scheduler picks at most one due commentary event per call. Candidates are
// ordered by the race time at which they became due, then by catalog id, so
// events skipped over in a single large step still come out chronologically.
type Scheduler struct {
	race     *model.Race
	total    float64
	triggers []trigger
	state    map[model.EventID]EventState
	orphans  []model.EventID
}

// NewScheduler flattens the race's global and checkpoint triggers. Checkpoints
// whose owner is not on the roster are kept aside as orphans and never fire.
func NewScheduler(race *model.Race) *Scheduler {
	s := &Scheduler{race: race, total: race.Track.WithDefaults().RaceDistance}

	for _, g := range race.Globals {
		t := trigger{id: g.EventID, value: g.Trigger}
		switch g.Kind {
		case model.TriggerTime:
			t.source = SourceTime
			t.dueTime = g.Trigger
		case model.TriggerDistance:
			t.source = SourceDistance
			t.dueTime = s.earliestAt(g.Trigger)
		default:
			continue
		}
		s.triggers = append(s.triggers, t)
	}

	owners := make([]int, 0, len(race.Checkpoints))
	for id := range race.Checkpoints {
		owners = append(owners, id)
	}
	sort.Ints(owners)
	for _, id := range owners {
		c, ok := race.Competitor(id)
		for _, cp := range race.Checkpoints[id] {
			if !ok {
				s.orphans = append(s.orphans, cp.EventID)
				continue
			}
			s.triggers = append(s.triggers, trigger{
				id:      cp.EventID,
				source:  SourceCheckpoint,
				value:   cp.Distance,
				owner:   c,
				dueTime: TimeAtDistance(c.Splits, s.total, cp.Distance),
			})
		}
	}

	s.Reset()
	return s
}

// earliestAt is the first time any competitor reaches d.
func (s *Scheduler) earliestAt(d float64) float64 {
	best := math.Inf(1)
	for i := range s.race.Competitors {
		if t := TimeAtDistance(s.race.Competitors[i].Splits, s.total, d); t < best {
			best = t
		}
	}
	return best
}

// LeaderDistance is the furthest distance covered by anyone at raceTime.
func (s *Scheduler) LeaderDistance(raceTime float64) float64 {
	best := 0.0
	for i := range s.race.Competitors {
		if d := DistanceAtTime(s.race.Competitors[i].Splits, s.total, raceTime); d > best {
			best = d
		}
	}
	return best
}

func (s *Scheduler) due(t trigger, raceTime, leader float64) bool {
	switch t.source {
	case SourceTime:
		return raceTime >= t.value
	case SourceDistance:
		return leader >= t.value
	case SourceCheckpoint:
		return DistanceAtTime(t.owner.Splits, s.total, raceTime) >= t.value
	}
	return false
}

// NextEvent returns the earliest due pending event and marks it played. When the
// caller's output channel is busy nothing is selected and no state changes.
func (s *Scheduler) NextEvent(raceTime float64, busy bool) (Commentary, bool) {
	if busy {
		return Commentary{}, false
	}
	leader := s.LeaderDistance(raceTime)

	best := -1
	for i, t := range s.triggers {
		if s.state[t.id] != Pending || !s.due(t, raceTime, leader) {
			continue
		}
		if best < 0 || earlier(t, s.triggers[best]) {
			best = i
		}
	}
	if best < 0 {
		return Commentary{}, false
	}

	t := s.triggers[best]
	s.state[t.id] = Played
	return s.commentary(t, raceTime), true
}

func earlier(a, b trigger) bool {
	if a.dueTime != b.dueTime {
		return a.dueTime < b.dueTime
	}
	return a.id < b.id
}

func (s *Scheduler) commentary(t trigger, raceTime float64) Commentary {
	c := Commentary{EventID: t.id, Source: t.source, DueTime: t.dueTime, RaceTime: raceTime}
	entry, ok := s.race.Entry(t.id)
	if ok {
		c.SubjectID = entry.Subject()
		c.Text = entry.Text
		c.Clip = entry.Clip
		c.Duration = entry.ClipDuration()
	}
	if c.SubjectID == nil && t.owner != nil {
		id := t.owner.ID
		c.SubjectID = &id
	}
	return c
}

// Reset returns every event to Pending.
func (s *Scheduler) Reset() {
	state := make(map[model.EventID]EventState, len(s.triggers))
	for _, t := range s.triggers {
		state[t.id] = Pending
	}
	s.state = state
}

// State reports the lifecycle state of an event.
func (s *Scheduler) State(id model.EventID) EventState { return s.state[id] }

// PendingCount returns how many events have not fired yet.
func (s *Scheduler) PendingCount() int {
	n := 0
	for _, st := range s.state {
		if st == Pending {
			n++
		}
	}
	return n
}

// Orphans lists checkpoint events whose owner is missing from the roster.
func (s *Scheduler) Orphans() []model.EventID {
	return append([]model.EventID(nil), s.orphans...)
}

// TimelineEntry is an event with its computed due time.
type TimelineEntry struct {
	EventID model.EventID `json:"event_id"`
	Source  Source        `json:"source"`
	Trigger float64       `json:"trigger"`
	OwnerID int           `json:"owner_id,omitempty"`
	DueTime float64       `json:"due_time"`
}

// Timeline lists all schedulable events sorted by (dueTime, id). Zero-distance
// triggers have dueTime 0 but are due for the whole countdown, so one can fire
// ahead of a negative time trigger that precedes it here.
func (s *Scheduler) Timeline() []TimelineEntry {
	out := make([]TimelineEntry, 0, len(s.triggers))
	ts := append([]trigger(nil), s.triggers...)
	sort.SliceStable(ts, func(i, j int) bool { return earlier(ts[i], ts[j]) })
	for _, t := range ts {
		e := TimelineEntry{EventID: t.id, Source: t.source, Trigger: t.value, DueTime: t.dueTime}
		if t.owner != nil {
			e.OwnerID = t.owner.ID
		}
		out = append(out, e)
	}
	return out
}
