package model

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultPreRaceStart is where the clock begins when a replay starts (seconds).
const DefaultPreRaceStart = -46.0

var (
	ErrNoCompetitors       = errors.New("race has no competitors")
	ErrDuplicateCompetitor = errors.New("duplicate competitor id")
	ErrInvalidSplits       = errors.New("invalid splits")
	ErrUnknownEvent        = errors.New("unknown catalog event")
	ErrDuplicateEvent      = errors.New("catalog event referenced more than once")
	ErrInvalidCheckpoint   = errors.New("invalid checkpoint")
	ErrInvalidGlobal       = errors.New("invalid global event")
	ErrInvalidTrack        = errors.New("invalid track config")
)

// Race is the immutable input of a replay: roster, commentary catalog and the
// triggers that tie catalog entries to the race.
type Race struct {
	Name         string               `json:"name"`
	PreRaceStart float64              `json:"pre_race_start"`
	Track        TrackConfig          `json:"track"`
	Competitors  []Competitor         `json:"competitors"`
	Catalog      []CatalogEntry       `json:"catalog"`
	Globals      []GlobalEvent        `json:"globals"`
	Checkpoints  map[int][]Checkpoint `json:"checkpoints"`

	byID    map[int]int
	byEvent map[EventID]int
}

// Validate checks every load-time invariant and builds the lookup indexes.
// All violations are reported together.
func (r *Race) Validate() error {
	r.Track = r.Track.WithDefaults()
	var errs []error
	if err := validateTrack(r.Track); err != nil {
		errs = append(errs, err)
	}
	if len(r.Competitors) == 0 {
		errs = append(errs, ErrNoCompetitors)
	}

	byID := make(map[int]int, len(r.Competitors))
	for i := range r.Competitors {
		c := &r.Competitors[i]
		if _, dup := byID[c.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: %d", ErrDuplicateCompetitor, c.ID))
			continue
		}
		byID[c.ID] = i
		if err := validateSplits(c.Splits); err != nil {
			errs = append(errs, fmt.Errorf("competitor %d: %w", c.ID, err))
		}
	}

	byEvent := make(map[EventID]int, len(r.Catalog))
	for i, e := range r.Catalog {
		if _, dup := byEvent[e.ID]; dup {
			errs = append(errs, fmt.Errorf("%w: catalog id %d declared twice", ErrDuplicateEvent, e.ID))
			continue
		}
		byEvent[e.ID] = i
	}

	used := make(map[EventID]bool)
	ref := func(id EventID, where string) {
		if _, ok := byEvent[id]; !ok {
			errs = append(errs, fmt.Errorf("%s: %w %d", where, ErrUnknownEvent, id))
			return
		}
		if used[id] {
			errs = append(errs, fmt.Errorf("%s: %w: %d", where, ErrDuplicateEvent, id))
			return
		}
		used[id] = true
	}

	for i, g := range r.Globals {
		where := fmt.Sprintf("global %d", i)
		switch g.Kind {
		case TriggerTime:
		case TriggerDistance:
			if g.Trigger < 0 || g.Trigger > r.Track.RaceDistance {
				errs = append(errs, fmt.Errorf("%s: %w: distance %.1f outside race", where, ErrInvalidGlobal, g.Trigger))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: %w: trigger kind %q", where, ErrInvalidGlobal, g.Kind))
		}
		ref(g.EventID, where)
	}

	// iterate owners in order so error output is stable
	owners := make([]int, 0, len(r.Checkpoints))
	for id := range r.Checkpoints {
		owners = append(owners, id)
	}
	sort.Ints(owners)
	for _, owner := range owners {
		prev := -1.0
		for i, cp := range r.Checkpoints[owner] {
			where := fmt.Sprintf("checkpoint %d of competitor %d", i, owner)
			if cp.Distance < 0 || cp.Distance > r.Track.RaceDistance {
				errs = append(errs, fmt.Errorf("%s: %w: distance %.1f outside race", where, ErrInvalidCheckpoint, cp.Distance))
			} else if cp.Distance < prev {
				errs = append(errs, fmt.Errorf("%s: %w: distance %.1f after %.1f", where, ErrInvalidCheckpoint, cp.Distance, prev))
			}
			prev = cp.Distance
			ref(cp.EventID, where)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	r.byID = byID
	r.byEvent = byEvent
	return nil
}

func validateSplits(splits []float64) error {
	if len(splits) < 2 {
		return fmt.Errorf("%w: need at least 2 entries, got %d", ErrInvalidSplits, len(splits))
	}
	if splits[0] != 0 {
		return fmt.Errorf("%w: first split must be 0, got %v", ErrInvalidSplits, splits[0])
	}
	for i := 1; i < len(splits); i++ {
		if splits[i] <= splits[i-1] {
			return fmt.Errorf("%w: split %d (%v) not after %v", ErrInvalidSplits, i, splits[i], splits[i-1])
		}
	}
	return nil
}

func validateTrack(t TrackConfig) error {
	switch {
	case t.LapLength <= 0:
		return fmt.Errorf("%w: lap length %v", ErrInvalidTrack, t.LapLength)
	case t.RaceDistance <= 0:
		return fmt.Errorf("%w: race distance %v", ErrInvalidTrack, t.RaceDistance)
	case t.Lanes < 1:
		return fmt.Errorf("%w: lanes %d", ErrInvalidTrack, t.Lanes)
	case t.LaneWidth <= 0:
		return fmt.Errorf("%w: lane width %v", ErrInvalidTrack, t.LaneWidth)
	case t.InnerRadius < 0:
		return fmt.Errorf("%w: inner radius %v", ErrInvalidTrack, t.InnerRadius)
	case t.StraightLength <= 0:
		return fmt.Errorf("%w: straight length %v", ErrInvalidTrack, t.StraightLength)
	case t.FinishOffset < 0 || t.FinishOffset >= t.StraightLength:
		return fmt.Errorf("%w: finish offset %v not on the home straight", ErrInvalidTrack, t.FinishOffset)
	}
	return nil
}

// Competitor returns the roster entry with the given id.
func (r *Race) Competitor(id int) (*Competitor, bool) {
	if r.byID == nil {
		for i := range r.Competitors {
			if r.Competitors[i].ID == id {
				return &r.Competitors[i], true
			}
		}
		return nil, false
	}
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return &r.Competitors[i], true
}

// Entry returns the catalog entry with the given id.
func (r *Race) Entry(id EventID) (CatalogEntry, bool) {
	if r.byEvent == nil {
		for _, e := range r.Catalog {
			if e.ID == id {
				return e, true
			}
		}
		return CatalogEntry{}, false
	}
	i, ok := r.byEvent[id]
	if !ok {
		return CatalogEntry{}, false
	}
	return r.Catalog[i], true
}

// Highlighted returns the first highlighted competitor, if any.
func (r *Race) Highlighted() (*Competitor, bool) {
	for i := range r.Competitors {
		if r.Competitors[i].Highlighted {
			return &r.Competitors[i], true
		}
	}
	return nil, false
}
