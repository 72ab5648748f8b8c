package sim

import "sort"

// Standing is a competitor's distance at the current tick.
type Standing struct {
	ID       int
	Distance float64
}

// LaneAllocator spreads competitors across lanes by standing. A competitor moves
// out one lane when it overtakes someone and otherwise drifts back, one lane per
// tick, towards the lane matching its rank.
type LaneAllocator struct {
	maxLane int
	lanes   map[int]int
	prev    map[int]float64
}

// NewLaneAllocator returns an allocator for lanes 0..maxLane.
func NewLaneAllocator(maxLane int) *LaneAllocator {
	if maxLane < 0 {
		maxLane = 0
	}
	return &LaneAllocator{
		maxLane: maxLane,
		lanes:   make(map[int]int),
		prev:    make(map[int]float64),
	}
}

// DefaultLane is where a competitor without history starts.
func (a *LaneAllocator) DefaultLane() int { return (a.maxLane + 1) / 2 }

// MaxLane returns the outermost lane index.
func (a *LaneAllocator) MaxLane() int { return a.maxLane }

// Assign computes this tick's lanes and remembers the distances for the next one.
func (a *LaneAllocator) Assign(standings []Standing) map[int]int {
	order := make([]Standing, len(standings))
	copy(order, standings)
	sort.SliceStable(order, func(i, j int) bool { return order[i].Distance > order[j].Distance })

	next := make(map[int]int, len(order))
	for rank, s := range order {
		lane, seen := a.lanes[s.ID]
		if !seen {
			next[s.ID] = a.clamp(a.DefaultLane())
			continue
		}
		target := rank
		if target > a.maxLane {
			target = a.maxLane
		}
		switch {
		case a.overtook(s, standings):
			if lane < a.maxLane {
				lane++
			}
		case lane > target:
			lane--
		}
		next[s.ID] = a.clamp(lane)
	}

	for _, s := range standings {
		a.prev[s.ID] = s.Distance
	}
	a.lanes = next

	out := make(map[int]int, len(next))
	for id, l := range next {
		out[id] = l
	}
	return out
}

// overtook reports whether someone who was ahead of s last tick is now level
// with or behind it.
func (a *LaneAllocator) overtook(s Standing, all []Standing) bool {
	mine, ok := a.prev[s.ID]
	if !ok {
		return false
	}
	for _, o := range all {
		if o.ID == s.ID {
			continue
		}
		theirs, ok := a.prev[o.ID]
		if !ok {
			continue
		}
		if theirs > mine && o.Distance <= s.Distance {
			return true
		}
	}
	return false
}

func (a *LaneAllocator) clamp(lane int) int {
	if lane < 0 {
		return 0
	}
	if lane > a.maxLane {
		return a.maxLane
	}
	return lane
}

// Lane returns the current lane of a competitor.
func (a *LaneAllocator) Lane(id int) (int, bool) {
	l, ok := a.lanes[id]
	return l, ok
}

// Reset forgets all lanes and previous distances.
func (a *LaneAllocator) Reset() {
	a.lanes = make(map[int]int)
	a.prev = make(map[int]float64)
}
