package sim

import (
	"math"

	"trackreplay/model"
)

// Point is a screen coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Track projects lap distance and lane onto the oval. The lap starts at the
// finish line on the home straight and runs: short straight to the first bend,
// bend, back straight, bend, then the rest of the home straight to the line.
//
// Segment boundaries are fixed in metres from the innermost lane's geometry;
// outer lanes cover the same metres with a wider bend, so they travel more
// pixels per lap. Metric distance is never lane corrected. Bend thresholds are
// not recomputed per lane, so every lane enters a bend at the same distance.
type Track struct {
	cfg        model.TrackConfig
	pxPerMeter float64
	bounds     [5]float64 // cumulative end of each segment, metres
}

// NewTrack derives the segment thresholds from the lane width and inner radius.
func NewTrack(cfg model.TrackConfig) *Track {
	cfg = cfg.WithDefaults()
	t := &Track{cfg: cfg}
	r0 := cfg.InnerRadius + cfg.LaneWidth/2
	basePx := 2*cfg.StraightLength + 2*math.Pi*r0
	t.pxPerMeter = basePx / cfg.LapLength

	short := (cfg.StraightLength - cfg.FinishOffset) / t.pxPerMeter
	bend := math.Pi * r0 / t.pxPerMeter
	back := cfg.StraightLength / t.pxPerMeter
	t.bounds[0] = short
	t.bounds[1] = t.bounds[0] + bend
	t.bounds[2] = t.bounds[1] + back
	t.bounds[3] = t.bounds[2] + bend
	t.bounds[4] = cfg.LapLength
	return t
}

// Config returns the effective track constants.
func (t *Track) Config() model.TrackConfig { return t.cfg }

// Bounds returns the cumulative segment thresholds in metres.
func (t *Track) Bounds() [5]float64 { return t.bounds }

// PixelsPerMeter is the scale of the innermost lane.
func (t *Track) PixelsPerMeter() float64 { return t.pxPerMeter }

// LaneOffset is the distance of a lane's running line from the inner edge.
func (t *Track) LaneOffset(lane int) float64 {
	lane = t.clampLane(lane)
	return float64(lane)*t.cfg.LaneWidth + t.cfg.LaneWidth/2
}

// Radius is the bend radius of a lane's running line.
func (t *Track) Radius(lane int) float64 {
	return t.cfg.InnerRadius + t.LaneOffset(lane)
}

func (t *Track) clampLane(lane int) int {
	if lane < 0 {
		return 0
	}
	if maxLane := t.cfg.MaxLane(); lane > maxLane {
		return maxLane
	}
	return lane
}

// LapDistance reduces any distance into [0, lap).
func (t *Track) LapDistance(distance float64) float64 {
	d := math.Mod(distance, t.cfg.LapLength)
	if d < 0 {
		d += t.cfg.LapLength
	}
	return d
}

// PositionAt maps a distance travelled and a lane to a screen position.
func (t *Track) PositionAt(distance float64, lane int) Point {
	d := t.LapDistance(distance)
	r := t.Radius(lane)
	s := t.cfg.StraightLength
	right := Point{X: t.cfg.CenterX + s/2, Y: t.cfg.CenterY}
	left := Point{X: t.cfg.CenterX - s/2, Y: t.cfg.CenterY}
	finishX := left.X + t.cfg.FinishOffset

	start := 0.0
	for i, end := range t.bounds {
		if d >= end && i < len(t.bounds)-1 {
			start = end
			continue
		}
		f := fraction(d, start, end)
		switch i {
		case 0:
			return straightAt(finishX, 1, t.cfg.CenterY+r, s-t.cfg.FinishOffset, f)
		case 1:
			return bendAt(right, r, math.Pi/2, f)
		case 2:
			return straightAt(right.X, -1, t.cfg.CenterY-r, s, f)
		case 3:
			// the far bend is the near one rotated by pi
			return bendAt(left, r, math.Pi/2-math.Pi, f)
		default:
			return straightAt(left.X, 1, t.cfg.CenterY+r, t.cfg.FinishOffset, f)
		}
	}
	return straightAt(finishX, 1, t.cfg.CenterY+r, 0, 0)
}

// Outline samples a lane's running line once around the lap.
func (t *Track) Outline(lane, samples int) []Point {
	if samples < 4 {
		samples = 4
	}
	out := make([]Point, samples)
	step := t.cfg.LapLength / float64(samples)
	for i := range out {
		out[i] = t.PositionAt(float64(i)*step, lane)
	}
	return out
}

func fraction(d, start, end float64) float64 {
	if end <= start {
		return 0
	}
	f := (d - start) / (end - start)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// straightAt walks length pixels along x in direction dir from x0.
func straightAt(x0, dir, y, length, f float64) Point {
	return Point{X: x0 + dir*f*length, Y: y}
}

// bendAt sweeps half a circle clockwise in parameter space (counter-clockwise
// on a y-down screen) starting at angle theta0.
func bendAt(c Point, r, theta0, f float64) Point {
	theta := theta0 - f*math.Pi
	return Point{X: c.X + r*math.Cos(theta), Y: c.Y + r*math.Sin(theta)}
}
