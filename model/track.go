package model

// TrackConfig holds the circuit constants. Lengths named *Length in pixels are
// screen units; LapLength and RaceDistance are metres.
type TrackConfig struct {
	LapLength      float64 `json:"lap_length"`
	RaceDistance   float64 `json:"race_distance"`
	Lanes          int     `json:"lanes"`
	LaneWidth      float64 `json:"lane_width"`
	InnerRadius    float64 `json:"inner_radius"`
	StraightLength float64 `json:"straight_length"`
	FinishOffset   float64 `json:"finish_offset"` // from the start of the home straight to the line
	CenterX        float64 `json:"center_x"`
	CenterY        float64 `json:"center_y"`
}

// DefaultTrackConfig is a six lane 200m indoor oval hosting an 800m race.
func DefaultTrackConfig() TrackConfig {
	return TrackConfig{
		LapLength:      200,
		RaceDistance:   800,
		Lanes:          6,
		LaneWidth:      32,
		InnerRadius:    96,
		StraightLength: 250,
		FinishOffset:   187.5,
		CenterX:        400,
		CenterY:        300,
	}
}

// WithDefaults fills zero fields from DefaultTrackConfig.
func (t TrackConfig) WithDefaults() TrackConfig {
	d := DefaultTrackConfig()
	if t.LapLength == 0 {
		t.LapLength = d.LapLength
	}
	if t.RaceDistance == 0 {
		t.RaceDistance = d.RaceDistance
	}
	if t.Lanes == 0 {
		t.Lanes = d.Lanes
	}
	if t.LaneWidth == 0 {
		t.LaneWidth = d.LaneWidth
	}
	if t.InnerRadius == 0 {
		t.InnerRadius = d.InnerRadius
	}
	if t.StraightLength == 0 {
		t.StraightLength = d.StraightLength
	}
	if t.FinishOffset == 0 {
		t.FinishOffset = d.FinishOffset
	}
	if t.CenterX == 0 {
		t.CenterX = d.CenterX
	}
	if t.CenterY == 0 {
		t.CenterY = d.CenterY
	}
	return t
}

// MaxLane is the outermost lane index.
func (t TrackConfig) MaxLane() int { return t.Lanes - 1 }

// Laps returns the number of laps in the race.
func (t TrackConfig) Laps() int {
	if t.LapLength <= 0 {
		return 0
	}
	return int(t.RaceDistance/t.LapLength + 0.5)
}
