package model

// Competitor is one runner of the recorded race. Splits holds cumulative times
// (seconds) at every checkpoint, starting with 0 at the gun.
type Competitor struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Team        string    `json:"team"`
	Age         int       `json:"age"`
	Bib         int       `json:"bib"`
	Color       string    `json:"color"`
	Splits      []float64 `json:"splits"`
	Highlighted bool      `json:"highlighted"`
}

// FinishTime returns the last recorded split.
func (c *Competitor) FinishTime() float64 {
	if len(c.Splits) == 0 {
		return 0
	}
	return c.Splits[len(c.Splits)-1]
}

// SegmentTimes returns the duration of each checkpoint-to-checkpoint segment.
func (c *Competitor) SegmentTimes() []float64 {
	if len(c.Splits) < 2 {
		return nil
	}
	out := make([]float64, len(c.Splits)-1)
	for i := 1; i < len(c.Splits); i++ {
		out[i-1] = c.Splits[i] - c.Splits[i-1]
	}
	return out
}

// DisplayName prefers the full name, falling back to the short name.
func (c *Competitor) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Name
}
