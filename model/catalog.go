package model

// EventID references an entry of the commentary catalog.
type EventID int

// DefaultClipDuration is assumed for clips without a measured duration (seconds).
const DefaultClipDuration = 8.0

// CatalogEntry is one commentary line. SubjectID names the competitor the line is
// about; nil means the line has no designated subject.
type CatalogEntry struct {
	ID        EventID `json:"id"`
	SubjectID *int    `json:"subject_id"`
	Text      string  `json:"text"`
	Clip      string  `json:"clip"`
	Duration  float64 `json:"duration_sec"`
}

// TriggerKind selects what a global event is measured against.
type TriggerKind string

const (
	TriggerTime     TriggerKind = "time"
	TriggerDistance TriggerKind = "distance"
)

// GlobalEvent fires on race time or on the leader's distance.
type GlobalEvent struct {
	Kind    TriggerKind `json:"type"`
	Trigger float64     `json:"trigger"`
	EventID EventID     `json:"event_id"`
	Desc    string      `json:"desc,omitempty"`
}

// Checkpoint fires when its owning competitor reaches Distance.
type Checkpoint struct {
	Distance float64 `json:"distance"`
	EventID  EventID `json:"event_id"`
	Desc     string  `json:"desc,omitempty"`
}

// Subject returns a copy of the id pointer so callers cannot alias catalog data.
func (e CatalogEntry) Subject() *int {
	if e.SubjectID == nil {
		return nil
	}
	v := *e.SubjectID
	return &v
}

// ClipDuration returns the clip length, defaulting when unknown.
func (e CatalogEntry) ClipDuration() float64 {
	if e.Duration <= 0 {
		return DefaultClipDuration
	}
	return e.Duration
}
