package model

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// raw structures matching the JSON file
type rawRace struct {
	Name         string                     `json:"name"`
	PreRaceStart *float64                   `json:"pre_race_start"`
	Track        TrackConfig                `json:"track"`
	Runners      []rawRunner                `json:"runners"`
	Clips        []rawClip                  `json:"clips"`
	Globals      []rawGlobal                `json:"globals"`
	Checkpoints  map[string][]rawCheckpoint `json:"checkpoints"`
}

type rawRunner struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	FullName  string    `json:"fullName"`
	Team      string    `json:"team"`
	Age       int       `json:"age"`
	Bib       int       `json:"bib"`
	Color     string    `json:"color"`
	Splits    []float64 `json:"splits"`
	Highlight bool      `json:"highlight"`
}

type rawClip struct {
	ID        *int    `json:"id"`
	File      string  `json:"file"`
	Text      string  `json:"text"`
	SubjectID *int    `json:"subjectId"`
	Duration  float64 `json:"duration_sec"`
}

type rawGlobal struct {
	Type     string  `json:"type"`
	Trigger  float64 `json:"trigger"`
	AudioIdx int     `json:"audioIdx"`
	Desc     string  `json:"desc"`
}

type rawCheckpoint struct {
	Distance float64 `json:"distance"`
	AudioIdx int     `json:"audioIdx"`
	Desc     string  `json:"desc"`
}

// LoadRaceFromReader parses a race JSON document, converts it to model types and
// validates it. Clips without an explicit id take their position in the list.
func LoadRaceFromReader(r io.Reader) (*Race, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var raw rawRace
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode race: %w", err)
	}
	race := &Race{
		Name:         raw.Name,
		PreRaceStart: DefaultPreRaceStart,
		Track:        raw.Track,
		Competitors:  make([]Competitor, 0, len(raw.Runners)),
		Catalog:      make([]CatalogEntry, 0, len(raw.Clips)),
		Globals:      make([]GlobalEvent, 0, len(raw.Globals)),
		Checkpoints:  make(map[int][]Checkpoint, len(raw.Checkpoints)),
	}
	if raw.PreRaceStart != nil {
		race.PreRaceStart = *raw.PreRaceStart
	}
	for _, rr := range raw.Runners {
		race.Competitors = append(race.Competitors, Competitor{
			ID:          rr.ID,
			Name:        rr.Name,
			FullName:    rr.FullName,
			Team:        rr.Team,
			Age:         rr.Age,
			Bib:         rr.Bib,
			Color:       rr.Color,
			Splits:      append([]float64(nil), rr.Splits...),
			Highlighted: rr.Highlight,
		})
	}
	for i, c := range raw.Clips {
		id := EventID(i)
		if c.ID != nil {
			id = EventID(*c.ID)
		}
		race.Catalog = append(race.Catalog, CatalogEntry{
			ID:        id,
			SubjectID: c.SubjectID,
			Text:      c.Text,
			Clip:      c.File,
			Duration:  c.Duration,
		})
	}
	for _, g := range raw.Globals {
		race.Globals = append(race.Globals, GlobalEvent{
			Kind:    TriggerKind(g.Type),
			Trigger: g.Trigger,
			EventID: EventID(g.AudioIdx),
			Desc:    g.Desc,
		})
	}
	for key, cps := range raw.Checkpoints {
		owner, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("decode race: checkpoint owner %q: %w", key, err)
		}
		list := make([]Checkpoint, 0, len(cps))
		for _, cp := range cps {
			list = append(list, Checkpoint{Distance: cp.Distance, EventID: EventID(cp.AudioIdx), Desc: cp.Desc})
		}
		race.Checkpoints[owner] = list
	}
	if err := race.Validate(); err != nil {
		return nil, fmt.Errorf("validate race: %w", err)
	}
	return race, nil
}
