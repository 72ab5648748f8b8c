package server

import (
	"trackreplay/sim"
)

// encodeEvent maps a runner event to its stream name and JSON payload.
func encodeEvent(e sim.Event) (string, any) {
	switch ev := e.(type) {
	case sim.InitEvent:
		return "init", map[string]any{"time": ev.Time, "conn_id": ev.ConnID, "race": ev.Race, "competitors": ev.Competitors, "laps": ev.Laps, "speed": ev.Speed}
	case sim.FrameEvent:
		return "frame", ev.Frame
	case sim.CommentaryEvent:
		return "commentary", ev.Commentary
	case sim.FinishEvent:
		return "finish", map[string]any{"competitor_id": ev.CompetitorID, "place": ev.Place, "time": ev.Time, "clock": sim.FormatRaceTime(ev.Time)}
	case sim.ControlEvent:
		return "control", map[string]any{"action": ev.Command.Kind, "race_time": ev.RaceTime, "speed": ev.Speed, "running": ev.Running}
	case sim.DoneEvent:
		return "done", map[string]any{"race_time": ev.RaceTime, "ticks": ev.Ticks, "finish_order": ev.FinishOrder, "pending": ev.Pending, "fired": ev.Fired}
	}
	return "", nil
}
