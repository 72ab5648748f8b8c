package sim

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"trackreplay/model"
)

// Result is one line of the results table.
type Result struct {
	Place        int       `json:"place"`
	CompetitorID int       `json:"competitor_id"`
	Name         string    `json:"name"`
	Team         string    `json:"team"`
	Bib          int       `json:"bib"`
	FinishTime   float64   `json:"finish_time"`
	Laps         []float64 `json:"laps"`
}

// ReportSummary carries end-of-replay data needed for reporting.
type ReportSummary struct {
	Race     string
	Speed    float64
	Ticks    int
	RaceTime float64
	Results  []Result
	Timeline []Commentary
}

// BuildResults orders the roster by finish time.
func BuildResults(race *model.Race) []Result {
	out := make([]Result, 0, len(race.Competitors))
	for i := range race.Competitors {
		c := &race.Competitors[i]
		out = append(out, Result{
			CompetitorID: c.ID,
			Name:         c.DisplayName(),
			Team:         c.Team,
			Bib:          c.Bib,
			FinishTime:   c.FinishTime(),
			Laps:         c.SegmentTimes(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FinishTime < out[j].FinishTime })
	for i := range out {
		out[i].Place = i + 1
	}
	return out
}

// WriteCSVReport writes a CSV report to the given path or directory.
// If reportPath is a directory, it creates a timestamped file inside.
// If reportPath is a file, a timestamp is suffixed before the extension.
func WriteCSVReport(reportPath string, sum ReportSummary) (string, error) {
	if reportPath == "" {
		return "", nil
	}
	ts := time.Now().Format("20060102-150405")
	outPath := reportPath
	if fi, err := os.Stat(outPath); err == nil && fi.IsDir() {
		outPath = filepath.Join(outPath, fmt.Sprintf("replay-%s.csv", ts))
	} else {
		ext := filepath.Ext(outPath)
		base := outPath[:len(outPath)-len(ext)]
		outPath = fmt.Sprintf("%s-%s%s", base, ts, ext)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := writeCSV(f, sum); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	log.Printf("CSV report written to %s", outPath)
	return outPath, nil
}

func writeCSV(w io.Writer, sum ReportSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"section", "place", "competitor_id", "name", "team", "bib", "time", "splits", "event_id", "text"}); err != nil {
		return err
	}
	for _, r := range sum.Results {
		splits := ""
		for i, l := range r.Laps {
			if i > 0 {
				splits += " "
			}
			splits += FormatRaceTime(l)
		}
		rec := []string{"result", strconv.Itoa(r.Place), strconv.Itoa(r.CompetitorID), r.Name, r.Team, strconv.Itoa(r.Bib), FormatRaceTime(r.FinishTime), splits, "", ""}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	for _, c := range sum.Timeline {
		subject := ""
		if c.SubjectID != nil {
			subject = strconv.Itoa(*c.SubjectID)
		}
		rec := []string{"commentary", "", subject, "", "", "", FormatRaceTime(c.RaceTime), "", strconv.Itoa(int(c.EventID)), c.Text}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrintConsoleReport prints a human-readable report.
func PrintConsoleReport(w io.Writer, sum ReportSummary) {
	fmt.Fprintln(w, "=== Replay Report ===")
	if sum.Race != "" {
		fmt.Fprintf(w, "Race: %s\n", sum.Race)
	}
	fmt.Fprintf(w, "Speed: %.2fx  Ticks: %d  Clock: %s\n", sum.Speed, sum.Ticks, FormatRaceTime(sum.RaceTime))
	fmt.Fprintln(w, "--- Results ---")
	for _, r := range sum.Results {
		fmt.Fprintf(w, "%2d. (%d) %-12s %-12s %s", r.Place, r.Bib, r.Name, r.Team, FormatRaceTime(r.FinishTime))
		for _, l := range r.Laps {
			fmt.Fprintf(w, " [%s]", FormatRaceTime(l))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "--- Commentary (%d) ---\n", len(sum.Timeline))
	for _, c := range sum.Timeline {
		fmt.Fprintf(w, "%9s #%02d %-10s %s\n", FormatRaceTime(c.RaceTime), c.EventID, c.Source, c.Text)
	}
}
