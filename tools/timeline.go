package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"trackreplay/data"
	"trackreplay/model"
	"trackreplay/sim"
)

// Prints every commentary event sorted by due time, roughly the order it fires
// in with no busy gaps. Useful when writing checkpoint tables for a new race.
func main() {
	path := flag.String("race", "", "race JSON file (empty = built-in demo heat)")
	asJSON := flag.Bool("json", false, "print JSON instead of a table")
	flag.Parse()

	race := data.DemoRace()
	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			log.Fatalf("open: %v", err)
		}
		race, err = model.LoadRaceFromReader(f)
		f.Close()
		if err != nil {
			log.Fatalf("load: %v", err)
		}
	}

	sched := sim.NewScheduler(race)
	for _, id := range sched.Orphans() {
		log.Printf("event %d: owner not on roster, never fires", id)
	}
	timeline := sched.Timeline()
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(timeline); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}
	for _, e := range timeline {
		owner := "-"
		if e.OwnerID != 0 {
			owner = fmt.Sprintf("%d", e.OwnerID)
		}
		desc := ""
		if entry, ok := race.Entry(e.EventID); ok {
			desc = entry.Text
			if len(desc) > 60 {
				desc = desc[:57] + "..."
			}
		}
		fmt.Printf("%9s  #%02d  %-10s %7.1f  owner=%-3s %s\n", sim.FormatRaceTime(e.DueTime), e.EventID, e.Source, e.Trigger, owner, desc)
	}
}
