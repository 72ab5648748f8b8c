package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"trackreplay/data"
	"trackreplay/driver"
	"trackreplay/model"
	"trackreplay/server"
	"trackreplay/sim"
)

func main() {
	raceFile := flag.String("race", getEnv("RACE_FILE", ""), "race JSON file (empty = built-in demo heat)")
	addr := flag.String("addr", getEnv("RACE_ADDR", ":8080"), "listen address")
	speed := flag.Float64("speed", getEnvFloat("RACE_SPEED", 1.0), "default replay speed multiplier (0.1..10)")
	fps := flag.Int("fps", 60, "frames per second streamed to viewers")
	autoStart := flag.Bool("autostart", false, "start the countdown as soon as a viewer connects")
	batch := flag.Bool("batch", false, "run headless and print a report instead of serving")
	speeds := flag.String("speeds", "", "comma separated speeds for a headless consistency sweep, e.g. 1,2,4")
	step := flag.Duration("step", driver.DefaultStep, "simulated wall time per headless tick")
	audio := flag.Bool("audio", true, "headless: hold commentary for each clip's duration")
	reportPath := flag.String("report", getEnv("RACE_REPORT", ""), "CSV report path or directory (headless)")
	trace := flag.Bool("trace", false, "headless: log every dispatched commentary")
	flag.Parse()

	race, err := loadRace(*raceFile)
	if err != nil {
		log.Fatalf("load race: %v", err)
	}
	log.Printf("race %q: %d competitors, %d commentary events", race.Name, len(race.Competitors), len(race.Catalog))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opt := driver.Options{Speed: *speed, Step: *step, SimulateAudio: *audio, ReportPath: *reportPath, Trace: *trace}
	if *speeds != "" {
		list, err := parseSpeeds(*speeds)
		if err != nil {
			log.Fatalf("speeds: %v", err)
		}
		sums, err := driver.RunSpeeds(ctx, race, list, opt)
		if err != nil {
			log.Fatalf("sweep: %v", err)
		}
		for _, s := range sums {
			fmt.Printf("%.2fx: ticks=%d clock=%s commentary=%d pending=%d\n", s.Speed, s.Ticks, sim.FormatRaceTime(s.RaceTime), len(s.Timeline), s.Pending)
		}
		return
	}
	if *batch {
		sum, err := driver.Run(race, opt)
		if err != nil {
			log.Fatalf("batch: %v", err)
		}
		sim.PrintConsoleReport(os.Stdout, sum.Report(race.Name))
		return
	}

	interval := sim.DefaultFrameInterval
	if *fps > 0 {
		interval = time.Second / time.Duration(*fps)
	}
	srv := server.New(race, server.Options{DefaultSpeed: *speed, FrameInterval: interval, AutoStart: *autoStart})
	if err := srv.Run(ctx, *addr); err != nil {
		log.Fatal(err)
	}
}

func loadRace(path string) (*model.Race, error) {
	if path == "" {
		return data.DemoRace(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.LoadRaceFromReader(f)
}

func parseSpeeds(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid speed %q: %w", part, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no speeds in %q", s)
	}
	return out, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
