package sim

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatRaceTime renders a race clock: "m:ss.hh" from the gun, "-s.hh" during
// the countdown. Hundredths are truncated, as on a timing board.
func FormatRaceTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "--:--"
	}
	d := decimal.NewFromFloat(seconds)
	neg := d.IsNegative()
	d = d.Abs().Truncate(2)
	whole := d.IntPart()
	hh := d.Sub(decimal.NewFromInt(whole)).Mul(hundred).IntPart()
	if neg {
		return fmt.Sprintf("-%d.%02d", whole, hh)
	}
	return fmt.Sprintf("%d:%02d.%02d", whole/60, whole%60, hh)
}

// Countdown returns the whole seconds left before the gun, or 0 once running.
func Countdown(raceTime float64) int {
	if raceTime >= 0 {
		return 0
	}
	return int(math.Ceil(-raceTime))
}
