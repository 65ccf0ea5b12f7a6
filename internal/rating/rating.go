// Package rating derives a book's display rating from its review scores.
// Ratings are never stored; they are recomputed from the scores on each read.
package rating

import (
	"math"
	"strconv"
)

// DefaultScale is the highest score a review may give.
const DefaultScale = 5

// Result is an aggregated rating. Value is meaningful only when Defined.
type Result struct {
	Defined bool
	Value   float64
}

// Aggregate returns the mean of scores rounded to one decimal place.
// The result does not depend on the order of scores.
func Aggregate(scores []int) Result {
	if len(scores) == 0 {
		return Result{}
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	mean := float64(sum) / float64(len(scores))
	return Result{Defined: true, Value: math.Round(mean*10) / 10}
}

// String formats the rating for display.
func (r Result) String() string {
	if !r.Defined {
		return "no rating"
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// ValidScore reports whether score lies in [0, scale].
func ValidScore(score, scale int) bool {
	if scale <= 0 {
		scale = DefaultScale
	}
	return score >= 0 && score <= scale
}
