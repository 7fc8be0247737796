// Package grade holds the fixed letter-grade scale and the major-course keywords.
package grade

import (
	"sort"
	"strings"
)

const (
	// Pass and NonPass carry negative sentinels so GPA math can skip them.
	Pass    = "P"
	NonPass = "NP"

	PassPoint    = -1.0
	NonPassPoint = -2.0

	// PassNonPassScheme is the evaluation-type value marking a P/NP course.
	PassNonPassScheme = "P/NP"
)

var points = map[string]float64{
	"A+": 4.5, "A": 4.5, "A0": 4.0,
	"B+": 3.5, "B": 3.5, "B0": 3.0,
	"C+": 2.5, "C": 2.5, "C0": 2.0,
	"D+": 1.5, "D": 1.5, "D0": 1.0,
	"F":  0.0, "FA": 0.0,
	Pass:    PassPoint,
	NonPass: NonPassPoint,
}

// Normalize trims and upper-cases a grade token.
func Normalize(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// Point returns the grade point for token. Sentinel values are returned as-is.
func Point(token string) (float64, bool) {
	p, ok := points[Normalize(token)]
	return p, ok
}

func IsValid(token string) bool {
	_, ok := Point(token)
	return ok
}

// Counts reports whether token is a known grade that takes part in GPA math.
func Counts(token string) bool {
	p, ok := Point(token)
	return ok && p >= 0
}

// Tokens returns every grade token in the table, highest point first.
func Tokens() []string {
	out := make([]string, 0, len(points))
	for t := range points {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if points[out[i]] != points[out[j]] {
			return points[out[i]] > points[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

func IsPassNonPassScheme(evalType string) bool {
	return strings.ToUpper(strings.TrimSpace(evalType)) == PassNonPassScheme
}

// CoercePassNonPass maps the synonyms used by P/NP courses onto P or NP.
// Unrecognized tokens are returned normalized and left for table validation.
func CoercePassNonPass(token string) string {
	switch t := Normalize(token); t {
	case "", Pass, "PASS":
		return Pass
	case NonPass, "FAIL", "NON-PASS":
		return NonPass
	default:
		return t
	}
}
