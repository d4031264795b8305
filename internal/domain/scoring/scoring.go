// Package scoring implements the rules that turn skill overlap, travel
// distance and event urgency into a single match score.
package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Default scoring configuration constants.
const (
	DefaultSkillWeight    = 0.5
	DefaultDistanceWeight = 0.2
	DefaultUrgencyWeight  = 0.3

	// DefaultMaxDistanceMiles is the radius used when a request does not
	// set one.
	DefaultMaxDistanceMiles = 50.0

	urgencyHighScore   = 1.0
	urgencyMediumScore = 0.6
	urgencyLowScore    = 0.3

	percentScale = 100.0
)

// Weights blends the three score components. The blend is applied as given;
// weights do not have to sum to one and the final score scales accordingly.
type Weights struct {
	Skill    float64
	Distance float64
	Urgency  float64
}

// DefaultWeights returns the standard blend.
func DefaultWeights() Weights {
	return Weights{
		Skill:    DefaultSkillWeight,
		Distance: DefaultDistanceWeight,
		Urgency:  DefaultUrgencyWeight,
	}
}

// Validate reports whether the blend is usable. Weights must be finite
// and non-negative; any such blend is accepted as-is.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Skill, w.Distance, w.Urgency} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weights must be finite and non-negative", ErrInvalidWeights)
		}
	}
	return nil
}

// SkillMatchPercent returns the share of required skills the volunteer
// covers, in percent. Skill names compare case-insensitively and ignore
// surrounding whitespace; duplicates collapse before counting. An event
// with no required skills matches at zero percent.
func SkillMatchPercent(volunteerSkills, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(volunteerSkills))
	for _, s := range volunteerSkills {
		have[normalizeSkill(s)] = struct{}{}
	}

	want := make(map[string]struct{}, len(requiredSkills))
	for _, s := range requiredSkills {
		want[normalizeSkill(s)] = struct{}{}
	}

	matched := 0
	for s := range want {
		if _, ok := have[s]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(want)) * percentScale
}

// UrgencyScore maps an urgency label to its score component. Unknown
// labels score zero.
func UrgencyScore(urgency string) float64 {
	switch strings.ToLower(urgency) {
	case "high":
		return urgencyHighScore
	case "medium":
		return urgencyMediumScore
	case "low":
		return urgencyLowScore
	default:
		return 0
	}
}

// IsHighUrgency reports whether the label counts as high urgency.
func IsHighUrgency(urgency string) bool {
	return strings.EqualFold(urgency, "high")
}

// DistanceScore maps a distance to a 0..1 proximity factor. Distances at
// or beyond the radius score zero, negative distances count as zero miles,
// and a non-positive radius disables the component.
func DistanceScore(distanceMiles, maxDistanceMiles float64) float64 {
	if maxDistanceMiles <= 0 {
		return 0
	}
	if distanceMiles < 0 {
		distanceMiles = 0
	}
	return math.Max(0, 1-distanceMiles/maxDistanceMiles)
}

// MatchScore blends skill coverage, proximity and urgency into a final
// score on a 0..100 scale, rounded to two decimals. With a blend whose
// weights sum above one the score can exceed 100.
func MatchScore(skillPercent, distanceMiles float64, urgency string, maxDistanceMiles float64, w Weights) float64 {
	skillScore := skillPercent / percentScale
	distScore := DistanceScore(distanceMiles, maxDistanceMiles)
	urgScore := UrgencyScore(urgency)

	total := skillScore*w.Skill + distScore*w.Distance + urgScore*w.Urgency
	return Round2(total * percentScale)
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
