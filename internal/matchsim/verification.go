package matchsim

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/volunteerhub/matchd/internal/domain/types"
)

const topDisplay = 3

// verifyResults checks the consistency of match rankings and nearby
// listings returned by the service.
func verifyResults(ctx context.Context, config *Config, matches map[string][]types.MatchCandidate, nearby map[string][]types.NearbyEvent, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(matches) == 0 {
		return fmt.Errorf("no matches to verify")
	}

	for volunteerID, candidates := range matches {
		if err := verifyRankingOrder(candidates); err != nil {
			return fmt.Errorf("ranking for %s: %w", volunteerID, err)
		}
	}
	log.Println("✅ Rankings are sorted best first")

	for volunteerID, events := range nearby {
		if err := verifyNearbyOrder(events); err != nil {
			return fmt.Errorf("nearby listing for %s: %w", volunteerID, err)
		}
	}
	log.Println("✅ Nearby listings are sorted closest first")

	if err := verifyDistanceAgreement(matches, nearby); err != nil {
		log.Printf("⚠️  Distance agreement warning: %v", err)
	} else {
		log.Println("✅ Match and nearby distances agree")
	}

	displayTopMatches(matches, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyRankingOrder checks that candidates come back best score first.
func verifyRankingOrder(candidates []types.MatchCandidate) error {
	for i := 1; i < len(candidates); i++ {
		if candidates[i].MatchScore > candidates[i-1].MatchScore {
			return fmt.Errorf("not sorted: candidate %d outscores candidate %d", i, i-1)
		}
	}
	for i, c := range candidates {
		if c.DistanceMiles < 0 {
			return fmt.Errorf("candidate %d has a negative distance", i)
		}
	}
	return nil
}

// verifyNearbyOrder checks that nearby events come back closest first.
func verifyNearbyOrder(events []types.NearbyEvent) error {
	for i := 1; i < len(events); i++ {
		if events[i].DistanceMiles < events[i-1].DistanceMiles {
			return fmt.Errorf("not sorted: event %d is closer than event %d", i, i-1)
		}
	}
	return nil
}

// verifyDistanceAgreement checks that a volunteer/event distance reported
// by a match run equals the one in the nearby listing. Both are served
// from the same cache, so they must agree.
func verifyDistanceAgreement(matches map[string][]types.MatchCandidate, nearby map[string][]types.NearbyEvent) error {
	for volunteerID, events := range nearby {
		candidates, ok := matches[volunteerID]
		if !ok {
			continue
		}

		byEvent := make(map[string]float64, len(candidates))
		for _, c := range candidates {
			byEvent[c.EventID] = c.DistanceMiles
		}

		for _, ev := range events {
			miles, ok := byEvent[ev.EventID]
			if !ok {
				continue
			}
			if miles != ev.DistanceMiles {
				return fmt.Errorf("volunteer %s event %s: match says %.1f miles, nearby says %.1f",
					volunteerID, ev.EventID, miles, ev.DistanceMiles)
			}
		}
	}
	return nil
}

// verifyDeterminism re-resolves a sample of fallback pairs and checks the
// reported distances did not move. Live provider results may legitimately
// change between calls and are skipped.
func verifyDeterminism(ctx context.Context, config *Config, resolved []Resolved) error {
	sample := make([]Resolved, 0, topDisplay)
	for _, res := range resolved {
		if res.Source == sourceFallback {
			sample = append(sample, res)
		}
		if len(sample) == topDisplay {
			break
		}
	}
	if len(sample) == 0 {
		return nil
	}

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/distance"

	for _, res := range sample {
		again, err := submitSinglePair(ctx, client, url, res.Pair)
		if err != nil {
			return fmt.Errorf("re-resolving %s: %w", res.ID, err)
		}
		if again.Miles != res.Miles {
			return fmt.Errorf("pair %s moved from %.1f to %.1f miles between calls",
				res.ID, res.Miles, again.Miles)
		}
	}
	return nil
}

// displayTopMatches shows the best candidates per volunteer.
func displayTopMatches(matches map[string][]types.MatchCandidate, verbose bool) {
	volunteerIDs := make([]string, 0, len(matches))
	for id := range matches {
		volunteerIDs = append(volunteerIDs, id)
	}
	sort.Strings(volunteerIDs)

	for _, volunteerID := range volunteerIDs {
		candidates := matches[volunteerID]
		topN := minInt(topDisplay, len(candidates))

		log.Printf("🏆 Top %d matches for %s:", topN, volunteerID)
		for i := 0; i < topN; i++ {
			c := candidates[i]
			log.Printf("   %d. %s - Score: %.2f (%.1f mi, %s urgency)",
				i+1, c.EventName, c.MatchScore, c.DistanceMiles, c.UrgencyLevel)
		}
	}

	if verbose {
		all := make([]types.MatchCandidate, 0)
		for _, candidates := range matches {
			all = append(all, candidates...)
		}
		if len(all) > 0 {
			avg, maxScore, minScore := scoreSpread(all)
			log.Printf(`📊 Score statistics:
   Average: %.2f
   Maximum: %.2f
   Minimum: %.2f
`, avg, maxScore, minScore)
		}
	}
}

// scoreSpread computes the average, maximum and minimum match score.
func scoreSpread(candidates []types.MatchCandidate) (avg, maxScore, minScore float64) {
	maxScore = candidates[0].MatchScore
	minScore = candidates[0].MatchScore

	sum := 0.0
	for _, c := range candidates {
		sum += c.MatchScore
		if c.MatchScore > maxScore {
			maxScore = c.MatchScore
		}
		if c.MatchScore < minScore {
			minScore = c.MatchScore
		}
	}
	return sum / float64(len(candidates)), maxScore, minScore
}
