package matchsim

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/volunteerhub/matchd/pkg/logger"
)

// Constants for pair shape cases.
const (
	pairShapeDivisor = 5

	caseSameCity  = 0
	caseCrossTown = 1
	caseOutOfTown = 2
	caseApartment = 3
	caseLandmark  = 4
)

const (
	streetNumberSpread = 9900
	streetNumberBase   = 100
	zipSpread          = 999
	zipBase            = 77000
	unitSpread         = 40
)

// Address pools for synthetic pairs. The service never checks that an
// address exists, so realism only matters for log readability.
var (
	streetPool = []string{
		"Main Street", "Elm Street", "Oak Avenue", "Bayou Drive",
		"Heights Boulevard", "Westheimer Road", "Shepherd Drive",
		"Polk Street", "Travis Street", "Richmond Avenue",
	}
	cityPool = []string{
		"Houston", "Pasadena", "Sugar Land", "Katy", "Pearland",
		"Baytown", "Spring", "Cypress",
	}
	awayCityPool = []string{
		"Galveston", "The Woodlands", "Conroe", "League City",
	}
	venuePool = []string{
		"Community Food Bank", "Senior Activity Center", "Public Library",
		"Memorial Park Pavilion", "Animal Shelter", "Youth Sports Complex",
		"Riverside School Gym", "Downtown Shelter", "Botanical Gardens",
		"Beach State Park",
	}
)

// randIndex returns a random index below n using crypto/rand.
func randIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generatePairs creates the configured number of address pairs with
// unique pair IDs.
func generatePairs(ctx context.Context, config *Config, stats *Stats) ([]Pair, error) {
	logger.Get().Info(ctx, "generating address pairs", logger.Int("numPairs", config.NumPairs))

	pairs := make([]Pair, config.NumPairs)

	// Pre-allocate pair IDs to ensure uniqueness
	pairIDs := make([]string, config.NumPairs)
	for i := 0; i < config.NumPairs; i++ {
		pairIDs[i] = uuid.New().String()
	}

	// Generate pairs concurrently
	type pairResult struct {
		index int
		pair  Pair
		err   error
	}

	resultChan := make(chan pairResult, config.NumPairs)

	// Use worker pool for pair generation
	workerCount := minInt(config.Workers, config.NumPairs)
	pairsPerWorker := config.NumPairs / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * pairsPerWorker
		end := start + pairsPerWorker
		if worker == workerCount-1 {
			end = config.NumPairs // Last worker gets remaining pairs
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- pairResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- pairResult{index: i, pair: generateSinglePair(pairIDs[i])}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumPairs; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during pair generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate pair %d: %w", result.index, result.err)
			}
			pairs[result.index] = result.pair
		}
	}

	stats.PairsGenerated = len(pairs)
	logger.Get().Info(ctx, "generated pairs successfully", logger.Int("count", len(pairs)))

	return pairs, nil
}

// generateSinglePair creates one pair with a varied shape.
func generateSinglePair(id string) Pair {
	switch randIndex(pairShapeDivisor) {
	case caseSameCity:
		city := cityPool[randIndex(len(cityPool))]
		return Pair{
			ID:          id,
			Origin:      residentialAddress(city),
			Destination: venueAddress(city),
		}
	case caseCrossTown:
		return Pair{
			ID:          id,
			Origin:      residentialAddress("Houston"),
			Destination: venueAddress(cityPool[randIndex(len(cityPool))]),
		}
	case caseOutOfTown:
		return Pair{
			ID:          id,
			Origin:      residentialAddress(cityPool[randIndex(len(cityPool))]),
			Destination: venueAddress(awayCityPool[randIndex(len(awayCityPool))]),
		}
	case caseApartment:
		city := cityPool[randIndex(len(cityPool))]
		return Pair{
			ID:          id,
			Origin:      apartmentAddress(city),
			Destination: venueAddress(city),
		}
	default: // caseLandmark
		return Pair{
			ID:          id,
			Origin:      residentialAddress(cityPool[randIndex(len(cityPool))]),
			Destination: fmt.Sprintf("%s, TX", venuePool[randIndex(len(venuePool))]),
		}
	}
}

func residentialAddress(city string) string {
	number := streetNumberBase + randIndex(streetNumberSpread)
	street := streetPool[randIndex(len(streetPool))]
	zip := zipBase + randIndex(zipSpread)
	return fmt.Sprintf("%d %s, %s, TX, %d", number, street, city, zip)
}

func apartmentAddress(city string) string {
	number := streetNumberBase + randIndex(streetNumberSpread)
	street := streetPool[randIndex(len(streetPool))]
	unit := 1 + randIndex(unitSpread)
	zip := zipBase + randIndex(zipSpread)
	return fmt.Sprintf("%d %s, Apt %d, %s, TX, %d", number, street, unit, city, zip)
}

func venueAddress(city string) string {
	venue := venuePool[randIndex(len(venuePool))]
	return fmt.Sprintf("%s, %s, TX", venue, city)
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
