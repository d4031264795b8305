package matchsim

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/volunteerhub/matchd/internal/domain/types"
)

// runMatches retrieves ranked candidates for every volunteer concurrently.
func runMatches(ctx context.Context, config *Config, stats *Stats) (map[string][]types.MatchCandidate, error) {
	log.Printf("🤝 Matching %d volunteers with %d workers...", len(config.Volunteers), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage; each index is written by exactly one worker.
	results := make([][]types.MatchCandidate, len(config.Volunteers))
	var (
		matched int64
		failed  int64
		ranked  int64
	)

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	workerCount := minInt(config.Workers, len(config.Volunteers))
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					volunteerID := config.Volunteers[index]
					candidates, note, err := matchSingleVolunteer(ctx, client, config, volunteerID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						log.Printf("⚠️  Failed to match %s: %v", volunteerID, err)
						continue
					}
					if note != "" {
						log.Printf("⚠️  Match for %s returned a note: %s", volunteerID, note)
					}

					results[index] = candidates
					atomic.AddInt64(&matched, 1)
					atomic.AddInt64(&ranked, int64(len(candidates)))

					if config.Verbose {
						log.Printf("📊 Matched %s: %d candidates", volunteerID, len(candidates))
					}
				}
			}
		}()
	}

	// Send volunteer indices to workers
	go func() {
		defer close(indexChan)
		for i := range config.Volunteers {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Keep only successful runs
	matches := make(map[string][]types.MatchCandidate, len(config.Volunteers))
	for i, volunteerID := range config.Volunteers {
		if results[i] != nil {
			matches[volunteerID] = results[i]
		}
	}

	stats.VolunteersMatched = int(atomic.LoadInt64(&matched))
	stats.CandidatesRanked = int(atomic.LoadInt64(&ranked))

	log.Printf(`✅ Matching completed:
   Volunteers: %d
   Candidates: %d
   Failed: %d
`, stats.VolunteersMatched, stats.CandidatesRanked, int(atomic.LoadInt64(&failed)))

	return matches, nil
}

// matchSingleVolunteer ranks all events for one volunteer.
func matchSingleVolunteer(ctx context.Context, client *HTTPClient, config *Config, volunteerID string) ([]types.MatchCandidate, string, error) {
	body := map[string]interface{}{
		"volunteer_id": volunteerID,
	}
	if config.Limit > 0 {
		body["limit"] = config.Limit
	}

	resp, err := client.Post(ctx, config.BaseURL+"/match", body)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}

	var response matchResponse
	if err := decodeResponse(resp, StatusOK, &response); err != nil {
		return nil, "", err
	}

	return response.Matches, response.Note, nil
}

// nearbyForVolunteer lists events near one volunteer, closest first.
func nearbyForVolunteer(ctx context.Context, client *HTTPClient, config *Config, volunteerID string) ([]types.NearbyEvent, error) {
	reqURL := fmt.Sprintf("%s/events/nearby?volunteer_id=%s", config.BaseURL, url.QueryEscape(volunteerID))

	resp, err := client.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	var response nearbyResponse
	if err := decodeResponse(resp, StatusOK, &response); err != nil {
		return nil, err
	}

	return response.Events, nil
}

// collectNearby lists nearby events for every volunteer.
func collectNearby(ctx context.Context, config *Config, stats *Stats) (map[string][]types.NearbyEvent, error) {
	log.Printf("📍 Listing nearby events for %d volunteers...", len(config.Volunteers))

	client := newHTTPClient(config.Timeout)
	nearby := make(map[string][]types.NearbyEvent, len(config.Volunteers))

	for _, volunteerID := range config.Volunteers {
		events, err := nearbyForVolunteer(ctx, client, config, volunteerID)
		if err != nil {
			log.Printf("⚠️  Failed to list nearby events for %s: %v", volunteerID, err)
			continue
		}
		nearby[volunteerID] = events
		stats.NearbyListed += len(events)
	}

	log.Printf("✅ Listed %d nearby rows", stats.NearbyListed)
	return nearby, nil
}

// runBatch triggers one batch matching run over every volunteer the
// service knows about.
func runBatch(ctx context.Context, client *HTTPClient, config *Config) (batchResponse, error) {
	resp, err := client.Post(ctx, config.BaseURL+"/match/batch", struct{}{})
	if err != nil {
		return batchResponse{}, fmt.Errorf("request failed: %w", err)
	}

	var response batchResponse
	if err := decodeResponse(resp, StatusOK, &response); err != nil {
		return batchResponse{}, err
	}

	return response, nil
}

// collectNotifications reads back the notifications recorded for each
// volunteer after a batch run.
func collectNotifications(ctx context.Context, config *Config, stats *Stats) (map[string][]types.NotificationInfo, error) {
	client := newHTTPClient(config.Timeout)
	notes := make(map[string][]types.NotificationInfo, len(config.Volunteers))

	for _, volunteerID := range config.Volunteers {
		reqURL := fmt.Sprintf("%s/notifications?volunteer_id=%s", config.BaseURL, url.QueryEscape(volunteerID))

		resp, err := client.Get(ctx, reqURL)
		if err != nil {
			log.Printf("⚠️  Failed to list notifications for %s: %v", volunteerID, err)
			continue
		}

		var response notificationsResponse
		if err := decodeResponse(resp, StatusOK, &response); err != nil {
			log.Printf("⚠️  Failed to list notifications for %s: %v", volunteerID, err)
			continue
		}

		notes[volunteerID] = response.Notifications
		stats.BatchNotifications += len(response.Notifications)
	}

	return notes, nil
}
