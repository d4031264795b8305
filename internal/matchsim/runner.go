package matchsim

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/volunteerhub/matchd/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete matching simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting matchd simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("pairs", config.NumPairs),
		logger.Any("volunteers", config.Volunteers),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate address pairs
	pairs, err := generatePairs(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("pair generation failed: %w", err)
	}

	// Step 3: Resolve pairs concurrently
	resolved, err := submitPairs(ctx, config, pairs, stats)
	if err != nil {
		return fmt.Errorf("pair resolution failed: %w", err)
	}

	// Step 4: Run matches per volunteer
	matches, err := runMatches(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}

	// Step 5: List nearby events per volunteer
	nearby, err := collectNearby(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("nearby listing failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(ctx, config, matches, nearby, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Verify deterministic distances
	if err := verifyDeterminism(ctx, config, resolved); err != nil {
		log.Printf("⚠️  Determinism warning: %v", err)
	} else {
		log.Println("✅ Fallback distances are stable across calls")
	}

	// Step 8: Exercise batch matching and notification dedupe
	if err := runBatchChecks(ctx, config, stats); err != nil {
		return fmt.Errorf("batch checks failed: %w", err)
	}

	// Step 9: Save resolved pairs to file
	if err := savePairsToFile(ctx, config, resolved); err != nil {
		logger.Get().Warn(ctx, "failed to save pairs to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// runBatchChecks triggers batch matching twice: the first run records
// notifications for strong matches, the repeat must be suppressed by the
// notification dedupe.
func runBatchChecks(ctx context.Context, config *Config, stats *Stats) error {
	log.Println("🔔 Running batch matching...")

	client := newHTTPClient(config.Timeout)

	first, err := runBatch(ctx, client, config)
	if err != nil {
		return fmt.Errorf("first batch run: %w", err)
	}
	log.Printf("✅ Batch matched %d volunteers (%d matches, %d notifications, %d errors)",
		first.Volunteers, first.Matches, first.Notifications, first.Errors)

	// Give the notification workers time to drain.
	time.Sleep(SettleDelay)

	notes, err := collectNotifications(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("collecting notifications: %w", err)
	}
	for volunteerID, rows := range notes {
		if config.Verbose {
			log.Printf("🔔 %s has %d notifications", volunteerID, len(rows))
		}
	}

	second, err := runBatch(ctx, client, config)
	if err != nil {
		return fmt.Errorf("second batch run: %w", err)
	}
	if second.Notifications > 0 {
		log.Printf("⚠️  Repeat batch produced %d notifications; expected the dedupe to suppress them", second.Notifications)
	} else {
		log.Println("✅ Repeat batch notifications suppressed by dedupe")
	}

	return nil
}

// savePairsToFile saves the resolved pairs to a JSON file.
func savePairsToFile(ctx context.Context, config *Config, resolved []Resolved) error {
	if len(resolved) == 0 {
		return fmt.Errorf("no pairs to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "resolved_pairs_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write pairs to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, res := range resolved {
		jsonData, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("failed to marshal pair %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write pair %d: %w", i, err)
		}

		// Add comma except for last pair
		if i < len(resolved)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "pairs saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var successRate, pairsPerSecond float64

	if stats.PairsSubmitted > 0 {
		resolved := stats.ResolvedLive + stats.ResolvedFallback
		successRate = float64(resolved) / float64(stats.PairsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		pairsPerSecond = float64(stats.PairsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("pairsGenerated", stats.PairsGenerated),
		logger.Int("pairsSubmitted", stats.PairsSubmitted),
		logger.Int("resolvedLive", stats.ResolvedLive),
		logger.Int("resolvedFallback", stats.ResolvedFallback),
		logger.Int("resolveFailed", stats.ResolveFailed),
		logger.Int("volunteersMatched", stats.VolunteersMatched),
		logger.Int("candidatesRanked", stats.CandidatesRanked),
		logger.Int("nearbyListed", stats.NearbyListed),
		logger.Int("batchNotifications", stats.BatchNotifications),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("pairsPerSecond", pairsPerSecond))
}
