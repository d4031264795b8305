package matchsim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/volunteerhub/matchd/internal/domain/types"
)

// Distance source labels reported by the service.
const (
	sourceLive     = "live"
	sourceFallback = "fallback"
)

const progressInterval = 1 * time.Second

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// decodeResponse reads the body and decodes it into v, requiring the
// given status code.
func decodeResponse(resp *http.Response, wantStatus int, v interface{}) error {
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// submitPairs resolves the address pairs concurrently using worker pools.
func submitPairs(ctx context.Context, config *Config, pairs []Pair, stats *Stats) ([]Resolved, error) {
	log.Printf("📤 Resolving %d address pairs with %d workers...", len(pairs), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/distance"

	// Counters for statistics
	var (
		live      int64
		fallback  int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport atomic.Int64

	// Each index is written by exactly one worker.
	resolved := make([]Resolved, len(pairs))

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					pair := pairs[index]
					res, err := submitSinglePair(ctx, client, url, pair)

					atomic.AddInt64(&submitted, 1)
					switch {
					case err != nil:
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to resolve %s -> %s: %v", pair.Origin, pair.Destination, err)
						}
					case res.Source == sourceLive:
						resolved[index] = res
						atomic.AddInt64(&live, 1)
					default:
						resolved[index] = res
						atomic.AddInt64(&fallback, 1)
					}

					// Progress reporting
					now := time.Now().UnixNano()
					if last := lastReport.Load(); now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
						total := atomic.LoadInt64(&submitted)
						lv := atomic.LoadInt64(&live)
						fb := atomic.LoadInt64(&fallback)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d resolved (live: %d, fallback: %d, failed: %d)",
								total, len(pairs), lv, fb, fail)
						} else {
							fmt.Printf("\r📤 Resolved: %d/%d (live: %d, fallback: %d, failed: %d)",
								total, len(pairs), lv, fb, fail)
						}
					}
				}
			}
		}()
	}

	// Send pair indices to workers
	go func() {
		defer close(indexChan)
		for i := range pairs {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Filter out empty entries (failed resolutions)
	valid := make([]Resolved, 0, len(resolved))
	for _, res := range resolved {
		if res.ID != "" {
			valid = append(valid, res)
		}
	}

	// Update stats
	stats.PairsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ResolvedLive = int(atomic.LoadInt64(&live))
	stats.ResolvedFallback = int(atomic.LoadInt64(&fallback))
	stats.ResolveFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Pair resolution completed:
   Live: %d
   Fallback: %d
   Failed: %d
`, stats.ResolvedLive, stats.ResolvedFallback, stats.ResolveFailed)

	return valid, nil
}

// submitSinglePair resolves one pair through POST /distance.
func submitSinglePair(ctx context.Context, client *HTTPClient, url string, pair Pair) (Resolved, error) {
	resp, err := client.Post(ctx, url, map[string]string{
		"origin_address":      pair.Origin,
		"destination_address": pair.Destination,
	})
	if err != nil {
		return Resolved{}, fmt.Errorf("request failed: %w", err)
	}

	var info types.DistanceInfo
	if err := decodeResponse(resp, StatusOK, &info); err != nil {
		return Resolved{}, err
	}

	return Resolved{
		Pair:   pair,
		Miles:  info.Miles,
		Source: info.Source,
	}, nil
}
