package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	model "github.com/volunteerhub/matchd/internal/domain/model"
	"github.com/volunteerhub/matchd/pkg/logger"
)

// Default maps client configuration constants.
const (
	defaultBaseURL = "https://maps.googleapis.com"
	defaultTimeout = 5 * time.Second

	distanceMatrixPath = "/maps/api/distancematrix/json"
	geocodePath        = "/maps/api/geocode/json"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
	statusNotFound    = "NOT_FOUND"
)

// MapsClient implements Resolver against a Google-style maps API. Requests
// ask for imperial units and driving mode; the element status decides
// between a usable distance, an unknown address and a provider failure.
type MapsClient struct {
	key        string
	baseURL    string
	httpClient *http.Client
	clock      clockwork.Clock
	logger     logger.Logger
}

// NewMapsClient creates a maps-backed resolver authenticated with key.
func NewMapsClient(key string, opts ...MapsOption) *MapsClient {
	c := &MapsClient{
		key:        key,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		clock:      clockwork.NewRealClock(),
		logger:     logger.Get().Named("geo.maps"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name identifies the resolver in logs and metrics.
func (c *MapsClient) Name() string { return "maps" }

// ResolveDistance asks the distance matrix endpoint for the travel distance
// from origin to destination.
func (c *MapsClient) ResolveDistance(ctx context.Context, origin, destination string) (model.DistanceResult, error) {
	params := url.Values{
		"origins":      {origin},
		"destinations": {destination},
		"units":        {"imperial"},
		"mode":         {"driving"},
		"key":          {c.key},
	}

	var matrix distanceMatrixResponse
	if err := c.getJSON(ctx, c.baseURL+distanceMatrixPath+"?"+params.Encode(), &matrix); err != nil {
		return model.DistanceResult{}, err
	}

	if matrix.Status != statusOK {
		c.logger.Warn(ctx, "distance matrix rejected request",
			logger.String("status", matrix.Status),
			logger.String("message", matrix.ErrorMessage))
		return model.DistanceResult{}, fmt.Errorf("%w: distance matrix status %s", ErrUnavailable, matrix.Status)
	}
	if len(matrix.Rows) == 0 || len(matrix.Rows[0].Elements) == 0 {
		return model.DistanceResult{}, fmt.Errorf("%w: empty distance matrix", ErrUnavailable)
	}

	element := matrix.Rows[0].Elements[0]
	switch element.Status {
	case statusOK:
		// usable element
	case statusNotFound, statusZeroResults:
		return model.DistanceResult{}, fmt.Errorf("%w: element status %s", ErrNotFound, element.Status)
	default:
		return model.DistanceResult{}, fmt.Errorf("%w: element status %s", ErrUnavailable, element.Status)
	}

	res := model.DistanceResult{
		Origin:       origin,
		Destination:  destination,
		Miles:        model.MilesFromMeters(element.Distance.Value),
		Meters:       element.Distance.Value,
		DistanceText: element.Distance.Text,
		DurationText: element.Duration.Text,
		Source:       model.SourceLive,
		ComputedAt:   c.clock.Now().UTC(),
	}
	if len(matrix.OriginAddresses) > 0 && matrix.OriginAddresses[0] != "" {
		res.Origin = matrix.OriginAddresses[0]
	}
	if len(matrix.DestinationAddresses) > 0 && matrix.DestinationAddresses[0] != "" {
		res.Destination = matrix.DestinationAddresses[0]
	}

	c.logger.Debug(ctx, "distance resolved",
		logger.String("origin", res.Origin),
		logger.String("destination", res.Destination),
		logger.Float64("miles", res.Miles))
	return res, nil
}

// Geocode resolves an address to coordinates via the geocoding endpoint.
func (c *MapsClient) Geocode(ctx context.Context, address string) (Location, error) {
	params := url.Values{
		"address": {address},
		"key":     {c.key},
	}

	var geo geocodeResponse
	if err := c.getJSON(ctx, c.baseURL+geocodePath+"?"+params.Encode(), &geo); err != nil {
		return Location{}, err
	}

	if geo.Status == statusZeroResults || (geo.Status == statusOK && len(geo.Results) == 0) {
		return Location{}, fmt.Errorf("%w: %q", ErrNotFound, address)
	}
	if geo.Status != statusOK {
		return Location{}, fmt.Errorf("%w: geocode status %s", ErrUnavailable, geo.Status)
	}

	loc := geo.Results[0].Geometry.Location
	return Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}

func (c *MapsClient) getJSON(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}

// Maps API response types.

type distanceMatrixResponse struct {
	Status               string   `json:"status"`
	ErrorMessage         string   `json:"error_message"`
	OriginAddresses      []string `json:"origin_addresses"`
	DestinationAddresses []string `json:"destination_addresses"`
	Rows                 []row    `json:"rows"`
}

type row struct {
	Elements []element `json:"elements"`
}

type element struct {
	Status   string    `json:"status"`
	Distance textValue `json:"distance"`
	Duration textValue `json:"duration"`
}

type textValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type geocodeResponse struct {
	Status  string          `json:"status"`
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
