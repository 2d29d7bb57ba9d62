// Package geocode is the location search collaborator: free-text queries
// against Photon first (good coverage, no key), falling back to
// Nominatim when Photon fails or returns nothing.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/peerpath/journey-backend-go/internal/apperr"
	"github.com/peerpath/journey-backend-go/internal/models"
)

const (
	DefaultPhotonURL    = "https://photon.komoot.io"
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"

	resultLimit    = 5
	requestTimeout = 8 * time.Second
)

// Client queries the geocoding providers.
type Client struct {
	photonURL    string
	nominatimURL string
	httpClient   *http.Client
	userAgent    string
}

// NewClient creates a geocoding client. Empty URLs fall back to the
// public instances.
func NewClient(photonURL, nominatimURL string) *Client {
	if photonURL == "" {
		photonURL = DefaultPhotonURL
	}
	if nominatimURL == "" {
		nominatimURL = DefaultNominatimURL
	}
	return &Client{
		photonURL:    photonURL,
		nominatimURL: nominatimURL,
		httpClient:   &http.Client{Timeout: requestTimeout},
		userAgent:    "journey-backend-go/1.0",
	}
}

// Search geocodes a free-text query. An empty query yields an empty
// list. Photon is tried first; Nominatim only when Photon errors or
// finds nothing. Both providers failing surfaces
// apperr.ErrSearchUnavailable.
func (c *Client) Search(ctx context.Context, query string) ([]models.LocationSelection, error) {
	if query == "" {
		return []models.LocationSelection{}, nil
	}

	results, photonErr := c.queryPhoton(ctx, query)
	if photonErr == nil && len(results) > 0 {
		return results, nil
	}

	results, nominatimErr := c.queryNominatim(ctx, query)
	if nominatimErr != nil {
		if photonErr != nil {
			return nil, fmt.Errorf("%w: photon: %v, nominatim: %v", apperr.ErrSearchUnavailable, photonErr, nominatimErr)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrSearchUnavailable, nominatimErr)
	}
	return results, nil
}

type photonFeature struct {
	Properties struct {
		Name    string `json:"name"`
		City    string `json:"city"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"properties"`
	Geometry struct {
		Coordinates [2]float64 `json:"coordinates"` // [lng, lat]
	} `json:"geometry"`
}

type photonResponse struct {
	Features []photonFeature `json:"features"`
}

func (c *Client) queryPhoton(ctx context.Context, query string) ([]models.LocationSelection, error) {
	params := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(resultLimit)},
	}
	apiURL := fmt.Sprintf("%s/api/?%s", c.photonURL, params.Encode())

	var resp photonResponse
	if err := c.getJSON(ctx, apiURL, &resp); err != nil {
		return nil, fmt.Errorf("photon request failed: %w", err)
	}

	results := make([]models.LocationSelection, 0, len(resp.Features))
	for _, f := range resp.Features {
		addr := joinNonEmpty(f.Properties.Name, f.Properties.City, f.Properties.State, f.Properties.Country)
		results = append(results, models.LocationSelection{
			Address: addr,
			Lat:     f.Geometry.Coordinates[1],
			Lng:     f.Geometry.Coordinates[0],
		})
	}
	return results, nil
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func (c *Client) queryNominatim(ctx context.Context, query string) ([]models.LocationSelection, error) {
	params := url.Values{
		"q":              {query},
		"format":         {"json"},
		"limit":          {strconv.Itoa(resultLimit)},
		"addressdetails": {"0"},
	}
	apiURL := fmt.Sprintf("%s/search?%s", c.nominatimURL, params.Encode())

	var items []nominatimResult
	if err := c.getJSON(ctx, apiURL, &items); err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}

	results := make([]models.LocationSelection, 0, len(items))
	for _, item := range items {
		lat, err := strconv.ParseFloat(item.Lat, 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(item.Lon, 64)
		if err != nil {
			continue
		}
		results = append(results, models.LocationSelection{
			Address: item.DisplayName,
			Lat:     lat,
			Lng:     lng,
		})
	}
	return results, nil
}

func (c *Client) getJSON(ctx context.Context, apiURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	// Nominatim usage policy requires an identifying User-Agent
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}
