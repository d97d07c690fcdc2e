package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// GeoLocation is the resolved form of a free-text address.
type GeoLocation struct {
	Lat        float64
	Lon        float64
	Postcode   string
	City       string
	State      string
	Country    string
	Confidence float64
}

type GeocodingClient interface {
	// Geocode resolves a free-text address to its first match. A nil
	// location with a nil error means the address produced no results.
	Geocode(ctx context.Context, text string) (*GeoLocation, error)
}

type GeoapifyService struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

func NewGeoapifyService(baseURL, apiKey string) *GeoapifyService {
	return &GeoapifyService{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

type geoapifyResult struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Postcode string  `json:"postcode"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Country  string  `json:"country"`
	Rank     struct {
		Confidence float64 `json:"confidence"`
	} `json:"rank"`
}

type geoapifySearchResponse struct {
	Results []geoapifyResult `json:"results"`
}

func (s *GeoapifyService) Geocode(ctx context.Context, text string) (*GeoLocation, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("apiKey", s.apiKey)
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/geocode/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Printf("GeoapifyService: Error creating geocode request: %v", err)
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("GeoapifyService: Error performing geocode request: %v", err)
		return nil, fmt.Errorf("failed to perform geocode request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("GeoapifyService: Error reading geocode response body: %v", err)
		return nil, fmt.Errorf("failed to read geocode response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("GeoapifyService: Geocode API returned non-OK status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("geoapify API error: status %d", resp.StatusCode)
	}

	var searchResponse geoapifySearchResponse
	if err := json.Unmarshal(body, &searchResponse); err != nil {
		log.Printf("GeoapifyService: Error unmarshalling geocode response: %v, Raw Body: %s", err, string(body))
		return nil, fmt.Errorf("failed to parse geocode response: %w", err)
	}

	if len(searchResponse.Results) == 0 {
		return nil, nil
	}

	result := searchResponse.Results[0]
	return &GeoLocation{
		Lat:        result.Lat,
		Lon:        result.Lon,
		Postcode:   result.Postcode,
		City:       result.City,
		State:      result.State,
		Country:    result.Country,
		Confidence: result.Rank.Confidence,
	}, nil
}
