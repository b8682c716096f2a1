package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotOK       = errors.New("distance element status not OK")
	ErrUnavailable = errors.New("distance matrix unavailable")
)

// Element is the driving distance and duration between two postal codes.
type Element struct {
	Status          string
	DistanceMeters  float64
	DistanceText    string
	DurationSeconds float64
	DurationText    string
}

// Matrix looks up travel distance between two postal codes.
type Matrix interface {
	Distance(ctx context.Context, originPostal, destPostal string) (Element, error)
}

type textValue struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string    `json:"status"`
			Distance textValue `json:"distance"`
			Duration textValue `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// GoogleMatrix calls the Google Distance Matrix API in driving mode, metric units.
type GoogleMatrix struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

func NewGoogleMatrix(baseURL, apiKey string, timeout time.Duration, httpClient *http.Client) *GoogleMatrix {
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GoogleMatrix{baseURL: baseURL, apiKey: apiKey, timeout: timeout, http: httpClient}
}

func (g *GoogleMatrix) Distance(ctx context.Context, originPostal, destPostal string) (Element, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("origins", originPostal)
	q.Set("destinations", destPostal)
	q.Set("units", "metric")
	q.Set("mode", "driving")
	q.Set("key", g.apiKey)

	sep := "?"
	if strings.Contains(g.baseURL, "?") {
		sep = "&"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+sep+q.Encode(), nil)
	if err != nil {
		return Element{}, err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return Element{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Element{}, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(b))
	}

	var raw matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Element{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if raw.Status != "OK" {
		return Element{}, fmt.Errorf("%w: api status %s %s", ErrUnavailable, raw.Status, raw.ErrorMessage)
	}
	if len(raw.Rows) == 0 || len(raw.Rows[0].Elements) == 0 {
		return Element{}, fmt.Errorf("%w: empty matrix", ErrUnavailable)
	}

	el := raw.Rows[0].Elements[0]
	if el.Status != "OK" {
		return Element{Status: el.Status}, fmt.Errorf("%w: %s", ErrNotOK, el.Status)
	}
	return Element{
		Status:          el.Status,
		DistanceMeters:  el.Distance.Value,
		DistanceText:    el.Distance.Text,
		DurationSeconds: el.Duration.Value,
		DurationText:    el.Duration.Text,
	}, nil
}
