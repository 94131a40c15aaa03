package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aifsfetch/internal/models"
)

// DefaultBaseURL is the ECMWF open data host
const DefaultBaseURL = "https://data.ecmwf.int"

const (
	model      = "aifs-single"
	resolution = "0p25"
	stream     = "oper"
)

// ECMWFClient is a client for the ECMWF open data file server
type ECMWFClient struct {
	client  *http.Client
	baseURL string
}

// StatusError is returned when the server answers with anything but 200
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API error: status %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("API error: status %d for %s, body: %s", e.StatusCode, e.URL, e.Body)
}

// NewECMWFClient creates a new client. An empty baseURL selects DefaultBaseURL,
// a zero timeout leaves the transport default in place.
func NewECMWFClient(baseURL string, timeout time.Duration) *ECMWFClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &ECMWFClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the host the client fetches from
func (c *ECMWFClient) BaseURL() string {
	return c.baseURL
}

// FileName returns the base name of the GRIB2 file for a run and forecast hour
func FileName(run models.Run, forecastHour int) string {
	return fmt.Sprintf("%s%s0000-%dh-%s-fc.grib2", run.DateStamp(), run.Cycle, forecastHour, stream)
}

// BuildURL builds the URL of the GRIB2 file for a run and forecast hour
func (c *ECMWFClient) BuildURL(run models.Run, forecastHour int) string {
	return fmt.Sprintf("%s/forecasts/%s/%sz/%s/%s/%s/%s",
		c.baseURL, run.DateStamp(), run.Cycle, model, resolution, stream, FileName(run, forecastHour))
}

// Get issues a GET for url and returns the response body for streaming.
// The caller must close the body. Non-200 responses are returned as *StatusError.
func (c *ECMWFClient) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return resp.Body, nil
}
