// Package geocode implements the external authoritative address lookup used
// as the last stage of the match cascade.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/internal/normalize"
	"github.com/gcbaptista/go-address-matcher/services"
)

const defaultBaseURL = "https://api.geocod.io/v1.7"

// Client calls the Geocodio geocoding API. It implements
// services.GeocodeClient.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a geocoding client with the given API key and per-call
// timeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
func NewClientWithBaseURL(apiKey, baseURL string, timeout time.Duration) *Client {
	c := NewClient(apiKey, timeout)
	c.baseURL = baseURL
	return c
}

// geocodeResponse mirrors the subset of the provider response we read.
type geocodeResponse struct {
	Results []struct {
		AddressComponents struct {
			Number          string `json:"number"`
			Predirectional  string `json:"predirectional"`
			Street          string `json:"street"`
			Suffix          string `json:"suffix"`
			Postdirectional string `json:"postdirectional"`
			SecondaryNumber string `json:"secondarynumber"`
			City            string `json:"city"`
			State           string `json:"state"`
			Zip             string `json:"zip"`
		} `json:"address_components"`
		Accuracy float64 `json:"accuracy"`
	} `json:"results"`
}

// Lookup resolves a raw address string. A nil result with a nil error means
// the provider answered but has no record of the address. Operational
// failures come back as ExternalLookupError values so callers can tell a
// throttled provider apart from an unmatched address.
func (c *Client) Lookup(ctx context.Context, rawAddress string) (*services.GeocodeResult, error) {
	reqURL := fmt.Sprintf("%s/geocode?q=%s&api_key=%s&limit=1",
		c.baseURL, url.QueryEscape(rawAddress), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, internalErrors.NewExternalLookupError(internalErrors.ReasonNetworkError, err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, internalErrors.NewExternalLookupError(internalErrors.ReasonNetworkError, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, internalErrors.NewExternalLookupError(internalErrors.ReasonRateLimited, "provider throttled the request")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, internalErrors.NewExternalLookupError(internalErrors.ReasonUnauthenticated, "provider rejected the API key")
	case resp.StatusCode != http.StatusOK:
		return nil, internalErrors.NewExternalLookupError(internalErrors.ReasonNetworkError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internalErrors.NewExternalLookupError(internalErrors.ReasonNetworkError, err.Error())
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, internalErrors.NewExternalLookupError(internalErrors.ReasonNetworkError,
			fmt.Sprintf("malformed provider response: %v", err))
	}

	if len(decoded.Results) == 0 {
		return nil, nil // The provider has no record of this address.
	}

	comp := decoded.Results[0].AddressComponents
	return &services.GeocodeResult{
		HouseNumber: normalize.Field(comp.Number),
		PreDir:      normalize.Field(comp.Predirectional),
		StreetName:  normalize.Field(comp.Street),
		StreetType:  normalize.Field(comp.Suffix),
		PostDir:     normalize.Field(comp.Postdirectional),
		Unit:        normalize.Field(comp.SecondaryNumber),
		City:        normalize.Field(comp.City),
		State:       normalize.Field(comp.State),
		ZIP:         normalize.Field(comp.Zip),
		Accuracy:    decoded.Results[0].Accuracy,
	}, nil
}
