package geocode

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"geostats/internal/records"
)

const statusZeroResults = "ZERO_RESULTS"

// Google reverse-geocodes through the Google Maps Geocoding API.
type Google struct {
	client *maps.Client
}

// NewGoogle builds a client for apiKey. baseURL overrides the API host and
// is empty in production.
func NewGoogle(baseURL, apiKey string, timeout time.Duration) (*Google, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(strings.TrimSuffix(baseURL, "/")))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	return &Google{client: client}, nil
}

func (g *Google) ReverseCountry(ctx context.Context, lat, lng float64) (string, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:     &maps.LatLng{Lat: lat, Lng: lng},
		ResultType: []string{"country"},
	})
	if err != nil {
		se := statusErrorOf(err)
		if se == nil {
			return "", fmt.Errorf("requesting geocode: %w", err)
		}
		if se.Status == statusZeroResults {
			return records.UnknownCountry, nil
		}
		return "", se
	}

	// Only the first result is considered.
	if len(results) > 0 {
		for _, c := range results[0].AddressComponents {
			for _, typ := range c.Types {
				if typ == "country" {
					return strings.ToLower(c.ShortName), nil
				}
			}
		}
	}
	return records.UnknownCountry, nil
}

// statusErrorOf recovers the API status from the client's "maps: STATUS - message"
// errors. Transport and decoding failures give nil.
func statusErrorOf(err error) *StatusError {
	msg, ok := strings.CutPrefix(err.Error(), "maps: ")
	if !ok {
		return nil
	}
	status, message, _ := strings.Cut(msg, " - ")
	if status == "" || strings.ToUpper(status) != status || strings.ContainsAny(status, " :") {
		return nil
	}
	return &StatusError{Status: status, Message: message}
}
