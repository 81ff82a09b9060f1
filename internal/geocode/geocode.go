// Package geocode resolves guess coordinates to country codes.
package geocode

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"geostats/internal/records"
)

// Geocoder maps a coordinate to a lower-case country code.
type Geocoder interface {
	ReverseCountry(ctx context.Context, lat, lng float64) (string, error)
}

var ErrDisabled = errors.New("geocoder disabled")

// Disabled is used when no geocoding backend is configured.
type Disabled struct{}

func (Disabled) ReverseCountry(context.Context, float64, float64) (string, error) {
	return "", ErrDisabled
}

// Fallback wraps a Geocoder so that lookups never fail: errors are logged
// and reported as records.UnknownCountry.
type Fallback struct {
	geocoder Geocoder
	logger   *zap.Logger
}

func NewFallback(g Geocoder, logger *zap.Logger) *Fallback {
	return &Fallback{geocoder: g, logger: logger}
}

func (f *Fallback) Country(ctx context.Context, lat, lng float64) string {
	code, err := f.geocoder.ReverseCountry(ctx, lat, lng)
	if err != nil {
		if !errors.Is(err, ErrDisabled) {
			f.logger.Warn("reverse geocoding failed",
				zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		}
		return records.UnknownCountry
	}
	return records.NormalizeCountry(code)
}

// StatusError is returned for non-OK geocoding responses.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("geocoding status %s", e.Status)
	}
	return fmt.Sprintf("geocoding status %s: %s", e.Status, e.Message)
}
