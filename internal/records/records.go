// Package records holds the flat game, round and country-guess records and
// their table encodings.
package records

import (
	"math"
	"strings"
	"time"
)

const (
	MaxScore = 25000

	// UnknownCountry is what the geocoder yields when it cannot place a point.
	UnknownCountry = "unknown"
)

// Table names.
const (
	TableGames              = "Games"
	TableRounds             = "Rounds"
	TableCountryRecognition = "Country Recognition"
	TableStatistics         = "Statistics"
)

type Coord struct {
	Lat float64
	Lng float64
}

// NewCoord returns nil unless both components are non-zero.
func NewCoord(lat, lng float64) *Coord {
	if lat == 0 || lng == 0 {
		return nil
	}
	return &Coord{Lat: lat, Lng: lng}
}

type GameRecord struct {
	Token          string
	Date           time.Time
	MapID          string
	MapName        string
	Mode           string
	Score          int
	DistanceMeters float64
	TimeLimit      int
	RoundCount     int
	IsPerfect      bool
}

type RoundRecord struct {
	GameToken      string
	Date           time.Time
	MapName        string
	Mode           string
	RoundNumber    int
	Score          int
	DistanceMeters float64
	ActualCountry  string // lower-case code or "unknown"
	Actual         *Coord
}

type CountryGuessRecord struct {
	GameToken      string
	Date           time.Time
	MapName        string
	Mode           string
	RoundNumber    int
	ActualCountry  string
	GuessedCountry string
	IsCorrect      bool
	Score          int
	DistanceMeters float64
	Actual         *Coord
	Guess          *Coord
}

// IsPerfectScore reports whether a game total is the maximum possible.
func IsPerfectScore(score int) bool {
	return score == MaxScore
}

// NormalizeCountry lower-cases a country code, mapping blanks to "unknown".
func NormalizeCountry(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return UnknownCountry
	}
	return code
}

// IsUnknownCountry is true for empty codes and the unknown sentinel in any case.
func IsUnknownCountry(code string) bool {
	return code == "" || strings.EqualFold(code, UnknownCountry)
}

// MetersToKm converts and rounds to two decimals.
func MetersToKm(m float64) float64 {
	return Round2(m / 1000)
}

// Round2 rounds half up to two decimals.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
