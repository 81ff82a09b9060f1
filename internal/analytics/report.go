package analytics

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"geostats/internal/mode"
	"geostats/internal/records"
)

// Report is the encountered-countries view for one map and mode.
type Report struct {
	MapName        string
	Slug           string
	Games          int
	AvgScore       int
	AvgDistanceKm  float64
	PerfectGames   int
	PerfectRatePct float64
	Countries      []CountryCount
}

// TableName is the table the report is written to.
func (r Report) TableName() string {
	return records.SanitizeTableName(records.DisplayMapName(r.MapName) + " - " + r.Slug)
}

// BuildReport filters the history to mapName and the slug of modeLabel and
// summarises it. Stored mode labels are parsed before their slug is taken so
// older or custom labels land in the right bucket.
func BuildReport(mapName, modeLabel string, games []records.GameRecord, rounds []records.RoundRecord) Report {
	slug := mode.Parse(modeLabel).Slug()
	rep := Report{MapName: mapName, Slug: slug}

	matchGames := lo.Filter(games, func(g records.GameRecord, _ int) bool {
		return g.MapName == mapName && mode.Parse(g.Mode).Slug() == slug
	})
	matchRounds := lo.Filter(rounds, func(r records.RoundRecord, _ int) bool {
		return r.MapName == mapName && mode.Parse(r.Mode).Slug() == slug
	})

	var totalScore int
	var totalDistance float64
	for _, g := range matchGames {
		totalScore += g.Score
		totalDistance += g.DistanceMeters
		if g.IsPerfect {
			rep.PerfectGames++
		}
	}
	rep.Games = len(matchGames)
	if rep.Games > 0 {
		n := float64(rep.Games)
		rep.AvgScore = int(math.Floor(float64(totalScore)/n + 0.5))
		rep.AvgDistanceKm = records.Round2(totalDistance / 1000 / n)
		rep.PerfectRatePct = records.Round2(float64(rep.PerfectGames) / n * 100)
	}

	counts := make(map[string]int)
	for _, code := range lo.FilterMap(matchRounds, func(r records.RoundRecord, _ int) (string, bool) {
		return strings.ToUpper(r.ActualCountry), !records.IsUnknownCountry(r.ActualCountry)
	}) {
		counts[code]++
	}
	rep.Countries = lo.MapToSlice(counts, func(code string, n int) CountryCount {
		return CountryCount{Code: code, Count: n}
	})
	sortCounts(rep.Countries)
	return rep
}
