package analytics

import (
	"math"
	"sort"
	"strings"

	"geostats/internal/records"
)

// Aggregate folds games and country guesses into per map and mode
// statistics. It has no side effects; the same input always yields the same
// rollup.
func Aggregate(games []records.GameRecord, guesses []records.CountryGuessRecord, detail Detail) *Rollup {
	r := &Rollup{Detail: detail, byKey: make(map[MapModeKey]*MapModeStat)}
	countries := make(map[MapModeKey]map[string]*CountryStat)

	for _, g := range games {
		k := MapModeKey{Map: g.MapName, Mode: g.Mode}
		s, ok := r.byKey[k]
		if !ok {
			s = &MapModeStat{Key: k, WorstScore: records.MaxScore}
			r.byKey[k] = s
			countries[k] = make(map[string]*CountryStat)
		}
		s.Games++
		s.TotalScore += g.Score
		s.BestScore = max(s.BestScore, g.Score)
		s.WorstScore = min(s.WorstScore, g.Score)
		s.TotalDistanceMeters += g.DistanceMeters
		if g.IsPerfect {
			s.PerfectGames++
		}
	}

	for _, cg := range guesses {
		if records.IsUnknownCountry(cg.ActualCountry) {
			continue
		}
		k := MapModeKey{Map: cg.MapName, Mode: cg.Mode}
		s, ok := r.byKey[k]
		if !ok {
			continue
		}
		code := strings.ToLower(cg.ActualCountry)
		c, ok := countries[k][code]
		if !ok {
			c = &CountryStat{Code: code}
			if detail == DetailFull {
				c.WrongGuesses = make(map[string]int)
			}
			countries[k][code] = c
			s.Countries = append(s.Countries, c)
		}
		c.Encountered++
		if detail != DetailFull {
			continue
		}
		c.TotalScore += cg.Score
		if cg.IsCorrect {
			c.CorrectGuesses++
		} else {
			c.WrongGuesses[strings.ToLower(cg.GuessedCountry)]++
		}
	}

	r.Stats = make([]*MapModeStat, 0, len(r.byKey))
	for _, s := range r.byKey {
		finalize(s, detail)
		r.Stats = append(r.Stats, s)
	}
	sort.Slice(r.Stats, func(i, j int) bool { return r.Stats[i].Key.Less(r.Stats[j].Key) })
	return r
}

func finalize(s *MapModeStat, detail Detail) {
	s.TotalDistanceKm = math.Floor(s.TotalDistanceMeters/1000 + 0.5)
	if s.Games == 0 {
		s.WorstScore = 0
		return
	}
	n := float64(s.Games)
	s.AvgScore = int(math.Floor(float64(s.TotalScore)/n + 0.5))
	s.AvgDistanceKm = records.Round2(s.TotalDistanceMeters / 1000 / n)
	s.PerfectRatePct = records.Round2(float64(s.PerfectGames) / n * 100)

	if detail != DetailFull {
		return
	}
	// Strict comparisons keep the first-encountered country on ties.
	for _, c := range s.Countries {
		if s.MostDifficult == nil || c.Accuracy() < s.MostDifficult.Accuracy() {
			s.MostDifficult = c
		}
		if s.Easiest == nil || c.Accuracy() > s.Easiest.Accuracy() {
			s.Easiest = c
		}
	}
}

// EncounterHistogram lists country encounter counts sorted by count
// descending, then code ascending.
func EncounterHistogram(countries []*CountryStat) []CountryCount {
	out := make([]CountryCount, 0, len(countries))
	for _, c := range countries {
		out = append(out, CountryCount{Code: strings.ToUpper(c.Code), Count: c.Encountered})
	}
	sortCounts(out)
	return out
}

func sortCounts(cc []CountryCount) {
	sort.Slice(cc, func(i, j int) bool {
		if cc[i].Count != cc[j].Count {
			return cc[i].Count > cc[j].Count
		}
		return cc[i].Code < cc[j].Code
	})
}
