package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geostats/internal/records"
)

func game(mapName, modeLabel string, score int, meters float64) records.GameRecord {
	return records.GameRecord{
		Token:          mapName + modeLabel,
		MapName:        mapName,
		Mode:           modeLabel,
		Score:          score,
		DistanceMeters: meters,
		IsPerfect:      records.IsPerfectScore(score),
	}
}

func guess(mapName, modeLabel, actual, guessed string, score int) records.CountryGuessRecord {
	return records.CountryGuessRecord{
		MapName:        mapName,
		Mode:           modeLabel,
		ActualCountry:  actual,
		GuessedCountry: guessed,
		IsCorrect:      actual == guessed,
		Score:          score,
	}
}

func TestAggregate_WorldExample(t *testing.T) {
	games := []records.GameRecord{
		game("World", "Moving", 25000, 0),
		game("World", "Moving", 10000, 0),
	}
	r := Aggregate(games, nil, DetailFull)

	require.Len(t, r.Stats, 1)
	s := r.Stats[0]
	assert.Equal(t, MapModeKey{Map: "World", Mode: "Moving"}, s.Key)
	assert.Equal(t, 2, s.Games)
	assert.Equal(t, 25000, s.BestScore)
	assert.Equal(t, 10000, s.WorstScore)
	assert.Equal(t, 1, s.PerfectGames)
	assert.Equal(t, 50.0, s.PerfectRatePct)
	assert.Equal(t, 17500, s.AvgScore)
}

func TestAggregate_Distances(t *testing.T) {
	games := []records.GameRecord{
		game("World", "NMPZ", 12000, 1234567),
		game("World", "NMPZ", 13000, 1000000),
		game("World", "NMPZ", 14000, 10),
	}
	s := Aggregate(games, nil, detailEncounters).Stats[0]

	assert.InDelta(t, 2234577.0, s.TotalDistanceMeters, 1e-9)
	assert.Equal(t, 2235.0, s.TotalDistanceKm)
	assert.Equal(t, 744.86, s.AvgDistanceKm)
	assert.Equal(t, 13000, s.AvgScore)
	assert.Equal(t, 0.0, s.PerfectRatePct)
	assert.Equal(t, 12000, s.WorstScore)
}

func TestAggregate_SortedByMapThenMode(t *testing.T) {
	games := []records.GameRecord{
		game("World", "NMPZ", 1, 0),
		game("Europe", "No Move", 1, 0),
		game("World", "Moving", 1, 0),
		game("Europe", "Moving", 1, 0),
	}
	r := Aggregate(games, nil, detailEncounters)

	var keys []MapModeKey
	for _, s := range r.Stats {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []MapModeKey{
		{"Europe", "Moving"}, {"Europe", "No Move"}, {"World", "Moving"}, {"World", "NMPZ"},
	}, keys)
}

func TestAggregate_KeyIsStructural(t *testing.T) {
	games := []records.GameRecord{
		game("A|||B", "Moving", 100, 0),
		game("A", "B|||Moving", 200, 0),
	}
	r := Aggregate(games, nil, detailEncounters)

	assert.Len(t, r.Stats, 2)
	s, ok := r.get(MapModeKey{Map: "A|||B", Mode: "Moving"})
	require.True(t, ok)
	assert.Equal(t, 100, s.TotalScore)
}

func TestAggregate_EncountersOnly(t *testing.T) {
	games := []records.GameRecord{game("World", "Moving", 20000, 0)}
	guesses := []records.CountryGuessRecord{
		guess("World", "Moving", "fr", "fr", 5000),
		guess("World", "Moving", "fr", "be", 3000),
		guess("World", "Moving", "unknown", "fr", 100),
		guess("World", "Moving", "", "fr", 100),
		guess("Europe", "Moving", "de", "de", 5000),
	}
	s := Aggregate(games, guesses, detailEncounters).Stats[0]

	require.Len(t, s.Countries, 1)
	assert.Equal(t, "fr", s.Countries[0].Code)
	assert.Equal(t, 2, s.Countries[0].Encountered)
	assert.Zero(t, s.Countries[0].CorrectGuesses)
	assert.Nil(t, s.Countries[0].WrongGuesses)
	assert.Nil(t, s.MostDifficult)
	assert.Nil(t, s.Easiest)
}

func TestAggregate_FullDetail(t *testing.T) {
	games := []records.GameRecord{game("World", "Moving", 20000, 0)}
	guesses := []records.CountryGuessRecord{
		guess("World", "Moving", "fr", "fr", 5000),
		guess("World", "Moving", "fr", "be", 3000),
		guess("World", "Moving", "br", "ar", 1000),
		guess("World", "Moving", "br", "ar", 900),
		guess("World", "Moving", "jp", "jp", 4900),
		guess("World", "Moving", "UNKNOWN", "jp", 4900),
	}
	s := Aggregate(games, guesses, DetailFull).Stats[0]

	require.Len(t, s.Countries, 3)
	fr := s.Countries[0]
	assert.Equal(t, 2, fr.Encountered)
	assert.Equal(t, 1, fr.CorrectGuesses)
	assert.Equal(t, 8000, fr.TotalScore)
	assert.Equal(t, map[string]int{"be": 1}, fr.WrongGuesses)
	assert.Equal(t, 50.0, fr.Accuracy())

	assert.Equal(t, map[string]int{"ar": 2}, s.Countries[1].WrongGuesses)
	assert.Equal(t, "br", s.MostDifficult.Code)
	assert.Equal(t, "jp", s.Easiest.Code)
}

func TestAggregate_DifficultyTiesKeepFirstSeen(t *testing.T) {
	games := []records.GameRecord{game("World", "Moving", 20000, 0)}
	guesses := []records.CountryGuessRecord{
		guess("World", "Moving", "se", "no", 0),
		guess("World", "Moving", "no", "se", 0),
		guess("World", "Moving", "fi", "fi", 0),
		guess("World", "Moving", "ee", "ee", 0),
	}
	s := Aggregate(games, guesses, DetailFull).Stats[0]

	assert.Equal(t, "se", s.MostDifficult.Code)
	assert.Equal(t, "fi", s.Easiest.Code)
}

func TestAggregate_Deterministic(t *testing.T) {
	games := []records.GameRecord{
		game("World", "Moving", 25000, 100),
		game("Europe", "NMPZ", 7000, 90000),
		game("World", "Moving", 3000, 5000000),
	}
	guesses := []records.CountryGuessRecord{
		guess("World", "Moving", "us", "ca", 2000),
		guess("Europe", "NMPZ", "pl", "pl", 4000),
		guess("World", "Moving", "ca", "ca", 4000),
	}
	first := StatisticsRows(Aggregate(games, guesses, DetailFull))
	second := StatisticsRows(Aggregate(games, guesses, DetailFull))

	assert.Equal(t, first, second)
}

func TestAggregate_Empty(t *testing.T) {
	r := Aggregate(nil, nil, DetailFull)
	assert.Empty(t, r.Stats)
}

func TestFinalize_NoGamesResetsWorstScore(t *testing.T) {
	s := &MapModeStat{WorstScore: records.MaxScore}
	finalize(s, DetailFull)

	assert.Equal(t, 0, s.WorstScore)
	assert.Equal(t, 0, s.AvgScore)
	assert.Equal(t, 0.0, s.PerfectRatePct)
}

func TestEncounterHistogram_Order(t *testing.T) {
	cc := EncounterHistogram([]*CountryStat{
		{Code: "us", Encountered: 2},
		{Code: "br", Encountered: 5},
		{Code: "au", Encountered: 2},
	})
	assert.Equal(t, []CountryCount{{"BR", 5}, {"AU", 2}, {"US", 2}}, cc)
}
