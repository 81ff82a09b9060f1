package analytics

// MapModeKey groups statistics by map name and mode label. Both parts are
// compared exactly.
type MapModeKey struct {
	Map  string
	Mode string
}

func (k MapModeKey) Less(o MapModeKey) bool {
	if k.Map != o.Map {
		return k.Map < o.Map
	}
	return k.Mode < o.Mode
}

// Detail selects how much per-country information a rollup keeps.
type Detail int

const (
	// detailEncounters counts encounters per country only.
	detailEncounters Detail = iota
	// DetailFull also tracks correct guesses, score and wrong guesses.
	DetailFull
)

type CountryStat struct {
	Code           string
	Encountered    int
	CorrectGuesses int
	TotalScore     int
	WrongGuesses   map[string]int // guessed code -> count
}

// Accuracy is the percentage of encounters guessed correctly.
func (c CountryStat) Accuracy() float64 {
	if c.Encountered == 0 {
		return 0
	}
	return float64(c.CorrectGuesses) / float64(c.Encountered) * 100
}

type MapModeStat struct {
	Key                 MapModeKey
	Games               int
	TotalScore          int
	BestScore           int
	WorstScore          int
	TotalDistanceMeters float64
	PerfectGames        int

	// Countries is ordered by first encounter.
	Countries []*CountryStat

	AvgScore        int
	AvgDistanceKm   float64
	TotalDistanceKm float64
	PerfectRatePct  float64

	// Set only for DetailFull rollups with at least one country.
	MostDifficult *CountryStat
	Easiest       *CountryStat
}

// Rollup is the result of folding the game history.
type Rollup struct {
	Detail Detail
	// Stats is sorted by key.
	Stats []*MapModeStat
	byKey map[MapModeKey]*MapModeStat
}

func (r *Rollup) get(k MapModeKey) (*MapModeStat, bool) {
	s, ok := r.byKey[k]
	return s, ok
}

// CountryCount is one line of an encountered-countries histogram.
type CountryCount struct {
	Code  string
	Count int
}
