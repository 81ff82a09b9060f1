package records

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Row is one table row of display cells.
type Row []string

const (
	dateLayout = time.RFC3339
	yes        = "YES"
	no         = "NO"
)

var (
	GamesHeader = Row{
		"Date", "Token", "Map Name", "Map Link", "Game Mode", "Score", "Distance (km)",
		"Time Limit", "Rounds", "Perfect Score",
	}
	RoundsHeader = Row{
		"Date", "Game Token", "Map Name", "Game Mode", "Round",
		"Score", "Distance (km)", "Actual Country", "Actual Location",
	}
	CountryRecognitionHeader = Row{
		"Date", "Game Token", "Map Name", "Game Mode", "Round",
		"Actual Country", "Guessed Country", "Correct Guess",
		"Score", "Distance (km)", "Actual Location", "Guess Location",
	}
)

// Column positions shared by readers of the history tables.
const (
	GamesColDate  = 0
	GamesColToken = 1
)

var mapIDRe = regexp.MustCompile(`geoguessr\.com/maps/([^"]+)"`)

func EncodeGame(g GameRecord) Row {
	return Row{
		formatDate(g.Date),
		g.Token,
		g.MapName,
		MapLink(g.MapID),
		g.Mode,
		strconv.Itoa(g.Score),
		formatKm(g.DistanceMeters),
		strconv.Itoa(g.TimeLimit),
		strconv.Itoa(g.RoundCount),
		yesNo(g.IsPerfect),
	}
}

func DecodeGame(r Row) (GameRecord, error) {
	var g GameRecord
	var err error
	if g.Date, err = parseDate(cell(r, 0)); err != nil {
		return g, err
	}
	g.Token = cell(r, 1)
	g.MapName = cell(r, 2)
	if m := mapIDRe.FindStringSubmatch(cell(r, 3)); m != nil {
		g.MapID = m[1]
	}
	g.Mode = cell(r, 4)
	if g.Score, err = parseInt("score", cell(r, 5)); err != nil {
		return g, err
	}
	if g.DistanceMeters, err = parseKm(cell(r, 6)); err != nil {
		return g, err
	}
	if g.TimeLimit, err = parseInt("time limit", cell(r, 7)); err != nil {
		return g, err
	}
	if g.RoundCount, err = parseInt("rounds", cell(r, 8)); err != nil {
		return g, err
	}
	g.IsPerfect = cell(r, 9) == yes
	return g, nil
}

func EncodeRound(rr RoundRecord) Row {
	return Row{
		formatDate(rr.Date),
		rr.GameToken,
		rr.MapName,
		rr.Mode,
		strconv.Itoa(rr.RoundNumber),
		strconv.Itoa(rr.Score),
		formatKm(rr.DistanceMeters),
		strings.ToUpper(rr.ActualCountry),
		LocationLink(rr.Actual, "Actual Location"),
	}
}

func DecodeRound(r Row) (RoundRecord, error) {
	var rr RoundRecord
	var err error
	if rr.Date, err = parseDate(cell(r, 0)); err != nil {
		return rr, err
	}
	rr.GameToken = cell(r, 1)
	rr.MapName = cell(r, 2)
	rr.Mode = cell(r, 3)
	if rr.RoundNumber, err = parseInt("round", cell(r, 4)); err != nil {
		return rr, err
	}
	if rr.Score, err = parseInt("score", cell(r, 5)); err != nil {
		return rr, err
	}
	if rr.DistanceMeters, err = parseKm(cell(r, 6)); err != nil {
		return rr, err
	}
	rr.ActualCountry = strings.ToLower(cell(r, 7))
	rr.Actual = ParseLocationLink(cell(r, 8))
	return rr, nil
}

// EncodeCountryGuess writes country codes upper-cased.
func EncodeCountryGuess(cg CountryGuessRecord) Row {
	return Row{
		formatDate(cg.Date),
		cg.GameToken,
		cg.MapName,
		cg.Mode,
		strconv.Itoa(cg.RoundNumber),
		strings.ToUpper(cg.ActualCountry),
		strings.ToUpper(cg.GuessedCountry),
		yesNo(cg.IsCorrect),
		strconv.Itoa(cg.Score),
		formatKm(cg.DistanceMeters),
		LocationLink(cg.Actual, "Actual Location"),
		LocationLink(cg.Guess, "Guess Location"),
	}
}

// DecodeCountryGuess reads country codes back into lower case.
func DecodeCountryGuess(r Row) (CountryGuessRecord, error) {
	var cg CountryGuessRecord
	var err error
	if cg.Date, err = parseDate(cell(r, 0)); err != nil {
		return cg, err
	}
	cg.GameToken = cell(r, 1)
	cg.MapName = cell(r, 2)
	cg.Mode = cell(r, 3)
	if cg.RoundNumber, err = parseInt("round", cell(r, 4)); err != nil {
		return cg, err
	}
	cg.ActualCountry = strings.ToLower(cell(r, 5))
	cg.GuessedCountry = strings.ToLower(cell(r, 6))
	cg.IsCorrect = cell(r, 7) == yes
	if cg.Score, err = parseInt("score", cell(r, 8)); err != nil {
		return cg, err
	}
	if cg.DistanceMeters, err = parseKm(cell(r, 9)); err != nil {
		return cg, err
	}
	cg.Actual = ParseLocationLink(cell(r, 10))
	cg.Guess = ParseLocationLink(cell(r, 11))
	return cg, nil
}

// DecodeGames decodes every row after the header.
func DecodeGames(rows []Row) ([]GameRecord, error) {
	return decodeAll(rows, DecodeGame)
}

func DecodeRounds(rows []Row) ([]RoundRecord, error) {
	return decodeAll(rows, DecodeRound)
}

func DecodeCountryGuesses(rows []Row) ([]CountryGuessRecord, error) {
	return decodeAll(rows, DecodeCountryGuess)
}

func decodeAll[T any](rows []Row, decode func(Row) (T, error)) ([]T, error) {
	if len(rows) <= 1 {
		return nil, nil
	}
	out := make([]T, 0, len(rows)-1)
	for i, r := range rows[1:] {
		v, err := decode(r)
		if err != nil {
			return nil, fmt.Errorf("decoding row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func cell(r Row, i int) string {
	if i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

func formatKm(meters float64) string {
	return strconv.FormatFloat(MetersToKm(meters), 'f', -1, 64)
}

func parseKm(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	km, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing distance %q: %w", s, err)
	}
	return km * 1000, nil
}

func parseInt(field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return v, nil
}

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}
