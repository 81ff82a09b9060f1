package ingest

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"geostats/internal/apperr"
	"geostats/internal/mode"
	"geostats/internal/records"
)

// GameData is a finished game as submitted by the client.
type GameData struct {
	Token        string            `json:"token" validate:"required"`
	Date         string            `json:"date" validate:"required"`
	Score        int               `json:"score" validate:"min=0,max=25000"`
	Distance     float64           `json:"distance" validate:"min=0"`
	MapName      string            `json:"mapName"`
	MapID        string            `json:"mapId"`
	TimeLimit    int               `json:"timeLimit" validate:"min=0"`
	Rounds       []RoundData       `json:"rounds" validate:"dive"`
	Restrictions mode.Restrictions `json:"restrictions"`
}

// RoundData is one round of a submitted game. Zero coordinates mean the
// point is absent.
type RoundData struct {
	RoundNumber int     `json:"roundNumber" validate:"min=1"`
	Score       int     `json:"score" validate:"min=0,max=25000"`
	Distance    float64 `json:"distance" validate:"min=0"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	GuessLat    float64 `json:"guessLat"`
	GuessLng    float64 `json:"guessLng"`
}

// normalized is a validated submission split into records.
type normalized struct {
	game   records.GameRecord
	rounds []records.RoundRecord
	// guesses pairs each round with a guess to its guess coordinate.
	guesses []pendingGuess
}

type pendingGuess struct {
	round records.RoundRecord
	guess records.Coord
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.Validation("validate game", "invalid date %q", s)
}

func normalize(v *validator.Validate, data GameData) (*normalized, error) {
	// Identity cells come back trimmed when tables are read.
	data.Token = strings.TrimSpace(data.Token)
	data.Date = strings.TrimSpace(data.Date)
	data.MapName = strings.TrimSpace(data.MapName)
	data.MapID = strings.TrimSpace(data.MapID)

	if err := v.Struct(data); err != nil {
		return nil, apperr.Validation("validate game", "%s", validationMessage(err))
	}
	date, err := parseDate(data.Date)
	if err != nil {
		return nil, err
	}

	label := mode.Classify(data.Restrictions)
	n := &normalized{
		game: records.GameRecord{
			Token:          data.Token,
			Date:           date,
			MapID:          data.MapID,
			MapName:        data.MapName,
			Mode:           label,
			Score:          data.Score,
			DistanceMeters: data.Distance,
			TimeLimit:      data.TimeLimit,
			RoundCount:     len(data.Rounds),
			IsPerfect:      records.IsPerfectScore(data.Score),
		},
	}
	for _, rd := range data.Rounds {
		rr := records.RoundRecord{
			GameToken:      data.Token,
			Date:           date,
			MapName:        data.MapName,
			Mode:           label,
			RoundNumber:    rd.RoundNumber,
			Score:          rd.Score,
			DistanceMeters: rd.Distance,
			ActualCountry:  records.NormalizeCountry(rd.Country),
			Actual:         records.NewCoord(rd.Lat, rd.Lng),
		}
		n.rounds = append(n.rounds, rr)
		if g := records.NewCoord(rd.GuessLat, rd.GuessLng); g != nil {
			n.guesses = append(n.guesses, pendingGuess{round: rr, guess: *g})
		}
	}
	return n, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "GameData.")
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, "missing "+field)
		default:
			msgs = append(msgs, field+" must satisfy "+fe.Tag()+"="+fe.Param())
		}
	}
	return strings.Join(msgs, "; ")
}
