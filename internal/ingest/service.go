// Package ingest writes submitted games into a user's workbook and keeps the
// derived statistics tables in step with the history.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"geostats/internal/analytics"
	"geostats/internal/apperr"
	"geostats/internal/geocode"
	"geostats/internal/metrics"
	"geostats/internal/records"
	"geostats/internal/store"
)

const workbookPrefix = "GeoGuessr Stats - "

type Options struct {
	// Folder holds every user workbook.
	Folder string
	// BaseURL prefixes workbook ids to form the location returned to callers.
	BaseURL string
	// DefaultWorkbook is exported from when no user is given.
	DefaultWorkbook string
}

// Result is the envelope returned by Submit.
type Result struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	SpreadsheetURL string `json:"spreadsheetUrl,omitempty"`
}

type Service struct {
	store    store.Store
	geocoder *geocode.Fallback
	validate *validator.Validate
	logger   *zap.Logger
	opts     Options
}

func NewService(st store.Store, g geocode.Geocoder, logger *zap.Logger, opts Options) *Service {
	return &Service{
		store:    st,
		geocoder: geocode.NewFallback(g, logger.Named("geocode")),
		validate: newValidator(),
		logger:   logger,
		opts:     opts,
	}
}

// WorkbookName is the name of the workbook holding userID's history.
func WorkbookName(userID string) string {
	return workbookPrefix + userID
}

// Submit ingests one game and reports the outcome as an envelope. It never
// returns an error.
func (s *Service) Submit(ctx context.Context, userID string, data GameData) Result {
	return NewResult(s.Ingest(ctx, userID, data))
}

// NewResult builds the envelope for the outcome of Ingest.
func NewResult(loc string, saved bool, err error) Result {
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	msg := "Game saved successfully"
	if !saved {
		msg = "Game already saved"
	}
	return Result{Success: true, Message: msg, SpreadsheetURL: loc}
}

// Ingest writes one game into userID's workbook and refreshes the
// statistics and the map and mode report. It returns the workbook location
// and whether the game was new. A game whose token is already present stops
// the pipeline before anything is written. Writes made before a failure are
// kept.
func (s *Service) Ingest(ctx context.Context, userID string, data GameData) (string, bool, error) {
	start := time.Now()
	defer func() { metrics.IngestDuration.Observe(time.Since(start).Seconds()) }()

	loc, saved, err := s.ingest(ctx, userID, data)
	switch {
	case err != nil:
		metrics.GamesIngested.WithLabelValues(metrics.ResultFailed).Inc()
		s.logger.Error("ingest failed", zap.String("user", userID), zap.String("token", data.Token), zap.Error(err))
	case !saved:
		metrics.GamesIngested.WithLabelValues(metrics.ResultDuplicate).Inc()
		s.logger.Info("duplicate game skipped", zap.String("user", userID), zap.String("token", data.Token))
	default:
		metrics.GamesIngested.WithLabelValues(metrics.ResultSaved).Inc()
	}
	return loc, saved, err
}

func (s *Service) ingest(ctx context.Context, userID string, data GameData) (string, bool, error) {
	if strings.TrimSpace(userID) == "" {
		return "", false, apperr.Validation("validate game", "missing userId")
	}
	n, err := normalize(s.validate, data)
	if err != nil {
		return "", false, err
	}

	wb, err := s.provision(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("opening workbook: %w", err)
	}
	loc := s.location(wb)

	saved, err := s.saveGame(ctx, wb, n.game)
	if err != nil {
		return loc, false, fmt.Errorf("saving game: %w", err)
	}
	if !saved {
		return loc, false, nil
	}
	if err := s.saveRounds(ctx, wb, n.rounds); err != nil {
		return loc, true, fmt.Errorf("saving rounds: %w", err)
	}
	if err := s.saveCountryGuesses(ctx, wb, n.guesses); err != nil {
		return loc, true, fmt.Errorf("saving country guesses: %w", err)
	}
	if err := s.refreshStatistics(ctx, wb); err != nil {
		return loc, true, fmt.Errorf("updating statistics: %w", err)
	}
	if err := s.refreshReport(ctx, wb, n.game.MapName, n.game.Mode); err != nil {
		return loc, true, fmt.Errorf("updating report: %w", err)
	}

	s.logger.Info("game saved",
		zap.String("user", userID),
		zap.String("token", n.game.Token),
		zap.String("map", n.game.MapName),
		zap.String("mode", n.game.Mode),
		zap.Int("rounds", len(n.rounds)),
		zap.Int("guesses", len(n.guesses)),
	)
	return loc, true, nil
}

// provision opens the user's workbook, creating and sharing it on first use.
// If the shared folder cannot be set up the workbook goes to the root folder.
func (s *Service) provision(ctx context.Context, userID string) (store.Workbook, error) {
	folder, err := s.store.EnsureFolder(ctx, s.opts.Folder, store.AccessView)
	if err != nil {
		s.logger.Warn("using root folder", zap.String("folder", s.opts.Folder), zap.Error(err))
		folder = store.RootFolder
	}

	name := WorkbookName(userID)
	wb, err := s.store.Open(ctx, folder, name)
	if err == nil {
		return wb, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	wb, err = s.store.Create(ctx, folder, name)
	if err != nil {
		return nil, err
	}
	if err := s.store.Share(ctx, wb.ID(), store.AccessEdit); err != nil {
		s.logger.Warn("sharing workbook failed", zap.String("workbook", wb.ID()), zap.Error(err))
	}
	s.logger.Info("workbook created", zap.String("user", userID), zap.String("workbook", wb.ID()))
	return wb, nil
}

func (s *Service) location(wb store.Workbook) string {
	return strings.TrimSuffix(s.opts.BaseURL, "/") + "/" + wb.ID()
}

// saveGame appends g unless its token is already in the Games table, then
// keeps the table ordered newest first.
func (s *Service) saveGame(ctx context.Context, wb store.Workbook, g records.GameRecord) (bool, error) {
	if _, err := wb.EnsureTable(ctx, records.TableGames, records.GamesHeader); err != nil {
		return false, err
	}
	rows, err := wb.Rows(ctx, records.TableGames)
	if err != nil {
		return false, err
	}
	if tokenSet(rows)[g.Token] {
		return false, nil
	}
	if err := wb.Append(ctx, records.TableGames, records.EncodeGame(g)); err != nil {
		return false, err
	}
	if err := wb.SortDesc(ctx, records.TableGames, records.GamesColDate); err != nil {
		return true, err
	}
	return true, nil
}

func tokenSet(rows [][]string) map[string]bool {
	tokens := make(map[string]bool, len(rows))
	for i, r := range rows {
		if i == 0 || len(r) <= records.GamesColToken {
			continue
		}
		tokens[r[records.GamesColToken]] = true
	}
	return tokens
}

func (s *Service) saveRounds(ctx context.Context, wb store.Workbook, rounds []records.RoundRecord) error {
	if _, err := wb.EnsureTable(ctx, records.TableRounds, records.RoundsHeader); err != nil {
		return err
	}
	if len(rounds) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(rounds))
	for _, rr := range rounds {
		rows = append(rows, records.EncodeRound(rr))
	}
	return wb.Append(ctx, records.TableRounds, rows...)
}

func (s *Service) saveCountryGuesses(ctx context.Context, wb store.Workbook, pending []pendingGuess) error {
	if _, err := wb.EnsureTable(ctx, records.TableCountryRecognition, records.CountryRecognitionHeader); err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(pending))
	for _, p := range pending {
		guessed := s.geocoder.Country(ctx, p.guess.Lat, p.guess.Lng)
		guess := p.guess
		cg := records.CountryGuessRecord{
			GameToken:      p.round.GameToken,
			Date:           p.round.Date,
			MapName:        p.round.MapName,
			Mode:           p.round.Mode,
			RoundNumber:    p.round.RoundNumber,
			ActualCountry:  p.round.ActualCountry,
			GuessedCountry: guessed,
			IsCorrect:      guessed == p.round.ActualCountry,
			Score:          p.round.Score,
			DistanceMeters: p.round.DistanceMeters,
			Actual:         p.round.Actual,
			Guess:          &guess,
		}
		rows = append(rows, records.EncodeCountryGuess(cg))
	}
	return wb.Append(ctx, records.TableCountryRecognition, rows...)
}

// refreshStatistics rebuilds the Statistics table from the whole history.
func (s *Service) refreshStatistics(ctx context.Context, wb store.Workbook) error {
	games, err := readTable(ctx, wb, records.TableGames, records.DecodeGames)
	if err != nil {
		return err
	}
	guesses, err := readTable(ctx, wb, records.TableCountryRecognition, records.DecodeCountryGuesses)
	if err != nil {
		return err
	}
	rollup := analytics.Aggregate(games, guesses, analytics.DetailFull)
	return wb.Replace(ctx, records.TableStatistics, toCells(analytics.StatisticsRows(rollup)))
}

// refreshReport rebuilds the encountered-countries report for one map and mode.
func (s *Service) refreshReport(ctx context.Context, wb store.Workbook, mapName, modeLabel string) error {
	games, err := readTable(ctx, wb, records.TableGames, records.DecodeGames)
	if err != nil {
		return err
	}
	rounds, err := readTable(ctx, wb, records.TableRounds, records.DecodeRounds)
	if err != nil {
		return err
	}
	rep := analytics.BuildReport(mapName, modeLabel, games, rounds)
	return wb.Replace(ctx, rep.TableName(), toCells(analytics.ReportRows(rep)))
}

func readTable[T any](ctx context.Context, wb store.Workbook, table string, decode func([]records.Row) ([]T, error)) ([]T, error) {
	rows, err := wb.Rows(ctx, table)
	if err != nil {
		return nil, err
	}
	out, err := decode(toRows(rows))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}
	return out, nil
}

func toRows(cells [][]string) []records.Row {
	out := make([]records.Row, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

func toCells(rows []records.Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
