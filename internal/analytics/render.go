package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"geostats/internal/records"
)

const statisticsTitle = "MAP + MODE STATISTICS"

var StatisticsHeader = records.Row{
	"Map Name", "Game Mode", "Total Games", "Avg Score", "Best Score", "Worst Score",
	"Perfect Games", "Perfect Rate %", "Total Distance (km)", "Avg Distance/Game (km)",
	"Countries Analysis", "Most Difficult Country", "Easiest Country", "Total Countries Encountered",
}

var countryHeader = []string{"Country", "Encountered"}

// grid collects cells by position and flattens them into rows.
type grid struct {
	rows []records.Row
}

func (g *grid) set(row, col int, v string) {
	for len(g.rows) <= row {
		g.rows = append(g.rows, records.Row{})
	}
	r := g.rows[row]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = v
	g.rows[row] = r
}

func (g *grid) setRow(row, col int, vals ...string) {
	for i, v := range vals {
		g.set(row, col+i, v)
	}
}

// StatisticsRows renders a rollup as the Statistics table: a title, a
// header row, then one row per map and mode followed by its country
// encounter breakdown in the columns to the right.
func StatisticsRows(r *Rollup) []records.Row {
	g := &grid{}
	g.set(0, 0, statisticsTitle)
	g.set(1, 0, "")
	g.setRow(2, 0, StatisticsHeader...)

	detailCol := len(StatisticsHeader)
	row := 3
	for _, s := range r.Stats {
		g.setRow(row, 0, statisticsLine(s)...)
		if len(s.Countries) > 0 {
			g.setRow(row, detailCol, countryHeader...)
		}
		row++
		for _, c := range EncounterHistogram(s.Countries) {
			g.setRow(row, detailCol, c.Code, strconv.Itoa(c.Count))
			row++
		}
	}
	return g.rows
}

func statisticsLine(s *MapModeStat) []string {
	analysis := "No data"
	if n := len(s.Countries); n > 0 {
		analysis = fmt.Sprintf("%d countries", n)
	}
	return []string{
		s.Key.Map,
		s.Key.Mode,
		strconv.Itoa(s.Games),
		strconv.Itoa(s.AvgScore),
		strconv.Itoa(s.BestScore),
		strconv.Itoa(s.WorstScore),
		strconv.Itoa(s.PerfectGames),
		formatFloat(s.PerfectRatePct),
		formatFloat(s.TotalDistanceKm),
		formatFloat(s.AvgDistanceKm),
		analysis,
		difficultyCell(s.MostDifficult),
		difficultyCell(s.Easiest),
		strconv.Itoa(len(s.Countries)),
	}
}

// difficultyCell renders "FR (50%)", or "N/A" without data.
func difficultyCell(c *CountryStat) string {
	if c == nil {
		return "N/A"
	}
	return fmt.Sprintf("%s (%d%%)", strings.ToUpper(c.Code), int(math.Floor(c.Accuracy()+0.5)))
}

// ReportRows renders a report: title and general statistics at the top,
// the country histogram from the fourth row down.
func ReportRows(rep Report) []records.Row {
	g := &grid{}
	g.set(0, 0, records.DisplayMapName(rep.MapName)+" - "+strings.ToUpper(rep.Slug))
	g.set(0, 3, "GENERAL STATISTICS")

	general := [][2]string{
		{"Total Games:", strconv.Itoa(rep.Games)},
		{"Average Score:", strconv.Itoa(rep.AvgScore)},
		{"Average Distance (km):", formatFloat(rep.AvgDistanceKm)},
		{"Perfect Games:", strconv.Itoa(rep.PerfectGames)},
		{"Perfect Rate (%):", formatFloat(rep.PerfectRatePct)},
	}
	for i, kv := range general {
		g.setRow(1+i, 3, kv[0], kv[1])
	}

	g.setRow(2, 0, countryHeader...)
	for i, c := range rep.Countries {
		g.setRow(3+i, 0, c.Code, strconv.Itoa(c.Count))
	}
	return g.rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
