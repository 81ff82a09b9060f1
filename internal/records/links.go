package records

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	mapURLTemplate      = "https://www.geoguessr.com/maps/%s"
	locationURLTemplate = "https://www.google.com/maps/@?api=1&map_action=pano&viewpoint=%s,%s&heading=0&pitch=0"

	maxTableNameLen = 95
)

var (
	viewpointRe   = regexp.MustCompile(`viewpoint=(-?[0-9.]+),(-?[0-9.]+)`)
	tableNameBad  = regexp.MustCompile(`[\\/?*\[\]:]`)
	unknownMapTxt = "Unknown Map"
)

func hyperlink(url, label string) string {
	return fmt.Sprintf(`=HYPERLINK("%s";"%s")`, url, label)
}

// MapLink is the display cell for a map, empty without a map id.
func MapLink(mapID string) string {
	if mapID == "" {
		return ""
	}
	return hyperlink(fmt.Sprintf(mapURLTemplate, mapID), "Map Link")
}

// LocationLink is the street-view display cell for c, empty when c is nil.
func LocationLink(c *Coord, label string) string {
	if c == nil {
		return ""
	}
	lat := strconv.FormatFloat(c.Lat, 'f', -1, 64)
	lng := strconv.FormatFloat(c.Lng, 'f', -1, 64)
	return hyperlink(fmt.Sprintf(locationURLTemplate, lat, lng), label)
}

// ParseLocationLink recovers the coordinates embedded by LocationLink.
func ParseLocationLink(cell string) *Coord {
	m := viewpointRe.FindStringSubmatch(cell)
	if m == nil {
		return nil
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	return &Coord{Lat: lat, Lng: lng}
}

// SanitizeTableName replaces characters not allowed in table names and
// truncates to the maximum length.
func SanitizeTableName(name string) string {
	name = strings.TrimSpace(tableNameBad.ReplaceAllString(name, " "))
	if r := []rune(name); len(r) > maxTableNameLen {
		name = string(r[:maxTableNameLen])
	}
	return name
}

// DisplayMapName substitutes a placeholder for games without a map name.
func DisplayMapName(name string) string {
	if name == "" {
		return unknownMapTxt
	}
	return name
}
