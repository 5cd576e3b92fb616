package tree

import (
	"math/rand"
	"time"
)

// Season names the ambient weather drawn behind the tree. One season is
// picked per calendar day so the scene stays stable across restarts.
type Season string

const (
	SeasonRain      Season = "rain"
	SeasonLightRain Season = "light_rain"
	SeasonHeavyRain Season = "heavy_rain"
	SeasonSnow      Season = "snow"
	SeasonWindy     Season = "windy"
)

var seasons = []Season{SeasonRain, SeasonLightRain, SeasonHeavyRain, SeasonSnow, SeasonWindy}

// SeasonForDate picks the season for the calendar day of t. The choice is
// deterministic for a given day.
func SeasonForDate(t time.Time) Season {
	seed := int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
	rng := rand.New(rand.NewSource(seed))
	return seasons[rng.Intn(len(seasons))]
}

// seasonParams controls how dense and fast the weather falls and which
// glyph draws a single cell.
type seasonParams struct {
	glyph   rune
	density float64
	// bucketMillis groups frames into animation steps. Smaller buckets
	// fall faster.
	bucketMillis int64
}

var paramsBySeason = map[Season]seasonParams{
	SeasonRain:      {glyph: '\'', density: 0.04, bucketMillis: 300},
	SeasonLightRain: {glyph: '`', density: 0.02, bucketMillis: 450},
	SeasonHeavyRain: {glyph: '|', density: 0.09, bucketMillis: 200},
	SeasonSnow:      {glyph: '*', density: 0.03, bucketMillis: 600},
	SeasonWindy:     {glyph: '-', density: 0.02, bucketMillis: 250},
}

// Cell is one weather particle positioned on the terminal grid.
type Cell struct {
	X     int
	Y     int
	Glyph rune
}

// Cells returns the weather particles for the frame containing t on a grid
// of the given size. Frames within the same animation bucket return the
// same particles, so repeated draws between ticks do not flicker.
func Cells(season Season, t time.Time, width, height int) []Cell {
	if width <= 0 || height <= 0 {
		return nil
	}
	p, ok := paramsBySeason[season]
	if !ok {
		return nil
	}
	bucket := t.UnixMilli() / p.bucketMillis
	rng := rand.New(rand.NewSource(bucket))

	count := int(float64(width*height) * p.density)
	if count < 1 {
		count = 1
	}
	cells := make([]Cell, 0, count)
	for i := 0; i < count; i++ {
		cells = append(cells, Cell{
			X:     rng.Intn(width),
			Y:     rng.Intn(height),
			Glyph: p.glyph,
		})
	}
	return cells
}
