package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"wisdomtree/internal/tree"
)

var (
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	menuStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("215")).Bold(true)
	weatherHue  = map[tree.Season]lipgloss.Style{
		tree.SeasonRain:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		tree.SeasonLightRain: lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		tree.SeasonHeavyRain: lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		tree.SeasonSnow:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		tree.SeasonWindy:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
)

func presetLabel(work, brk int) string {
	if brk > 0 {
		return fmt.Sprintf("%dm focus / %dm break", work, brk)
	}
	return fmt.Sprintf("%dm focus", work)
}

// View renders the full scene.
func (m Model) View() string {
	width, height := m.width, m.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	switch m.mode {
	case modeMenu:
		return m.menuView(width, height)
	case modeStations:
		return m.stationView(width, height)
	}
	return m.sceneView(width, height)
}

// sceneView composes the weather grid, the tree, the quote, and the
// status bar onto a rune canvas. Overlays are stamped in that order so
// the tree always wins over a raindrop occupying the same cell.
func (m Model) sceneView(width, height int) string {
	sceneHeight := height - 2
	if sceneHeight < 4 {
		sceneHeight = 4
	}

	canvas := make([][]rune, sceneHeight)
	for y := range canvas {
		canvas[y] = make([]rune, width)
		for x := range canvas[y] {
			canvas[y][x] = ' '
		}
	}

	season := tree.Season(m.status.Season)
	for _, cell := range tree.Cells(season, time.Now(), width, sceneHeight) {
		if cell.Y >= 0 && cell.Y < sceneHeight && cell.X >= 0 && cell.X < width {
			canvas[cell.Y][cell.X] = cell.Glyph
		}
	}

	art, err := tree.Art(tree.Stage(m.status.TreeStage))
	if err != nil {
		art = []string{"______"}
	}
	stampCentered(canvas, art, sceneHeight-len(art)-1)

	timerLine := m.timerLine()
	if timerLine != "" {
		stampCentered(canvas, []string{timerLine}, 1)
	}

	if m.notice != "" {
		stampCentered(canvas, []string{m.notice}, 2)
	}

	quote := m.lastQuote
	if m.quoteShown < len(m.quoteRunes) {
		quote = string(m.quoteRunes[:m.quoteShown])
	}
	if quote != "" {
		for i, line := range wrapText(quote, width-8) {
			stampCentered(canvas, []string{line}, 3+i)
		}
	}

	var b strings.Builder
	weatherStyle, hasHue := weatherHue[season]
	for y, row := range canvas {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(colorizeRow(row, weatherStyle, hasHue, season))
	}
	b.WriteByte('\n')
	b.WriteString(m.statusBar(width))
	return b.String()
}

// colorizeRow styles weather glyphs and leaves everything else plain.
// Rows without any weather glyph skip the style pass entirely.
func colorizeRow(row []rune, style lipgloss.Style, hasHue bool, season tree.Season) string {
	line := string(row)
	if !hasHue {
		return line
	}
	glyph := weatherGlyph(season)
	if glyph == 0 || !strings.ContainsRune(line, glyph) {
		return line
	}
	var b strings.Builder
	for _, r := range line {
		if r == glyph {
			b.WriteString(style.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func weatherGlyph(season tree.Season) rune {
	switch season {
	case tree.SeasonRain:
		return '\''
	case tree.SeasonLightRain:
		return '`'
	case tree.SeasonHeavyRain:
		return '|'
	case tree.SeasonSnow:
		return '*'
	case tree.SeasonWindy:
		return '-'
	}
	return 0
}

// timerLine is stamped into the rune canvas, so it stays unstyled;
// ANSI escapes would throw off the centering math.
func (m Model) timerLine() string {
	t := m.status.Timer
	switch t.Phase {
	case "work", "break":
		remaining := time.Duration(t.RemainingSeconds) * time.Second
		label := fmt.Sprintf("%s %s %s", strings.ToUpper(t.Phase), formatCountdown(remaining), t.Preset)
		if t.Paused {
			label += "  [paused]"
		}
		return label
	case "break_over":
		return fmt.Sprintf("BREAK OVER %s  enter to go again", t.Preset)
	}
	return ""
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func (m Model) statusBar(width int) string {
	parts := []string{
		fmt.Sprintf("tree age %d", m.status.TreeAge),
		fmt.Sprintf("season %s", m.status.Season),
	}
	switch {
	case m.status.Radio.Playing:
		parts = append(parts, "radio "+m.status.Radio.Station)
	case m.status.Player.Playing:
		track := m.status.Player.Track
		if m.status.Player.Paused {
			track += " [paused]"
		}
		parts = append(parts, "playing "+track)
	}
	parts = append(parts, volumeBar(m.status.Player.Volume, m.status.Player.Muted))
	if m.err != nil {
		parts = append(parts, "error: "+m.err.Error())
	}
	line := strings.Join(parts, "  |  ")
	if runes := []rune(line); len(runes) > width && width > 3 {
		line = string(runes[:width-3]) + "..."
	}
	return barStyle.Render(line)
}

// volumeBar renders a ten-slot volume gauge.
func volumeBar(volume int, muted bool) string {
	if muted {
		return "vol muted"
	}
	filled := volume / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return fmt.Sprintf("vol [%s%s] %d", strings.Repeat("=", filled), strings.Repeat(" ", 10-filled), volume)
}

func (m Model) menuView(width, height int) string {
	var b strings.Builder
	b.WriteString("Start a focus session\n\n")
	for i, entry := range m.menu {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + entry.label))
		} else {
			b.WriteString("  " + entry.label)
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nenter to start, esc to cancel")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, menuStyle.Render(b.String()))
}

func (m Model) stationView(width, height int) string {
	var b strings.Builder
	b.WriteString("Tune a radio station\n\n")
	if len(m.stations) == 0 {
		b.WriteString("  no stations configured\n")
	}
	for i, station := range m.stations {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + station.Name))
		} else {
			b.WriteString("  " + station.Name)
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nenter to tune, esc to cancel")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, menuStyle.Render(b.String()))
}

// stampCentered overwrites canvas rows with the block centered
// horizontally, starting at row top. Lines that fall outside the canvas
// are dropped.
func stampCentered(canvas [][]rune, block []string, top int) {
	if len(canvas) == 0 {
		return
	}
	width := len(canvas[0])
	for i, line := range block {
		y := top + i
		if y < 0 || y >= len(canvas) {
			continue
		}
		runes := []rune(line)
		start := (width - len(runes)) / 2
		if start < 0 {
			start = 0
		}
		for x, r := range runes {
			if start+x >= width {
				break
			}
			canvas[y][start+x] = r
		}
	}
}

// wrapText breaks s into lines no wider than limit, splitting on
// spaces.
func wrapText(s string, limit int) []string {
	if limit < 10 {
		limit = 10
	}
	words := strings.Fields(s)
	var lines []string
	var current string
	for _, word := range words {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= limit:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
