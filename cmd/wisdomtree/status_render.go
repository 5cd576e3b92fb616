package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiDim    = "\x1b[2m"
)

const (
	statusIndent     = "  "
	statusLabelWidth = 14
)

// renderStatusLine prints one "glyph label detail" row. Only the glyph
// carries color so details stay readable on any background.
func renderStatusLine(label string, kind statusKind, detail string, colorize bool) string {
	glyph := statusGlyph(kind)
	if colorize {
		if color := statusColor(kind); color != "" {
			glyph = color + glyph + ansiReset
		}
	}
	line := fmt.Sprintf("%s%s %-*s", statusIndent, glyph, statusLabelWidth, label)
	if detail != "" {
		line += " " + detail
	}
	return strings.TrimRight(line, " ")
}

func statusGlyph(kind statusKind) string {
	switch kind {
	case statusOK:
		return "●"
	case statusWarn:
		return "!"
	case statusError:
		return "✗"
	default:
		return "·"
	}
}

func statusColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiDim
	default:
		return ""
	}
}

// renderSectionHeader underlines the section title.
func renderSectionHeader(title string, colorize bool) []string {
	name := strings.TrimSpace(title)
	rule := strings.Repeat("─", len([]rune(name)))
	if colorize {
		name = ansiCyan + name + ansiReset
		rule = ansiDim + rule + ansiReset
	}
	return []string{name, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
