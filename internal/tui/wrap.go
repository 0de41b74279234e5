package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typetest/internal/model"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
	cursor  bool
}

// buildStyledRunes renders the word list: completed words by letter
// classification, the active word against the input buffer, the rest pending.
func buildStyledRunes(snap model.Snapshot) []styledRune {
	out := make([]styledRune, 0, len(snap.SampleWords)*6)
	active := snap.Status == model.StatusDuring
	cursorNext := false
	for i, word := range snap.SampleWords {
		if i > 0 {
			out = append(out, spaceRune(cursorNext))
			cursorNext = false
		}
		target := []rune(word)
		switch {
		case i < len(snap.CompletedWords):
			out = append(out, typedWord([]rune(snap.CompletedWords[i]), target, false)...)
		case i == snap.CurrentWordIndex && active:
			typed := []rune(snap.InputBuffer)
			out = append(out, typedWord(typed, target, true)...)
			cursorNext = len(typed) >= len(target)
		case i == snap.CurrentWordIndex && snap.Status.Idle():
			out = append(out, pendingWord(target, currentWordStyle, true)...)
		default:
			out = append(out, pendingWord(target, pendingStyle, false)...)
		}
	}
	if cursorNext {
		out = append(out, spaceRune(true))
	}
	return out
}

// typedWord classifies typed against target letter by letter. When live is
// set, untyped target letters are shown as the current word with a cursor.
func typedWord(typed, target []rune, live bool) []styledRune {
	n := max(len(typed), len(target))
	out := make([]styledRune, 0, n)
	for j := 0; j < n; j++ {
		switch {
		case j < len(typed) && j < len(target):
			style := correctStyle
			if typed[j] != target[j] {
				style = incorrectStyle
			}
			out = append(out, letter(target[j], style, false))
		case j < len(typed):
			out = append(out, letter(typed[j], extraStyle, false))
		case live:
			style := currentWordStyle
			if j == len(typed) {
				style = cursorStyle
			}
			out = append(out, letter(target[j], style, j == len(typed)))
		default:
			out = append(out, letter(target[j], missedStyle, false))
		}
	}
	return out
}

func pendingWord(target []rune, style lipgloss.Style, cursorFirst bool) []styledRune {
	out := make([]styledRune, 0, len(target))
	for j, r := range target {
		s := style
		if cursorFirst && j == 0 {
			s = cursorStyle
		}
		out = append(out, letter(r, s, cursorFirst && j == 0))
	}
	return out
}

func letter(r rune, style lipgloss.Style, cursor bool) styledRune {
	return styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r), cursor: cursor}
}

func spaceRune(cursor bool) styledRune {
	style := pendingStyle
	if cursor {
		style = cursorStyle
	}
	return styledRune{s: style.Render(" "), width: 1, isSpace: true, cursor: cursor}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks runes into lines of at most width cells, preferring
// to break at spaces. Break spaces are dropped unless they carry the cursor.
func wrapStyledRunes(runes []styledRune, width int) [][]styledRune {
	if width <= 0 {
		return [][]styledRune{runes}
	}
	var lines [][]styledRune
	line := make([]styledRune, 0, width)
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				lines = append(lines, line)
				line = make([]styledRune, 0, width)
				lineWidth = 0
				lastSpaceIdx = -1
				if !item.cursor {
					i++
				}
				continue
			}
			if lastSpaceIdx > 0 {
				lines = append(lines, line[:lastSpaceIdx:lastSpaceIdx])
				rest := lastSpaceIdx + 1
				if line[lastSpaceIdx].cursor {
					rest = lastSpaceIdx
				}
				line = append([]styledRune{}, line[rest:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				lines = append(lines, line)
				line = make([]styledRune, 0, width)
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(lines, line)
}

// visibleLines returns at most count lines, keeping the cursor line second
// once the test has scrolled past the first line.
func visibleLines(lines [][]styledRune, count int) [][]styledRune {
	if count <= 0 || len(lines) <= count {
		return lines
	}
	cursorLine := 0
	for i, line := range lines {
		for _, item := range line {
			if item.cursor {
				cursorLine = i
			}
		}
	}
	start := max(0, cursorLine-1)
	start = min(start, len(lines)-count)
	return lines[start : start+count]
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
