package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls chart size and appearance.
type PlotOptions struct {
	Title  string
	Width  int
	Height int
	// Color forces ANSI colors even when w is not a terminal.
	Color bool
	// XStart and XEnd label the left and right ends of the x axis.
	XStart string
	XEnd   string
}

type valueRange struct {
	min float64
	max float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 4
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dotted", period: 4, on: 1},
	{name: "dashed", period: 6, on: 3},
}

var seriesColors = []string{
	"\x1b[33m", // yellow
	"\x1b[90m", // grey
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
}

// Plot renders a braille line chart. All series share one y axis whose
// bounds are printed on the left, so WPM and raw WPM stay comparable.
func Plot(w io.Writer, series []Series, opts PlotOptions) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(TerminalWidth())
	}
	width = max(width, minPlotWidth)

	bounds := sharedRange(series)
	resampled := make([]Series, len(series))
	for i, s := range series {
		resampled[i] = Series{Name: s.Name, Values: resample(s.Values, width)}
	}

	layers := make([][][]uint8, len(resampled))
	for i, s := range resampled {
		layers[i] = newGrid(height, width)
		style := lineStyles[i%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			px, py := x*2, dotRow(v, bounds, height*4)
			if prevX < 0 {
				if style.visible(px) {
					setDot(layers[i], px, py)
				}
			} else {
				bresenham(prevX, prevY, px, py, func(dx, dy int) {
					if style.visible(dx) {
						setDot(layers[i], dx, dy)
					}
				})
			}
			prevX, prevY = px, py
		}
	}

	useColor := colorEnabled(w, opts.Color)
	labels := axisLabels(bounds, height)
	var b strings.Builder
	if opts.Title != "" {
		b.WriteString(opts.Title)
		b.WriteByte('\n')
	}
	for y := 0; y < height; y++ {
		fmt.Fprintf(&b, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := mergeCell(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				b.WriteString(seriesColors[owner%len(seriesColors)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	if opts.XStart != "" || opts.XEnd != "" {
		b.WriteString(xAxis(opts.XStart, opts.XEnd, width))
		b.WriteByte('\n')
	}
	b.WriteString(legend(resampled, useColor))
	b.WriteString("\n\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

// TerminalWidth returns the width of stdout or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func colorEnabled(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// sharedRange spans every series and starts at zero for non-negative data.
func sharedRange(series []Series) valueRange {
	r := valueRange{min: math.Inf(1), max: math.Inf(-1)}
	for _, s := range series {
		for _, v := range s.Values {
			r.min = math.Min(r.min, v)
			r.max = math.Max(r.max, v)
		}
	}
	if r.min >= 0 {
		r.min = 0
	}
	if r.max-r.min < 1e-9 {
		r.max = r.min + 1
	}
	return r
}

func axisLabels(r valueRange, height int) []string {
	labels := make([]string, height)
	labels[0] = formatAxisValue(r.max)
	if height > 2 {
		labels[height/2] = formatAxisValue((r.max + r.min) / 2)
	}
	if height > 1 {
		labels[height-1] = formatAxisValue(r.min)
	}
	return labels
}

func formatAxisValue(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	if len(s) > axisLabelWidth {
		return s[:axisLabelWidth]
	}
	return s
}

func xAxis(start, end string, width int) string {
	pad := strings.Repeat(" ", axisLabelWidth+utf8.RuneCountInString(axisSeparator))
	gap := width - utf8.RuneCountInString(start) - utf8.RuneCountInString(end)
	if gap < 1 {
		gap = 1
	}
	return pad + start + strings.Repeat(" ", gap) + end
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2801), s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func newGrid(height, width int) [][]uint8 {
	grid := make([][]uint8, height)
	for y := range grid {
		grid[y] = make([]uint8, width)
	}
	return grid
}

// mergeCell ORs the braille dots of every layer; the first layer with a dot owns the color.
func mergeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, grid := range layers {
		cell := grid[y][x]
		if cell == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= cell
	}
	return mask, owner
}

func (ls lineStyle) visible(x int) bool {
	if ls.period <= 1 {
		return true
	}
	return x%ls.period < ls.on
}

// resample averages buckets when shrinking and interpolates when stretching.
// A stretched series keeps every source value exactly at its nearest column.
func resample(values []float64, width int) []float64 {
	n := len(values)
	out := make([]float64, width)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := max((i+1)*n/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
		for k, v := range values {
			out[int(math.Round(float64(k)*float64(width-1)/float64(n-1)))] = v
		}
	}
	return out
}

func dotRow(v float64, r valueRange, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - r.min) / (r.max - r.min)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// setDot sets one dot of the 2x4 braille cell covering (x, y).
func setDot(grid [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if y < 0 || x < 0 || cy >= len(grid) || cx >= len(grid[cy]) {
		return
	}
	grid[cy][cx] |= brailleBits[x%2][y%4]
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
