package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/engine"
	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

const (
	visibleRows = 3
	chartHeight = 8
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	extraStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B2E30"))
	missedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Underline(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	activeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	timerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.snap.SampleWords) == 0 {
		return errorStyle.Render("No words available for set " + m.snap.Options.WordSet)
	}
	contentWidth := m.contentWidth()
	var body string
	if m.snap.Status == model.StatusAfter && m.result != nil {
		body = m.renderResult(contentWidth)
	} else {
		body = m.renderTyping(contentWidth)
	}
	content := lipgloss.NewStyle().Width(contentWidth).Render(body)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	footerHeight := lipgloss.Height(footer)
	bodyHeight := max(1, m.height-footerHeight)
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 80
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderTyping(width int) string {
	lines := wrapStyledRunes(buildStyledRunes(m.snap), width)
	rendered := make([]string, 0, visibleRows)
	for _, line := range visibleLines(lines, visibleRows) {
		rendered = append(rendered, renderStyledRunes(line))
	}
	return strings.Join([]string{
		m.renderConfigBar(),
		"",
		m.renderProgress(),
		strings.Join(rendered, "\n"),
	}, "\n")
}

func (m *Model) renderConfigBar() string {
	opts := m.snap.Options
	modes := []string{
		choice(string(model.ModeWords), opts.Mode == model.ModeWords),
		choice(string(model.ModeTime), opts.Mode == model.ModeTime),
	}
	var lengths []string
	if opts.Mode == model.ModeTime {
		for _, p := range engine.TimeLimitPresets {
			lengths = append(lengths, choice(fmt.Sprintf("%ds", p), p == opts.TimeLimitSeconds))
		}
	} else {
		for _, p := range engine.WordCountPresets {
			lengths = append(lengths, choice(fmt.Sprintf("%d", p), p == opts.WordCount))
		}
	}
	save := "save off"
	if m.config.Save {
		save = "save on"
	}
	sep := labelStyle.Render(" │ ")
	return strings.Join([]string{
		strings.Join(modes, " "),
		strings.Join(lengths, " "),
		activeStyle.Render(opts.WordSet),
		labelStyle.Render(save),
	}, sep)
}

func choice(label string, active bool) string {
	if active {
		return activeStyle.Render(label)
	}
	return labelStyle.Render(label)
}

func (m *Model) renderProgress() string {
	if m.snap.Status.Idle() {
		return " "
	}
	if m.snap.Options.Mode == model.ModeTime {
		return timerStyle.Render(fmt.Sprintf("%d", m.snap.Seconds))
	}
	return timerStyle.Render(fmt.Sprintf("%d/%d", m.snap.CurrentWordIndex, len(m.snap.SampleWords)))
}

func (m *Model) renderResult(width int) string {
	res := m.result
	stat := func(label, value string) string {
		return labelStyle.Render(label) + " " + valueStyle.Render(value)
	}
	headline := strings.Join([]string{
		stat("wpm", fmt.Sprintf("%d", res.WPM)),
		stat("acc", fmt.Sprintf("%d%%", res.Accuracy)),
	}, "   ")
	details := strings.Join([]string{
		stat("raw", fmt.Sprintf("%d", res.RawWPM)),
		stat("characters", stats.CharsLabel(res.LetterCount)),
		stat("time", stats.FormatDuration(res.DurationSeconds)),
		stat("test", stats.ModeLabel(res.Mode, res.TimeLimitSeconds, res.WordCount)+" "+res.WordSet),
	}, "   ")

	parts := []string{headline, details}
	if m.hasPrevPB && res.WPM > m.prevBest {
		parts = append(parts, activeStyle.Render(fmt.Sprintf("new personal best! (previous %d wpm)", m.prevBest)))
	}
	var chart bytes.Buffer
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: chartHeight, Color: true}
	if err := stats.RenderSamples(&chart, res.Samples, opts); err != nil {
		logErrf("failed to render chart: %v\n", err)
	}
	if chart.Len() > 0 {
		parts = append(parts, "", strings.TrimRight(chart.String(), "\n"))
	}
	if status := m.renderSaveStatus(); status != "" {
		parts = append(parts, "", status)
	}
	return strings.Join(parts, "\n")
}

func (m *Model) renderSaveStatus() string {
	switch m.save {
	case savePending:
		return labelStyle.Render("saving...")
	case saveDone:
		return labelStyle.Render("saved")
	case saveSkipped:
		return labelStyle.Render("not saved")
	case saveFailed:
		return errorStyle.Render(fmt.Sprintf("save failed: %v", m.saveErr))
	default:
		return ""
	}
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if pb, ok := m.currentBest(); ok {
		segments = append(segments, fmt.Sprintf("PB %d WPM · %d%%", pb.WPM, pb.Accuracy))
	}
	if m.last != nil {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %d%%", m.last.WPM, m.last.Accuracy))
	}
	line := footerStyle.Render(strings.Join(segments, "  "))
	return line + "\n" + m.help.View(m.keys)
}

func (m *Model) currentBest() (model.PersonalBest, bool) {
	opts := m.snap.Options
	probe := model.Result{Mode: opts.Mode, TimeLimitSeconds: opts.TimeLimitSeconds, WordCount: opts.WordCount}
	for _, pb := range m.bests {
		if sameConfig(pb, probe) {
			return pb, true
		}
	}
	return model.PersonalBest{}, false
}
