package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Mode", "WPM", "Acc"}
	rows := [][]string{
		{"time 15s", "72", "98%"},
		{"words 100", "8", "100%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Mode      WPM  Acc" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "time 15s   72  98%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "words 100   8 100%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Set"}, [][]string{{"日本"}, {"go"}}, nil)
	if lines[2] != "go  " {
		t.Fatalf("expected padding by display width, got %q", lines[2])
	}
}
