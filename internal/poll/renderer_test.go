package poll

import (
	"strings"
	"testing"
	"time"
)

var testEventDate = time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)

func TestFormatDateRussian(t *testing.T) {
	if got, want := FormatDateRussian(testEventDate), "понедельник, 10 февраля"; got != want {
		t.Errorf("FormatDateRussian = %q, want %q", got, want)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, "░░░░░░░░░░"},
		{66.7, "██████░░░░"},
		{100, "██████████"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.percent); got != tt.want {
			t.Errorf("progressBar(%v) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestRenderPollText(t *testing.T) {
	text, err := RenderPollText(testEventDate)
	if err != nil {
		t.Fatalf("RenderPollText failed: %v", err)
	}
	for _, want := range []string{"понедельник, 10 февраля", "10.02.2025", "К 1", "Ко 2", "Не прихожу"} {
		if !strings.Contains(text, want) {
			t.Errorf("poll text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderResultsText(t *testing.T) {
	empty, err := RenderResultsText(testEventDate, computeTally(nil))
	if err != nil {
		t.Fatalf("RenderResultsText failed: %v", err)
	}
	if !strings.Contains(empty, "Пока никто не отметился") {
		t.Errorf("empty results missing placeholder:\n%s", empty)
	}

	tally := computeTally(map[int64]Vote{
		1: {Option: OptionArriveFirst},
		2: {Option: OptionArriveFirst},
		3: {Option: OptionNotArriving},
	})
	text, err := RenderResultsText(testEventDate, tally)
	if err != nil {
		t.Fatalf("RenderResultsText failed: %v", err)
	}
	for _, want := range []string{"2 (66.7%)", "0 (0.0%)", "1 (33.3%)", "Всего ответило:</b> 3"} {
		if !strings.Contains(text, want) {
			t.Errorf("results missing %q:\n%s", want, text)
		}
	}
}

func TestRenderVotersText(t *testing.T) {
	base := time.Date(2025, 2, 5, 10, 0, 0, 0, time.UTC)
	votes := map[int64]Vote{
		1: {Option: OptionArriveFirst, DisplayName: "Alice", Handle: "alice", CastAt: base.Add(time.Minute)},
		2: {Option: OptionArriveFirst, DisplayName: "Bob", CastAt: base},
		3: {Option: OptionNotArriving, Handle: "carol", CastAt: base},
	}

	text, err := RenderVotersText(testEventDate, votes)
	if err != nil {
		t.Fatalf("RenderVotersText failed: %v", err)
	}
	for _, want := range []string{"• Alice (@alice)", "• Bob", "• @carol", "—"} {
		if !strings.Contains(text, want) {
			t.Errorf("voters missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "Bob") > strings.Index(text, "Alice") {
		t.Error("voters within a group should be ordered by vote time")
	}
}

func TestRenderVotersText_EscapesNames(t *testing.T) {
	text, err := RenderVotersText(testEventDate, map[int64]Vote{
		1: {Option: OptionArriveFirst, DisplayName: "<b>x</b>"},
	})
	if err != nil {
		t.Fatalf("RenderVotersText failed: %v", err)
	}
	if strings.Contains(text, "<b>x</b>") {
		t.Errorf("display name was not escaped:\n%s", text)
	}
}

func TestRenderStatsText_LimitsNames(t *testing.T) {
	votes := make(map[int64]Vote)
	for i := int64(1); i <= 12; i++ {
		votes[i] = Vote{Option: OptionArriveSecond, DisplayName: "User", CastAt: time.Unix(i, 0)}
	}

	text, err := RenderStatsText(testEventDate, votes)
	if err != nil {
		t.Fatalf("RenderStatsText failed: %v", err)
	}
	if got := strings.Count(text, "👤"); got != statsNamesLimit {
		t.Errorf("names shown = %d, want %d", got, statsNamesLimit)
	}
	if !strings.Contains(text, "... и ещё 2") {
		t.Errorf("stats missing hidden counter:\n%s", text)
	}
}

func TestButtonLabel(t *testing.T) {
	row := OptionTally{Option: OptionArriveFirst, Count: 2, Percent: 66.7}
	if got, want := ButtonLabel(row), "✅ К 1 (2 - 66.7%)"; got != want {
		t.Errorf("ButtonLabel = %q, want %q", got, want)
	}
}
