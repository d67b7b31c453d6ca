package poll

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var templates embed.FS

// statsNamesLimit caps how many names per option the full stats list shows.
const statsNamesLimit = 10

var pollTmpl, resultsTmpl, votersTmpl, statsTmpl *template.Template

var russianWeekdays = []string{
	"воскресенье",
	"понедельник",
	"вторник",
	"среда",
	"четверг",
	"пятница",
	"суббота",
}

var russianMonths = []string{
	"января",
	"февраля",
	"марта",
	"апреля",
	"мая",
	"июня",
	"июля",
	"августа",
	"сентября",
	"октября",
	"ноября",
	"декабря",
}

var optionHints = map[Option]string{
	OptionArriveFirst:  "приду к первому уроку",
	OptionArriveSecond: "приду ко второму уроку",
	OptionNotArriving:  "не буду",
}

// WeekdayRussian returns the lowercase Russian name of d.
func WeekdayRussian(d time.Weekday) string {
	return russianWeekdays[d]
}

// FormatDateRussian formats a date in Russian locale
// Example: "понедельник, 15 января"
func FormatDateRussian(t time.Time) string {
	return fmt.Sprintf("%s, %d %s", WeekdayRussian(t.Weekday()), t.Day(), russianMonths[t.Month()-1])
}

// progressBar draws a ten-cell bar for a percentage.
func progressBar(percent float64) string {
	filled := int(percent / 10)
	filled = max(0, min(filled, 10))
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

var templateFuncs = template.FuncMap{
	"ruDate": FormatDateRussian,
	"date":   func(t time.Time) string { return t.Format("02.01.2006") },
	"bar":    progressBar,
	"pct":    formatPercent,
	"hint":   func(o Option) string { return optionHints[o] },
}

func init() {
	pollTmpl = mustParse("poll.html")
	resultsTmpl = mustParse("results.html")
	votersTmpl = mustParse("voters.html")
	statsTmpl = mustParse("stats.html")
}

func mustParse(name string) *template.Template {
	t, err := template.New(name).Funcs(templateFuncs).ParseFS(templates, "templates/"+name)
	if err != nil {
		panic(err)
	}
	return t
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// RenderPollText renders the announcement posted with the voting keyboard.
func RenderPollText(eventDate time.Time) (string, error) {
	return render(pollTmpl, struct {
		EventDate time.Time
		Options   []Option
	}{eventDate, Options})
}

// RenderResultsText renders the per-option counts with progress bars.
func RenderResultsText(eventDate time.Time, t Tally) (string, error) {
	return render(resultsTmpl, struct {
		EventDate time.Time
		Tally     Tally
	}{eventDate, t})
}

// RenderVotersText renders who picked which option.
func RenderVotersText(eventDate time.Time, votes map[int64]Vote) (string, error) {
	return render(votersTmpl, struct {
		EventDate time.Time
		Total     int
		Groups    []VoterGroup
	}{eventDate, len(votes), groupVoters(votes)})
}

type statsGroup struct {
	OptionTally
	Names  []string
	Hidden int
}

// RenderStatsText renders counts and up to ten names per option.
func RenderStatsText(eventDate time.Time, votes map[int64]Vote) (string, error) {
	t := computeTally(votes)
	groups := make([]statsGroup, 0, len(Options))
	for _, g := range groupVoters(votes) {
		sg := statsGroup{OptionTally: t.Get(g.Option)}
		for i, v := range g.Voters {
			if i == statsNamesLimit {
				sg.Hidden = len(g.Voters) - statsNamesLimit
				break
			}
			name := v.DisplayName
			if name == "" {
				name = v.Label()
			}
			sg.Names = append(sg.Names, name)
		}
		groups = append(groups, sg)
	}
	return render(statsTmpl, struct {
		EventDate time.Time
		Total     int
		Groups    []statsGroup
	}{eventDate, t.Total, groups})
}

// ButtonLabel is the text of the voting button for one option,
// e.g. "✅ К 1 (2 - 66.7%)".
func ButtonLabel(row OptionTally) string {
	return fmt.Sprintf("%s %s (%d - %s%%)", row.Emoji(), row.Label(), row.Count, formatPercent(row.Percent))
}
