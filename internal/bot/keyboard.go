package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/attendance/internal/poll"
)

// Callback uniques. Vote data is "<option>|<pollID>", admin data is the action.
const (
	uniqueVote  = "vote"
	uniqueAdmin = "admin"
)

const (
	adminStats   = "stats"
	adminRefresh = "refresh"
	adminClear   = "clear"
	adminCreate  = "create"
)

var (
	voteBtn  = &tele.Btn{Unique: uniqueVote}
	adminBtn = &tele.Btn{Unique: uniqueAdmin}
)

// pollKeyboard renders one button per option with live counts, plus the
// results shortcut.
func pollKeyboard(pollID string, tally poll.Tally) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(tally.Options)+1)
	for _, row := range tally.Options {
		rows = append(rows, m.Row(m.Data(poll.ButtonLabel(row), uniqueVote, string(row.Option), pollID)))
	}
	rows = append(rows, m.Row(m.Data(MsgResultsButton, uniqueAdmin, adminStats)))
	m.Inline(rows...)
	return m
}

func adminPanelKeyboard() *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{}
	m.Inline(
		m.Row(m.Data(MsgPanelStats, uniqueAdmin, adminStats)),
		m.Row(m.Data(MsgPanelRefresh, uniqueAdmin, adminRefresh)),
		m.Row(m.Data(MsgPanelClear, uniqueAdmin, adminClear)),
		m.Row(m.Data(MsgPanelCreate, uniqueAdmin, adminCreate)),
	)
	return m
}

// parseVoteData splits "<option>|<pollID>". Buttons from before poll ids
// were attached carry only the option.
func parseVoteData(data string) (poll.Option, string, error) {
	code, pollID, _ := strings.Cut(data, "|")
	option, err := poll.ParseOption(code)
	if err != nil {
		return "", "", err
	}
	return option, pollID, nil
}
