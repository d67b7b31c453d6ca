package storage

import (
	"encoding/json"
	"strconv"
	"time"

	"nuclight.org/attendance/internal/poll"
)

// legacyFile is the single-chat layout written by the first version of the
// bot. Poll ids were unix timestamps and vote times naive ISO strings.
type legacyFile struct {
	ChatID            *int64                `json:"chat_id"`
	LastPollMessageID *int                  `json:"last_poll_message_id"`
	CurrentPollID     *string               `json:"current_poll_id"`
	Votes             map[string]legacyVote `json:"votes"`
}

type legacyVote struct {
	Option    string  `json:"option"`
	Name      string  `json:"name"`
	Username  *string `json:"username"`
	Timestamp string  `json:"timestamp"`
}

var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

func isLegacy(probe map[string]json.RawMessage) bool {
	for _, key := range []string{"chat_id", "current_poll_id", "last_poll_message_id", "votes"} {
		if _, ok := probe[key]; ok {
			return true
		}
	}
	return false
}

// convertLegacy maps the legacy file onto a one-chat snapshot. Votes with a
// bad user id or option are skipped and counted.
func convertLegacy(data []byte) (poll.Snapshot, int, error) {
	var lf legacyFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return poll.Snapshot{}, 0, err
	}

	snap := emptySnapshot()
	if lf.ChatID == nil {
		return snap, len(lf.Votes), nil
	}

	cs := poll.ChatSnapshot{Votes: make(map[int64]poll.Vote, len(lf.Votes))}
	if lf.CurrentPollID != nil {
		cs.CurrentPollID = *lf.CurrentPollID
		if ts, err := strconv.ParseInt(*lf.CurrentPollID, 10, 64); err == nil {
			cs.PollCreatedAt = time.Unix(ts, 0)
		}
	}
	if lf.LastPollMessageID != nil {
		cs.PinnedMessageID = *lf.LastPollMessageID
	}

	skipped := 0
	for key, lv := range lf.Votes {
		userID, err := strconv.ParseInt(key, 10, 64)
		option, oerr := poll.ParseOption(lv.Option)
		if err != nil || oerr != nil {
			skipped++
			continue
		}
		v := poll.Vote{
			Option:      option,
			DisplayName: lv.Name,
			CastAt:      parseLegacyTime(lv.Timestamp),
		}
		if lv.Username != nil {
			v.Handle = poll.NormalizeHandle(*lv.Username)
		}
		cs.Votes[userID] = v
	}

	snap.Chats[*lf.ChatID] = cs
	return snap, skipped, nil
}

func parseLegacyTime(s string) time.Time {
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
