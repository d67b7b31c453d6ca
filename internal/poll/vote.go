package poll

import (
	"strings"
	"time"
)

// Vote is one user's latest answer in a chat. Name and handle are copied at
// vote time and are not refreshed if the user renames later.
type Vote struct {
	Option      Option    `json:"option"`
	DisplayName string    `json:"name"`
	Handle      string    `json:"username,omitempty"`
	CastAt      time.Time `json:"timestamp"`
}

// NormalizeHandle strips a leading @ from a Telegram username.
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// Label returns the voter line used in lists: "Name (@handle)" or just the name.
func (v Vote) Label() string {
	name := v.DisplayName
	if name == "" && v.Handle != "" {
		return "@" + v.Handle
	}
	if v.Handle != "" {
		return name + " (@" + v.Handle + ")"
	}
	return name
}
