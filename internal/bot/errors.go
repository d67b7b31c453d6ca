package bot

import (
	"errors"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/attendance/internal/duration"
	"nuclight.org/attendance/internal/poll"
)

// UserError represents an error that should be shown to the user.
// The message is safe to display directly.
type UserError struct {
	Message string // User-friendly message to display
	Cause   error  // Original error for logging (optional)
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// UserErrorf creates a new user-facing error with a formatted message.
func UserErrorf(format string, args ...any) *UserError {
	return &UserError{
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapUserError wraps an internal error with a user-friendly message.
// The cause is logged, the message is shown.
func WrapUserError(message string, cause error) *UserError {
	return &UserError{
		Message: message,
		Cause:   cause,
	}
}

func IsUserError(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr)
}

// domainMessages maps rejections from the poll engine and the duration
// parser to what the user sees. They are user mistakes and are not logged.
var domainMessages = []struct {
	err error
	msg string
}{
	{poll.ErrNotAuthorized, MsgNotAuthorized},
	{poll.ErrNoActivePoll, MsgNoActivePoll},
	{poll.ErrStalePoll, MsgStalePoll},
	{poll.ErrInvalidOption, MsgInvalidOption},
	{poll.ErrCannotRemoveSuperAdmin, MsgCannotRemoveSuperAdmin},
	{poll.ErrAlreadyAdmin, MsgAlreadyAdmin},
	{poll.ErrNotAdmin, MsgNotAdmin},
	{duration.ErrInvalidDuration, MsgInvalidDuration},
}

func domainMessage(err error) (string, bool) {
	for _, dm := range domainMessages {
		if errors.Is(err, dm.err) {
			return dm.msg, true
		}
	}
	return "", false
}

// GetUserMessage extracts the user-friendly message from an error.
// Unknown errors get a generic internal error message.
func GetUserMessage(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Message
	}
	if msg, ok := domainMessage(err); ok {
		return msg
	}
	return MsgInternalError
}

// ShouldLog returns true if the error should be logged.
// UserErrors without a cause and domain rejections are user mistakes.
func ShouldLog(err error) bool {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Cause != nil
	}
	if _, ok := domainMessage(err); ok {
		return false
	}
	return true
}

// HandleErrors logs handler failures and shows the user-facing message,
// as a reply for commands and as an alert for button presses.
func (b *Bot) HandleErrors() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			if ShouldLog(err) {
				b.logger.Error("handler failed",
					"user_id", senderID(c),
					"chat_id", chatID(c),
					"error", err,
				)
			}

			msg := GetUserMessage(err)
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: msg, ShowAlert: true})
			}
			return c.Send(msg)
		}
	}
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func chatID(c tele.Context) int64 {
	if ch := c.Chat(); ch != nil {
		return ch.ID
	}
	return 0
}
