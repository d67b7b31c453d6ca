package poll

import "errors"

var (
	ErrNoActivePoll           = errors.New("no active poll")
	ErrStalePoll              = errors.New("vote for a replaced poll")
	ErrInvalidOption          = errors.New("invalid vote option")
	ErrNotAuthorized          = errors.New("not a chat admin")
	ErrCannotRemoveSuperAdmin = errors.New("super-admin cannot be removed")
	ErrAlreadyAdmin           = errors.New("user is already an admin")
	ErrNotAdmin               = errors.New("user is not an admin")
	ErrPersistenceWriteFailed = errors.New("persistence write failed")
)
