package poll

import "context"

// IsSuperAdmin reports whether userID is the fixed super-admin.
func (s *Service) IsSuperAdmin(userID int64) bool {
	return userID == s.registry.SuperAdmin()
}

// IsAdmin reports whether userID may run privileged commands in the chat.
func (s *Service) IsAdmin(chatID, userID int64) bool {
	if s.IsSuperAdmin(userID) {
		return true
	}
	st, ok := s.registry.Lookup(chatID)
	return ok && st.IsAdmin(userID)
}

// RequireAdmin returns ErrNotAuthorized unless userID is a chat admin.
// Callers must not perform the guarded action on error.
func (s *Service) RequireAdmin(chatID, userID int64) error {
	if !s.IsAdmin(chatID, userID) {
		return ErrNotAuthorized
	}
	return nil
}

// requireAdminLocked checks the actor against the state being mutated, so a
// concurrent removal of the actor is observed.
func (s *Service) requireAdminLocked(st *ChatState, actorID int64) error {
	if !s.IsSuperAdmin(actorID) && !st.IsAdmin(actorID) {
		return ErrNotAuthorized
	}
	return nil
}

// Admins returns the chat's admins in ascending order.
func (s *Service) Admins(chatID int64) []int64 {
	st := s.registry.GetOrCreate(chatID)
	return st.AdminIDs()
}

// AddAdmin grants userID admin rights in the chat. Any current admin may do so.
func (s *Service) AddAdmin(ctx context.Context, chatID, actorID, userID int64) error {
	err := s.registry.Update(chatID, func(st *ChatState) error {
		if err := s.requireAdminLocked(st, actorID); err != nil {
			return err
		}
		if st.IsAdmin(userID) {
			return ErrAlreadyAdmin
		}
		st.Admins[userID] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

// RemoveAdmin revokes userID's admin rights. The super-admin can never be removed.
func (s *Service) RemoveAdmin(ctx context.Context, chatID, actorID, userID int64) error {
	err := s.registry.Update(chatID, func(st *ChatState) error {
		if err := s.requireAdminLocked(st, actorID); err != nil {
			return err
		}
		if s.IsSuperAdmin(userID) {
			return ErrCannotRemoveSuperAdmin
		}
		if !st.IsAdmin(userID) {
			return ErrNotAdmin
		}
		delete(st.Admins, userID)
		return nil
	})
	if err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}
