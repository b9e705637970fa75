package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/sma-discipline-api/internal/models"
)

// ErrNotFound is returned by lookups and updates that target an id (or
// credential pair) with no matching record.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyAppealed is returned by SubmitAppeal when the target action
// already carries an appeal link.
var ErrAlreadyAppealed = errors.New("action already appealed")

// Store is the in-memory record store backing the disciplinary tracker.
// It owns three related collections (users, disciplinary actions, appeals)
// and keeps their cross-collection invariants: deleting a user removes the
// user's cases and appeals, deleting a case removes its appeals, and an
// appealed case always references an existing appeal.
//
// All state lives behind one handle constructed at startup; nothing is
// persisted across restarts. A RWMutex guards the collections because the
// HTTP layer serves requests concurrently.
type Store struct {
	mu       sync.RWMutex
	users    []models.User
	actions  []models.DisciplinaryAction
	appeals  []models.Appeal
	revision uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Revision returns a counter bumped by every mutating call. Clients compare
// it against the revision they last fetched to detect stale views; there is
// no push mechanism, re-fetching is the caller's responsibility.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *Store) bump() {
	s.revision++
}

// ListUsers returns all users in insertion order.
func (s *Store) ListUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// GetUser returns the user with the given id.
func (s *Store) GetUser(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// FindByCredentials performs a case-sensitive exact match on email, password
// and role across all users and returns the first match. Passwords are
// compared in the clear; rate limiting and lockout are out of scope.
func (s *Store) FindByCredentials(email, password string, role models.UserRole) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		u := s.users[i]
		if u.Email == email && u.Password == password && u.Role == role {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// UpsertUser merges the non-empty fields of user into the existing record
// when user.ID matches one, otherwise assigns a fresh id and appends.
// It returns the stored user and whether a new record was created.
func (s *Store) UpsertUser(user models.User) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID != "" {
		for i := range s.users {
			if s.users[i].ID != user.ID {
				continue
			}
			existing := &s.users[i]
			if user.Name != "" {
				existing.Name = user.Name
			}
			if user.Role != "" {
				existing.Role = user.Role
			}
			if user.Email != "" {
				existing.Email = user.Email
			}
			if user.Password != "" {
				existing.Password = user.Password
			}
			s.bump()
			u := *existing
			return &u, false
		}
	}
	user.ID = uuid.NewString()
	s.users = append(s.users, user)
	s.bump()
	u := user
	return &u, true
}

// DeleteUser removes the user and cascades: every disciplinary action with a
// matching StudentID and every appeal with a matching StudentID go with it.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.users {
		if s.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.users = append(s.users[:idx], s.users[idx+1:]...)

	kept := s.actions[:0]
	for _, a := range s.actions {
		if a.StudentID != id {
			kept = append(kept, a)
		}
	}
	s.actions = kept

	keptAppeals := s.appeals[:0]
	for _, a := range s.appeals {
		if a.StudentID != id {
			keptAppeals = append(keptAppeals, a)
		}
	}
	s.appeals = keptAppeals
	s.bump()
	return nil
}

// ListActions returns all disciplinary actions in insertion order.
func (s *Store) ListActions() []models.DisciplinaryAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DisciplinaryAction, len(s.actions))
	copy(out, s.actions)
	return out
}

// GetAction returns the disciplinary action with the given id.
func (s *Store) GetAction(id string) (*models.DisciplinaryAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.actions {
		if s.actions[i].ID == id {
			a := s.actions[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// CreateAction assigns a fresh id, appends the action and returns the stored
// record. The caller resolves StudentName from the current user beforehand.
func (s *Store) CreateAction(action models.DisciplinaryAction) *models.DisciplinaryAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	action.ID = uuid.NewString()
	s.actions = append(s.actions, action)
	s.bump()
	a := action
	return &a
}

// UpdateAction fully replaces the record matching action.ID. A miss returns
// ErrNotFound rather than silently discarding the change.
func (s *Store) UpdateAction(action models.DisciplinaryAction) (*models.DisciplinaryAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.actions {
		if s.actions[i].ID == action.ID {
			s.actions[i] = action
			s.bump()
			a := action
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteAction removes the action and cascades to every appeal referencing it.
func (s *Store) DeleteAction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.actions {
		if s.actions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	s.actions = append(s.actions[:idx], s.actions[idx+1:]...)

	kept := s.appeals[:0]
	for _, a := range s.appeals {
		if a.DisciplinaryActionID != id {
			kept = append(kept, a)
		}
	}
	s.appeals = kept
	s.bump()
	return nil
}

// ListAppeals returns all appeals in insertion order.
func (s *Store) ListAppeals() []models.Appeal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Appeal, len(s.appeals))
	copy(out, s.appeals)
	return out
}

// GetAppeal returns the appeal with the given id.
func (s *Store) GetAppeal(id string) (*models.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.appeals {
		if s.appeals[i].ID == id {
			a := s.appeals[i]
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// CreateAppeal assigns a fresh id, appends the appeal and returns the stored
// record. It does not touch the linked disciplinary action; SubmitAppeal is
// the operation that keeps both collections consistent.
func (s *Store) CreateAppeal(appeal models.Appeal) *models.Appeal {
	s.mu.Lock()
	defer s.mu.Unlock()
	appeal.ID = uuid.NewString()
	s.appeals = append(s.appeals, appeal)
	s.bump()
	a := appeal
	return &a
}

// UpdateAppeal fully replaces the record matching appeal.ID. Same miss
// semantics as UpdateAction.
func (s *Store) UpdateAppeal(appeal models.Appeal) (*models.Appeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appeals {
		if s.appeals[i].ID == appeal.ID {
			s.appeals[i] = appeal
			s.bump()
			a := appeal
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// SubmitAppeal files an appeal against an existing disciplinary action as a
// single atomic mutation: the appeal is stored with status Pending and the
// action transitions to Appealed with AppealID set. When the action does not
// exist nothing is mutated, closing the inconsistency window a two-call
// protocol would leave open.
func (s *Store) SubmitAppeal(appeal models.Appeal) (*models.Appeal, *models.DisciplinaryAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i := range s.actions {
		if s.actions[i].ID == appeal.DisciplinaryActionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, ErrNotFound
	}
	if s.actions[idx].AppealID != "" {
		return nil, nil, ErrAlreadyAppealed
	}

	appeal.ID = uuid.NewString()
	appeal.Status = models.AppealPending
	s.appeals = append(s.appeals, appeal)

	s.actions[idx].Status = models.CaseAppealed
	s.actions[idx].AppealID = appeal.ID
	s.bump()

	ap := appeal
	ac := s.actions[idx]
	return &ap, &ac, nil
}
