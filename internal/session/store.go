package session

import (
	"encoding/json"
	"sync"

	"taskdeck/internal/models"
	"taskdeck/internal/state"
)

// Store abstracts where the authentication token and cached profile live.
// Exactly one policy is active per deployment: DurableStore survives
// restarts, MemoryStore lives for the process only.
type Store interface {
	// Load returns the stored session, or nil when none is stored or the
	// stored data is malformed. It never fails loudly.
	Load() *models.Session
	Save(s models.Session) error
	Clear() error
}

const (
	settingToken = "auth_token"
	settingUser  = "auth_user"
)

// DurableStore persists the session in the local state database.
type DurableStore struct {
	db *state.DB
}

func NewDurableStore(db *state.DB) *DurableStore {
	return &DurableStore{db: db}
}

func (s *DurableStore) Load() *models.Session {
	token, err := s.db.GetSetting(settingToken)
	if err != nil || token == "" {
		return nil
	}
	raw, err := s.db.GetSetting(settingUser)
	if err != nil || raw == "" {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// A corrupt profile degrades to "not authenticated"
		return nil
	}
	return &models.Session{Token: token, User: user}
}

func (s *DurableStore) Save(sess models.Session) error {
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	if err := s.db.SetSetting(settingToken, sess.Token); err != nil {
		return err
	}
	return s.db.SetSetting(settingUser, string(raw))
}

func (s *DurableStore) Clear() error {
	if err := s.db.DeleteSetting(settingToken); err != nil {
		return err
	}
	return s.db.DeleteSetting(settingUser)
}

// MemoryStore holds the session for the lifetime of the process, the
// session-scoped policy. The platform clears it by the process exiting;
// logout still clears explicitly.
type MemoryStore struct {
	mu   sync.Mutex
	sess *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil
	}
	copied := *s.sess
	return &copied
}

func (s *MemoryStore) Save(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = &sess
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = nil
	return nil
}
