// Package session holds the authenticated identity of each browser session
// and mirrors it into durable storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/gym-admin-console/internal/models"
)

// Status is the hydration state of a store.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
)

// EventType names a session transition.
type EventType string

const (
	EventLogin   EventType = "login"
	EventLogout  EventType = "logout"
	EventExpired EventType = "expired"
)

// Event is published to subscribers on every transition.
type Event struct {
	Type      EventType
	SessionID string
	Identity  *models.Identity
}

const subscriberBuffer = 8

// Store is the identity state of one browser session. It starts in
// StatusLoading and becomes ready once Hydrate reads durable storage.
type Store struct {
	id      string
	storage Storage
	slots   Slots
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.RWMutex
	status   Status
	identity *models.Identity
	token    string
	lastSeen time.Time

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewStore builds an unhydrated store for session id.
func NewStore(id string, storage Storage, slots Slots, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		id:      id,
		storage: storage,
		slots:   slots.withDefaults(),
		logger:  logger,
		now:     time.Now,
		subs:    make(map[int]chan Event),
	}
}

// ID returns the session id.
func (s *Store) ID() string {
	return s.id
}

// Status returns the hydration state.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Loading reports whether hydration has not completed yet.
func (s *Store) Loading() bool {
	return s.Status() == StatusLoading
}

// Identity returns a copy of the current identity, or nil when logged out.
func (s *Store) Identity() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	cp := *s.identity
	cp.Roles = append([]models.Role(nil), s.identity.Roles...)
	return &cp
}

// Token returns the bearer credential, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether an identity is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Hydrate reads identity and token from durable storage. Missing, partial,
// unparsable or expired state is cleared and leaves the store logged out
// without an error. A storage failure keeps the store loading and is
// returned so the caller can retry.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusReady {
		return nil
	}

	rawUser, userFound, err := s.storage.Get(ctx, s.id, s.slots.User)
	if err != nil {
		return err
	}
	token, tokenFound, err := s.storage.Get(ctx, s.id, s.slots.Token)
	if err != nil {
		return err
	}

	s.status = StatusReady
	s.touch()

	if !userFound || !tokenFound || rawUser == "" || token == "" {
		if userFound || tokenFound {
			s.logger.Info("discarding partial session state", zap.String("session_id", s.id))
			s.clearDurable(ctx)
		}
		return nil
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(rawUser), &identity); err != nil {
		s.logger.Warn("discarding unparsable session identity", zap.String("session_id", s.id), zap.Error(err))
		s.clearDurable(ctx)
		return nil
	}
	if identity.ID == "" {
		s.logger.Warn("discarding empty session identity", zap.String("session_id", s.id))
		s.clearDurable(ctx)
		return nil
	}

	if s.tokenExpired(token) {
		s.logger.Info("discarding expired session credential", zap.String("session_id", s.id))
		s.clearDurable(ctx)
		return nil
	}

	identity.Roles = recognisedRoles(identity.Roles)
	s.identity = &identity
	s.token = token
	return nil
}

// Login stores the identity carried by resp with its roles narrowed to the
// recognised vocabulary. Unknown role tags are dropped and logged.
func (s *Store) Login(ctx context.Context, resp models.AuthResponse) (*models.Identity, error) {
	roles, dropped := models.FilterRoles(resp.User.Roles)
	if len(dropped) > 0 {
		s.logger.Warn("dropping unrecognised roles",
			zap.String("user_id", resp.User.ID),
			zap.Strings("roles", dropped))
	}

	identity := &models.Identity{
		ID:        resp.User.ID,
		Email:     resp.User.Email,
		FirstName: resp.User.FirstName,
		LastName:  resp.User.LastName,
		Roles:     roles,
	}
	payload, err := json.Marshal(identity)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.storage.Set(ctx, s.id, s.slots.User, string(payload)); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.storage.Set(ctx, s.id, s.slots.Token, resp.AccessToken); err != nil {
		if rmErr := s.storage.Remove(ctx, s.id, s.slots.User); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		s.mu.Unlock()
		return nil, err
	}
	s.identity = identity
	s.token = resp.AccessToken
	s.status = StatusReady
	s.touch()
	s.mu.Unlock()

	s.publish(Event{Type: EventLogin, SessionID: s.id, Identity: s.Identity()})
	return s.Identity(), nil
}

// Logout forgets the identity in memory and in durable storage.
func (s *Store) Logout(ctx context.Context) error {
	return s.end(ctx, EventLogout)
}

// Invalidate ends the session on behalf of another component, typically the
// transport after the backend rejected the credential.
func (s *Store) Invalidate(ctx context.Context) error {
	return s.end(ctx, EventExpired)
}

// Sync drops the in-memory identity when durable storage no longer holds a
// credential, which happens when the session was ended outside this store.
func (s *Store) Sync(ctx context.Context) error {
	_, found, err := s.storage.Get(ctx, s.id, s.slots.Token)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	s.mu.Lock()
	had := s.identity != nil
	s.identity = nil
	s.token = ""
	s.status = StatusReady
	s.mu.Unlock()

	if had {
		s.publish(Event{Type: EventExpired, SessionID: s.id})
	}
	return nil
}

// Subscribe returns a channel receiving every subsequent transition and a
// function that stops delivery. Slow subscribers miss events rather than
// block the store.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
}

// Close ends every subscription. It is called when the store leaves the
// registry; the store itself stays usable.
func (s *Store) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Store) end(ctx context.Context, kind EventType) error {
	s.mu.Lock()
	had := s.identity != nil
	s.identity = nil
	s.token = ""
	s.status = StatusReady
	err := s.removeSlots(ctx)
	s.mu.Unlock()

	if had || kind == EventLogout {
		s.publish(Event{Type: kind, SessionID: s.id})
	}
	return err
}

func (s *Store) publish(evt Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// clearDurable must be called with mu held.
func (s *Store) clearDurable(ctx context.Context) {
	if err := s.removeSlots(ctx); err != nil {
		s.logger.Warn("failed to clear session slots", zap.String("session_id", s.id), zap.Error(err))
	}
}

func (s *Store) removeSlots(ctx context.Context) error {
	return errors.Join(
		s.storage.Remove(ctx, s.id, s.slots.User),
		s.storage.Remove(ctx, s.id, s.slots.Token),
	)
}

func (s *Store) touch() {
	s.lastSeen = s.now()
}

func (s *Store) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// tokenExpired inspects the exp claim of JWT credentials. The signature is
// not verified; the backend remains the authority on validity. Opaque
// credentials never expire here.
func (s *Store) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

func recognisedRoles(roles []models.Role) []models.Role {
	raw := make([]string, len(roles))
	for i, r := range roles {
		raw[i] = string(r)
	}
	kept, _ := models.FilterRoles(raw)
	return kept
}
