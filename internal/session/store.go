// Package session holds the signed-in account of a running QuitQ client.
//
// A Store is created once at startup, rehydrated from durable storage with
// Initialize, and shared by reference with every view. Views read immutable
// State snapshots and change the session only through Login and Logout.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quitq-dev/quitq/internal/models"
)

// ErrInvalidSession is returned by Login when the credential or identity is unusable
var ErrInvalidSession = errors.New("invalid session")

// undefinedIdentity is what the browser client wrote when it serialised a missing user
const undefinedIdentity = "undefined"

// State is a snapshot of the session. Credential and Identity are either both
// set or both empty.
type State struct {
	Credential string
	Identity   *models.Identity
	Loading    bool
}

// Authenticated reports whether the snapshot holds a signed-in account
func (s State) Authenticated() bool {
	return s.Identity != nil
}

// Role returns the role of the signed-in account, or "" when signed out
func (s State) Role() models.Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// Store is the single source of truth for who is signed in
type Store struct {
	storage Storage
	log     zerolog.Logger
	now     func() time.Time

	initOnce sync.Once

	mu         sync.RWMutex
	credential string
	identity   *models.Identity
	loading    bool
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used to check credential expiry
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty Store in the loading state
func NewStore(storage Storage, zlog zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		log:     zlog.With().Str("component", "session").Logger(),
		now:     time.Now,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{Credential: s.credential, Loading: s.loading}
	if s.identity != nil {
		id := *s.identity
		st.Identity = &id
	}
	return st
}

// Credential returns the current bearer credential, or "" when signed out
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// Initialize rehydrates the session from durable storage. Only the first call
// has any effect. Failures leave the session empty and are logged, never returned.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		credential, identity := s.rehydrate(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if identity != nil {
			s.credential = credential
			s.identity = identity
		}
		s.loading = false
	})
}

// rehydrate reads and validates the persisted pair. It returns an empty pair
// when nothing usable is stored.
func (s *Store) rehydrate(ctx context.Context) (string, *models.Identity) {
	credential, credErr := s.storage.Get(ctx, KeyCredential)
	rawIdentity, idErr := s.storage.Get(ctx, KeyIdentity)

	for _, err := range []error{credErr, idErr} {
		if err != nil && !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Msg("Failed to read persisted session, starting signed out")
			return "", nil
		}
	}

	credential = StripBearer(credential)
	hasCredential := credErr == nil && credential != ""
	hasIdentity := idErr == nil && rawIdentity != ""

	if !hasCredential && !hasIdentity {
		s.log.Debug().Msg("No persisted session")
		return "", nil
	}

	if !hasCredential || !hasIdentity || rawIdentity == undefinedIdentity {
		s.log.Warn().
			Bool("has_credential", hasCredential).
			Bool("has_identity", hasIdentity).
			Msg("Discarding incomplete persisted session")
		s.discard(ctx)
		return "", nil
	}

	var identity models.Identity
	if err := json.Unmarshal([]byte(rawIdentity), &identity); err != nil {
		s.log.Warn().Err(err).Msg("Failed to parse persisted identity, discarding session")
		s.discard(ctx)
		return "", nil
	}
	if err := identity.Validate(); err != nil {
		s.log.Warn().Err(err).Msg("Persisted identity is invalid, discarding session")
		s.discard(ctx)
		return "", nil
	}

	if expiresAt, ok := CredentialExpiry(credential); ok && !expiresAt.After(s.now()) {
		s.log.Info().Time("expired_at", expiresAt).Msg("Persisted credential has expired, discarding session")
		s.discard(ctx)
		return "", nil
	}

	s.log.Debug().Int64("user_id", identity.ID).Str("role", identity.Role.String()).Msg("Session restored")
	return credential, &identity
}

// discard removes both persisted entries during rehydration
func (s *Store) discard(ctx context.Context) {
	if err := s.deletePersisted(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear persisted session")
	}
}

// Login persists the credential and identity and then publishes them together.
// The caller has already authenticated against the backend. Login waits for a
// pending Initialize. If persisting fails nothing changes and the error is returned.
func (s *Store) Login(ctx context.Context, credential string, identity models.Identity) error {
	credential = StripBearer(credential)
	if credential == "" {
		return fmt.Errorf("%w: empty credential", ErrInvalidSession)
	}
	if err := identity.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	// Rehydration may discard a corrupt pair; it has to finish before the new
	// pair is written or it would delete it.
	s.Initialize(ctx)

	if err := s.storage.Set(ctx, KeyCredential, credential); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	if err := s.storage.Set(ctx, KeyIdentity, string(data)); err != nil {
		if rbErr := s.storage.Delete(ctx, KeyCredential); rbErr != nil {
			s.log.Warn().Err(rbErr).Msg("Failed to roll back persisted credential")
		}
		return fmt.Errorf("failed to persist identity: %w", err)
	}

	s.mu.Lock()
	s.credential = credential
	s.identity = &identity
	s.loading = false
	s.mu.Unlock()

	s.log.Debug().Int64("user_id", identity.ID).Str("role", identity.Role.String()).Msg("Session started")
	return nil
}

// Logout removes the persisted entries and clears the session. The in-memory
// session is always cleared; storage failures are returned for logging.
func (s *Store) Logout(ctx context.Context) error {
	err := s.deletePersisted(ctx)

	s.mu.Lock()
	s.credential = ""
	s.identity = nil
	s.mu.Unlock()

	s.log.Debug().Msg("Session ended")
	return err
}

func (s *Store) deletePersisted(ctx context.Context) error {
	return errors.Join(
		s.storage.Delete(ctx, KeyCredential),
		s.storage.Delete(ctx, KeyIdentity),
	)
}
