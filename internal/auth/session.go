// Package auth is the session state machine: it tracks authentication
// state, orchestrates login/register/logout against the user service, and
// persists a session token plus the cached user object in the key-value
// store so a session survives app restarts.
package auth

import (
	"context"
	"encoding/json"

	"github.com/sbilibin2017/remindme-store/internal/apperrors"
	"github.com/sbilibin2017/remindme-store/internal/logger"
	"github.com/sbilibin2017/remindme-store/internal/models"
)

// State is the authentication state visible to the UI layer.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Cache keys for the persisted session artifacts.
const (
	cacheKeyUser          = "session_user"
	cacheKeyToken         = "session_token"
	cacheKeyAuthenticated = "session_authenticated"
)

// UserProvider is the slice of the user service the session manager needs.
type UserProvider interface {
	Create(ctx context.Context, input models.CreateUserInput) models.Result[models.User]
	GetByID(ctx context.Context, id int64) models.Result[models.User]
	Authenticate(ctx context.Context, email, password string) models.Result[models.User]
	Update(ctx context.Context, id int64, patch models.UserPatch) models.Result[models.User]
}

// StatsProvider computes the derived reminder counts.
type StatsProvider interface {
	GetStats(ctx context.Context, userID int64) models.Result[models.ReminderStats]
}

// SessionCache is the key-value persistent store for session artifacts.
type SessionCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// TokenGenerator mints the opaque session token cached at login.
type TokenGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
}

// RegisterInput is the registration payload, including the local-only
// confirmation field that never reaches storage.
type RegisterInput struct {
	models.CreateUserInput
	ConfirmPassword string `json:"confirmPassword"`
}

// Manager is the session state machine. The app has one logical actor, so
// the manager relies on callers not to overlap transitions; it holds no
// internal locking beyond the storage layer's own atomicity.
type Manager struct {
	users  UserProvider
	stats  StatsProvider
	cache  SessionCache
	tokens TokenGenerator

	state   State
	user    *models.User
	counts  *models.ReminderStats
	lastErr string
}

// NewManager returns a manager in the uninitialized state.
func NewManager(users UserProvider, stats StatsProvider, cache SessionCache, tokens TokenGenerator) *Manager {
	return &Manager{
		users:  users,
		stats:  stats,
		cache:  cache,
		tokens: tokens,
		state:  StateUninitialized,
	}
}

// State returns the current authentication state.
func (m *Manager) State() State { return m.state }

// CurrentUser returns the cached user, nil unless authenticated.
func (m *Manager) CurrentUser() *models.User { return m.user }

// Err returns the user-visible message from the last failed transition.
// Cleared by ClearError or the next successful transition.
func (m *Manager) Err() string { return m.lastErr }

// ClearError clears the last error message.
func (m *Manager) ClearError() { m.lastErr = "" }

// Login authenticates and establishes a session. On failure the state
// becomes anonymous and the error message is retained for display.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	m.state = StateLoading

	res := m.users.Authenticate(ctx, email, password)
	if !res.Success {
		m.toAnonymous(res.Err.Message)
		return res.Err
	}

	m.establish(ctx, res.Data)
	return nil
}

// Register validates the password confirmation locally, creates the
// account, and immediately authenticates the new user.
func (m *Manager) Register(ctx context.Context, input RegisterInput) error {
	m.state = StateLoading

	if input.Password != input.ConfirmPassword {
		err := apperrors.New(apperrors.CodeValidation, "passwords do not match")
		m.toAnonymous(err.Message)
		return err
	}

	res := m.users.Create(ctx, input.CreateUserInput)
	if !res.Success {
		m.toAnonymous(res.Err.Message)
		return res.Err
	}

	m.establish(ctx, res.Data)
	return nil
}

// Logout clears the cached session artifacts and transitions to anonymous
// unconditionally: a stale authenticated state is the worse failure mode,
// so clear errors are logged but never block the transition.
func (m *Manager) Logout(ctx context.Context) {
	m.state = StateLoading
	m.clearCache(ctx)
	m.user = nil
	m.counts = nil
	m.state = StateAnonymous
	m.lastErr = ""
}

// CheckAuthStatus restores the session at startup. A cached user is
// re-verified against storage; a session must never outlive its backing
// record, so a missing row forces anonymous and wipes the cache.
func (m *Manager) CheckAuthStatus(ctx context.Context) {
	m.state = StateLoading

	raw, ok, err := m.cache.Get(ctx, cacheKeyUser)
	if err != nil || !ok {
		if err != nil {
			logger.Log.Warnw("failed to read cached session", "error", err)
		}
		m.toAnonymous("")
		return
	}

	var cached models.User
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		logger.Log.Warnw("corrupt cached session, discarding", "error", err)
		m.clearCache(ctx)
		m.toAnonymous("")
		return
	}

	res := m.users.GetByID(ctx, cached.ID)
	if !res.Success {
		m.clearCache(ctx)
		m.toAnonymous("")
		return
	}

	m.user = &res.Data
	m.cacheUser(ctx, res.Data)
	m.state = StateAuthenticated
	m.lastErr = ""
	m.RefreshStats(ctx)
}

// UpdateProfile applies a profile patch to the authenticated user and
// refreshes the cached copy.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.UserPatch) models.Result[models.User] {
	if m.state != StateAuthenticated || m.user == nil {
		return models.Fail[models.User](apperrors.New(apperrors.CodeValidation, "not signed in"))
	}

	res := m.users.Update(ctx, m.user.ID, patch)
	if res.Success {
		m.user = &res.Data
		m.cacheUser(ctx, res.Data)
	}
	return res
}

// RefreshStats recomputes the derived reminder counts. Best-effort: a
// failure here never affects the authentication state.
func (m *Manager) RefreshStats(ctx context.Context) {
	if m.user == nil {
		return
	}
	res := m.stats.GetStats(ctx, m.user.ID)
	if !res.Success {
		logger.Log.Warnw("failed to refresh user stats", "user_id", m.user.ID, "error", res.Err)
		return
	}
	m.counts = &res.Data
}

// GetUserStats returns the cached counts, refreshing them if absent.
func (m *Manager) GetUserStats(ctx context.Context) *models.ReminderStats {
	if m.counts == nil {
		m.RefreshStats(ctx)
	}
	return m.counts
}

// establish caches the session artifacts and transitions to authenticated.
// Cache writes are best-effort: the in-memory session is already valid, a
// failed write only costs persistence across the next restart.
func (m *Manager) establish(ctx context.Context, user models.User) {
	token, err := m.tokens.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Warnw("failed to generate session token", "user_id", user.ID, "error", err)
	} else if err := m.cache.Set(ctx, cacheKeyToken, token); err != nil {
		logger.Log.Warnw("failed to cache session token", "error", err)
	}

	m.cacheUser(ctx, user)
	if err := m.cache.Set(ctx, cacheKeyAuthenticated, "true"); err != nil {
		logger.Log.Warnw("failed to cache auth flag", "error", err)
	}

	m.user = &user
	m.state = StateAuthenticated
	m.lastErr = ""
	m.RefreshStats(ctx)
}

func (m *Manager) cacheUser(ctx context.Context, user models.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		logger.Log.Warnw("failed to serialize user for cache", "error", err)
		return
	}
	if err := m.cache.Set(ctx, cacheKeyUser, string(raw)); err != nil {
		logger.Log.Warnw("failed to cache user", "error", err)
	}
}

func (m *Manager) clearCache(ctx context.Context) {
	for _, key := range []string{cacheKeyUser, cacheKeyToken, cacheKeyAuthenticated} {
		if err := m.cache.Remove(ctx, key); err != nil {
			logger.Log.Warnw("failed to clear session cache key", "key", key, "error", err)
		}
	}
}

func (m *Manager) toAnonymous(message string) {
	m.state = StateAnonymous
	if message != "" {
		m.lastErr = message
	}
}
