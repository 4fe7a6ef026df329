package repositories

import (
	"context"

	"github.com/sbilibin2017/remindme-store/internal/storage"
)

// SessionCacheRepository is the key-value persistent store used to cache the
// session token and serialized user object across app restarts.
type SessionCacheRepository struct {
	st *storage.Storage
}

func NewSessionCacheRepository(st *storage.Storage) *SessionCacheRepository {
	return &SessionCacheRepository{st: st}
}

type kvRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// Get returns the value for key, with ok=false when the key is absent.
func (r *SessionCacheRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var row kvRow
	found, err := r.st.Get(ctx, &row,
		`SELECT key, value FROM session_cache WHERE key = ?`, key)
	if err != nil || !found {
		return "", false, err
	}
	return row.Value, true, nil
}

// Set stores the value for key, overwriting any previous value.
func (r *SessionCacheRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.st.Exec(ctx, `
		INSERT INTO session_cache (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Remove deletes the key; removing an absent key is not an error.
func (r *SessionCacheRepository) Remove(ctx context.Context, key string) error {
	_, err := r.st.Exec(ctx, `DELETE FROM session_cache WHERE key = ?`, key)
	return err
}
