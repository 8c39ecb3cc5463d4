// Package sessions persists per-user Google OAuth tokens in SQLite.
package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
	_ "modernc.org/sqlite"

	"github.com/newtelco/dashboard/internal/identity"
)

// ErrNotFound is returned when no session row exists for a subject.
var ErrNotFound = errors.New("session not found")

const schema = `
CREATE TABLE IF NOT EXISTS oauth_sessions (
	subject    TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	email      TEXT NOT NULL DEFAULT '',
	token      TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store is a SQLite-backed session store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (or creates) the store at path. ":memory:" keeps it in memory.
func Open(ctx context.Context, log *slog.Logger, path string) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	return &Store{
		db:     db,
		logger: log.With(slog.String("service", "sessions")),
		now:    time.Now,
	}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save inserts or replaces the session for its subject. A token without a
// refresh token keeps the one already stored, since Google only returns it on
// first consent.
func (s *Store) Save(ctx context.Context, session Session) error {
	if err := identity.ValidateSubject(session.Subject); err != nil {
		return err
	}
	if session.Token == nil {
		return errors.New("session token is required")
	}
	token, err := s.keepRefreshToken(ctx, session.Subject, session.Token)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	now := s.now().UTC().Unix()
	_, err = s.db.ExecContext(ctx, `
INSERT INTO oauth_sessions (subject, name, email, token, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(subject) DO UPDATE SET
	name = excluded.name,
	email = excluded.email,
	token = excluded.token,
	updated_at = excluded.updated_at`,
		session.Subject, strings.TrimSpace(session.Name), strings.TrimSpace(session.Email), string(raw), now, now)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) keepRefreshToken(ctx context.Context, subject string, token *oauth2.Token) (*oauth2.Token, error) {
	if token.RefreshToken != "" {
		return token, nil
	}
	prev, err := s.Get(ctx, subject)
	if errors.Is(err, ErrNotFound) {
		return token, nil
	}
	if err != nil {
		return nil, err
	}
	if prev.Token == nil || prev.Token.RefreshToken == "" {
		return token, nil
	}
	merged := *token
	merged.RefreshToken = prev.Token.RefreshToken
	s.logger.Debug("kept stored refresh token", slog.String("user_id", subject))
	return &merged, nil
}

// UpdateToken replaces only the token, e.g. after a refresh.
func (s *Store) UpdateToken(ctx context.Context, subject string, token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE oauth_sessions SET token = ?, updated_at = ? WHERE subject = ?`,
		string(raw), s.now().UTC().Unix(), subject)
	if err != nil {
		return fmt.Errorf("update session token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the session for subject, or ErrNotFound.
func (s *Store) Get(ctx context.Context, subject string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT subject, name, email, token, created_at, updated_at FROM oauth_sessions WHERE subject = ?`,
		subject)
	var (
		session          Session
		raw              string
		created, updated int64
	)
	if err := row.Scan(&session.Subject, &session.Name, &session.Email, &raw, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return Session{}, fmt.Errorf("decode session token: %w", err)
	}
	session.Token = &token
	session.CreatedAt = time.Unix(created, 0).UTC()
	session.UpdatedAt = time.Unix(updated, 0).UTC()
	return session, nil
}

// Delete removes the session for subject.
func (s *Store) Delete(ctx context.Context, subject string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM oauth_sessions WHERE subject = ?`, subject)
	return err
}

// PruneBefore deletes sessions not updated since cutoff and returns how many went.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM oauth_sessions WHERE updated_at < ?`, cutoff.UTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("pruned sessions", slog.Int64("count", n))
	}
	return n, nil
}
