package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/talk-checkin/internal/model"
)

// SessionRepo provides CRUD operations for sessions (talks) and their
// check-in gate.  The derived display status is never stored here;
// handlers compute it from the gate and schedule at read time.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Create inserts a new session with the gate disabled and populates
// the generated ID and timestamps on the returned model.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (title, description, starts_at, ends_at, checkin_enabled) VALUES (?,?,?,?,0)",
		s.Title, s.Description, s.StartsAt.UTC(), s.EndsAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT id, title, description, starts_at, ends_at, checkin_enabled, created_at FROM sessions WHERE id=?",
		s.ID).Scan(&s.ID, &s.Title, &s.Description, &s.StartsAt, &s.EndsAt, &s.CheckinEnabled, &s.CreatedAt)
}

// GetByID retrieves a session by its ID.  It returns
// ErrSessionNotFound when no row matches.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	var s model.Session
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, description, starts_at, ends_at, checkin_enabled, created_at FROM sessions WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.Title, &s.Description, &s.StartsAt, &s.EndsAt, &s.CheckinEnabled, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all sessions ordered by scheduled start.
func (r *SessionRepo) List(ctx context.Context) ([]model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, description, starts_at, ends_at, checkin_enabled, created_at FROM sessions ORDER BY starts_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Session, 0)
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.StartsAt, &s.EndsAt, &s.CheckinEnabled, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetGate flips the check-in gate in a single UPDATE so every
// subsequent reader observes the new value immediately.  It returns
// the updated session or ErrSessionNotFound when the ID is unknown.
func (r *SessionRepo) SetGate(ctx context.Context, id uint64, enabled bool) (*model.Session, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET checkin_enabled=? WHERE id=?", enabled, id)
	if err != nil {
		return nil, err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update,
	// so existence is decided by the read-back below.
	if _, err := res.RowsAffected(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// FindActive returns the session the bridge should check scans into.
// When several sessions have their gate enabled at once (nothing in
// the data model forbids it), the most recently created one wins; the
// returned count lets callers log that a tie was broken.  It returns
// ErrNoActiveSession when no gate is enabled.
func (r *SessionRepo) FindActive(ctx context.Context) (*model.Session, int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE checkin_enabled=1").Scan(&count); err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return nil, 0, ErrNoActiveSession
	}
	var s model.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, starts_at, ends_at, checkin_enabled, created_at
		 FROM sessions WHERE checkin_enabled=1 ORDER BY id DESC LIMIT 1`).
		Scan(&s.ID, &s.Title, &s.Description, &s.StartsAt, &s.EndsAt, &s.CheckinEnabled, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Gate flipped between the two queries; treat as none active.
			return nil, 0, ErrNoActiveSession
		}
		return nil, 0, err
	}
	return &s, count, nil
}
