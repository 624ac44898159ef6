package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/talk-checkin/internal/model"
)

// CheckinRepo is the ledger of attendance records.  Uniqueness per
// (attendee, session) pair is enforced by the composite unique key on
// the checkins table, not by an application-level existence check:
// the bridge and concurrent API callers converge here and exactly one
// of them creates the row.
type CheckinRepo struct {
	db *sql.DB
}

// NewCheckinRepo returns a new CheckinRepo bound to the given database.
func NewCheckinRepo(db *sql.DB) *CheckinRepo { return &CheckinRepo{db: db} }

// PresentAttendee is one row of the present list: the check-in joined
// with the attendee's display fields.
type PresentAttendee struct {
	RA          uint64    `json:"ra"`
	Name        string    `json:"name"`
	Program     string    `json:"program"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

// Create records a check-in for the attendee in the given session.
// The gate is read at call time: a missing session yields
// ErrSessionNotFound and a disabled gate yields ErrCheckinClosed.  A
// pause racing the insert after the gate read may still admit the
// check-in; that is the documented checked-at-call-time semantics.
// The insert itself loses to an existing row with ErrDuplicateCheckin.
func (r *CheckinRepo) Create(ctx context.Context, attendeeRA, sessionID uint64) (*model.CheckinRecord, error) {
	var enabled bool
	err := r.db.QueryRowContext(ctx,
		"SELECT checkin_enabled FROM sessions WHERE id=? LIMIT 1",
		sessionID).Scan(&enabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if !enabled {
		return nil, ErrCheckinClosed
	}

	res, err := r.db.ExecContext(ctx,
		"INSERT INTO checkins (attendee_ra, session_id) VALUES (?,?)",
		attendeeRA, sessionID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateCheckin
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	rec := &model.CheckinRecord{ID: uint64(id)}
	if err := r.db.QueryRowContext(ctx,
		"SELECT id, attendee_ra, session_id, checked_in_at FROM checkins WHERE id=?",
		rec.ID).Scan(&rec.ID, &rec.AttendeeRA, &rec.SessionID, &rec.CheckedInAt); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPresent returns every check-in for the session joined with the
// attendee display fields, earliest check-in first.
func (r *CheckinRepo) ListPresent(ctx context.Context, sessionID uint64) ([]PresentAttendee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.ra, a.name, a.program, c.checked_in_at
		 FROM checkins c
		 JOIN attendees a ON a.ra = c.attendee_ra
		 WHERE c.session_id = ?
		 ORDER BY c.checked_in_at, c.id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PresentAttendee, 0)
	for rows.Next() {
		var p PresentAttendee
		if err := rows.Scan(&p.RA, &p.Name, &p.Program, &p.CheckedInAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
