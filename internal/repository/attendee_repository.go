package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/talk-checkin/internal/model"
)

// AttendeeRepo provides access to attendees and their card bindings.
// An attendee and its card are always created together in a single
// transaction so the 1:1 binding can never be half-built.
type AttendeeRepo struct {
	db *sql.DB
}

// NewAttendeeRepo returns a new AttendeeRepo bound to the given database.
func NewAttendeeRepo(db *sql.DB) *AttendeeRepo { return &AttendeeRepo{db: db} }

// Register inserts an attendee and its card atomically.  When cardUID
// is empty a fresh UUID is generated, matching what the card printer
// encodes onto blank stock.  It returns ErrAttendeeExists when the
// registration number is taken and ErrCardExists when the card UID is
// already bound to someone else.
func (r *AttendeeRepo) Register(ctx context.Context, ra uint64, name, program, cardUID string, issuedAt time.Time) (*model.Attendee, *model.Card, error) {
	name = strings.TrimSpace(name)
	program = strings.TrimSpace(program)
	if cardUID == "" {
		cardUID = uuid.NewString()
	}
	// The cards column is a DATE, so the stored value has no time of
	// day. Truncate here so the returned card matches a later read.
	issued := issuedAt.UTC()
	issued = time.Date(issued.Year(), issued.Month(), issued.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO attendees (ra, name, program) VALUES (?,?,?)",
		ra, name, program); err != nil {
		if isDuplicateKey(err) {
			return nil, nil, ErrAttendeeExists
		}
		return nil, nil, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO cards (card_uid, attendee_ra, issued_at) VALUES (?,?,?)",
		cardUID, ra, issued.Format("2006-01-02")); err != nil {
		if isDuplicateKey(err) {
			return nil, nil, ErrCardExists
		}
		return nil, nil, err
	}

	var att model.Attendee
	if err := tx.QueryRowContext(ctx,
		"SELECT ra, name, program, created_at FROM attendees WHERE ra=?",
		ra).Scan(&att.RA, &att.Name, &att.Program, &att.CreatedAt); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true

	card := &model.Card{UID: cardUID, AttendeeRA: ra, IssuedAt: issued}
	return &att, card, nil
}

// FindByCardUID resolves a scanned card identifier to its attendee.
// It returns ErrCardNotFound when the card is unregistered.
func (r *AttendeeRepo) FindByCardUID(ctx context.Context, cardUID string) (*model.Attendee, error) {
	var att model.Attendee
	err := r.db.QueryRowContext(ctx,
		`SELECT a.ra, a.name, a.program, a.created_at
		 FROM cards c
		 JOIN attendees a ON a.ra = c.attendee_ra
		 WHERE c.card_uid = ? LIMIT 1`,
		cardUID).Scan(&att.RA, &att.Name, &att.Program, &att.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &att, nil
}

// GetByRA fetches an attendee by registration number.  Callers that
// need a not-found distinction should compare against sql.ErrNoRows.
func (r *AttendeeRepo) GetByRA(ctx context.Context, ra uint64) (*model.Attendee, error) {
	var att model.Attendee
	err := r.db.QueryRowContext(ctx,
		"SELECT ra, name, program, created_at FROM attendees WHERE ra=? LIMIT 1",
		ra).Scan(&att.RA, &att.Name, &att.Program, &att.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &att, nil
}
