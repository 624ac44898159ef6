package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/talk-checkin/internal/model"
)

// Renderer produces the certificate artifact for one check-in.  The
// real renderer lives outside this service; the default implementation
// returns a fixed placeholder blob.
type Renderer interface {
	Render(rec model.CheckinRecord) ([]byte, error)
}

// PlaceholderRenderer satisfies Renderer with a constant payload.
type PlaceholderRenderer struct{}

// Render returns the placeholder artifact bytes.
func (PlaceholderRenderer) Render(model.CheckinRecord) ([]byte, error) {
	return []byte("PDF_PLACEHOLDER"), nil
}

// CertificateRepo issues certificates for check-ins that lack one.
type CertificateRepo struct {
	db *sql.DB
}

// NewCertificateRepo returns a new CertificateRepo bound to the given database.
func NewCertificateRepo(db *sql.DB) *CertificateRepo { return &CertificateRepo{db: db} }

// IssueForSession creates one certificate per un-certificated check-in
// of the session, all inside a single transaction.  If rendering or
// any insert fails, nothing is committed, so a partial batch can never
// be observed.  Re-running with no new check-ins selects nothing and
// issues zero.  All artifacts are rendered before the transaction
// opens to keep the write window short.
func (r *CertificateRepo) IssueForSession(ctx context.Context, sessionID uint64, render Renderer) (int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.attendee_ra, c.session_id, c.checked_in_at
		 FROM checkins c
		 LEFT JOIN certificates ct
		   ON ct.attendee_ra = c.attendee_ra AND ct.session_id = c.session_id
		 WHERE c.session_id = ? AND ct.id IS NULL`,
		sessionID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var pending []model.CheckinRecord
	for rows.Next() {
		var rec model.CheckinRecord
		if err := rows.Scan(&rec.ID, &rec.AttendeeRA, &rec.SessionID, &rec.CheckedInAt); err != nil {
			return 0, err
		}
		pending = append(pending, rec)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	blobs := make([][]byte, len(pending))
	for i, rec := range pending {
		blob, err := render.Render(rec)
		if err != nil {
			return 0, err
		}
		blobs[i] = blob
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for i, rec := range pending {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO certificates (attendee_ra, session_id, file_blob) VALUES (?,?,?)",
			rec.AttendeeRA, rec.SessionID, blobs[i]); err != nil {
			// A duplicate here means a concurrent batch won the race
			// for this record; abort and let the caller retry, which
			// will then select nothing for the already-issued rows.
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return len(pending), nil
}

// CountForSession returns how many certificates exist for a session.
func (r *CertificateRepo) CountForSession(ctx context.Context, sessionID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM certificates WHERE session_id=?", sessionID).Scan(&n)
	return n, err
}
