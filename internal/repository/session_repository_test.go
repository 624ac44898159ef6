package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "starts_at", "ends_at", "checkin_enabled", "created_at"})
}

func TestFindActiveNone(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.FindActive(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActivePrefersNewest(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	starts := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	// The expectation pins the ordering clause: with two gates open,
	// the most recently created session must win.
	mock.ExpectQuery("ORDER BY id DESC LIMIT 1").
		WillReturnRows(sessionRows().
			AddRow(9, "Closing Keynote", "", starts, starts.Add(time.Hour), true, starts.Add(-time.Hour)))

	s, active, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(9), s.ID)
	assert.Equal(t, 2, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveGateFlippedBetweenQueries(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("ORDER BY id DESC LIMIT 1").
		WillReturnError(sql.ErrNoRows)

	_, _, err := repo.FindActive(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGateReadsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	starts := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE sessions SET checkin_enabled").
		WithArgs(true, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, title, description, starts_at, ends_at, checkin_enabled, created_at FROM sessions").
		WithArgs(7).
		WillReturnRows(sessionRows().
			AddRow(7, "Intro to Go", "", starts, starts.Add(time.Hour), true, starts.Add(-time.Hour)))

	s, err := repo.SetGate(context.Background(), 7, true)
	require.NoError(t, err)
	assert.True(t, s.CheckinEnabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetGateUnknownSession(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepo(db)

	mock.ExpectExec("UPDATE sessions SET checkin_enabled").
		WithArgs(false, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, title, description, starts_at, ends_at, checkin_enabled, created_at FROM sessions").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SetGate(context.Background(), 99, false)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
