package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL executed at startup.  Every statement is
// idempotent so restarting the server against an existing database is
// safe.  The composite unique keys on checkins and certificates are
// what make duplicate check-in and double issuance races lose at the
// storage layer instead of relying on a read-then-write check.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS attendees (
		ra BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		program VARCHAR(120) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (ra)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cards (
		card_uid CHAR(36) NOT NULL,
		attendee_ra BIGINT UNSIGNED NOT NULL,
		issued_at DATE NOT NULL,
		PRIMARY KEY (card_uid),
		UNIQUE KEY uq_cards_attendee (attendee_ra),
		CONSTRAINT fk_cards_attendee FOREIGN KEY (attendee_ra) REFERENCES attendees (ra)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		starts_at DATETIME NOT NULL,
		ends_at DATETIME NOT NULL,
		checkin_enabled TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS checkins (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		attendee_ra BIGINT UNSIGNED NOT NULL,
		session_id BIGINT UNSIGNED NOT NULL,
		checked_in_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_checkins_attendee_session (attendee_ra, session_id),
		CONSTRAINT fk_checkins_attendee FOREIGN KEY (attendee_ra) REFERENCES attendees (ra),
		CONSTRAINT fk_checkins_session FOREIGN KEY (session_id) REFERENCES sessions (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS certificates (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		attendee_ra BIGINT UNSIGNED NOT NULL,
		session_id BIGINT UNSIGNED NOT NULL,
		file_blob MEDIUMBLOB NOT NULL,
		issued_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_certificates_attendee_session (attendee_ra, session_id),
		CONSTRAINT fk_certificates_checkin FOREIGN KEY (attendee_ra, session_id)
			REFERENCES checkins (attendee_ra, session_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates any missing tables.  It runs once at startup
// before the HTTP server and the bridge start accepting work.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
