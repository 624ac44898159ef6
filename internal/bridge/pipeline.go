package bridge

import (
	"context"
	"errors"
	"log"

	"github.com/iliyamo/talk-checkin/internal/model"
	"github.com/iliyamo/talk-checkin/internal/repository"
)

// AttendeeResolver resolves a scanned card identifier to an attendee.
type AttendeeResolver interface {
	FindByCardUID(ctx context.Context, cardUID string) (*model.Attendee, error)
}

// ActiveSessionFinder selects the session scans should check into,
// reporting how many sessions currently have their gate enabled.
type ActiveSessionFinder interface {
	FindActive(ctx context.Context) (*model.Session, int, error)
}

// CheckinWriter records a check-in.  Implementations must enforce the
// one-per-pair invariant atomically; the pipeline only classifies the
// outcome.
type CheckinWriter interface {
	Create(ctx context.Context, attendeeRA, sessionID uint64) (*model.CheckinRecord, error)
}

// Pipeline turns a detected card into a check-in: card -> attendee,
// active session, ledger write.  Every failure mode is a logged
// steady-state outcome; Handle never returns an error because there
// is nothing upstream that could act on one.
type Pipeline struct {
	Attendees AttendeeResolver
	Sessions  ActiveSessionFinder
	Checkins  CheckinWriter

	// OnCheckin, when set, is invoked after a successful ledger write
	// (used to fan out checkin.confirmed events).  It runs on the
	// worker goroutine, so implementations should hand slow work off.
	OnCheckin func(rec *model.CheckinRecord, att *model.Attendee, s *model.Session)
}

// Handle processes one card_detected event to completion.  The scan
// has no external cancellation trigger; callers pass a context that
// outlives the originating device read.
func (p *Pipeline) Handle(ctx context.Context, cardUID string) {
	att, err := p.Attendees.FindByCardUID(ctx, cardUID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			log.Printf("bridge: unregistered card %s; dropping event", cardUID)
		} else {
			log.Printf("bridge: card lookup failed for %s: %v", cardUID, err)
		}
		return
	}

	s, active, err := p.Sessions.FindActive(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSession) {
			log.Printf("bridge: no active session; dropping scan for ra=%d", att.RA)
		} else {
			log.Printf("bridge: active session lookup failed: %v", err)
		}
		return
	}
	if active > 1 {
		log.Printf("bridge: %d sessions have checkin enabled; picked most recent (id=%d %q)", active, s.ID, s.Title)
	}

	rec, err := p.Checkins.Create(ctx, att.RA, s.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCheckin):
			// Benign: the attendee tapped twice or beat us via the API.
			log.Printf("bridge: ra=%d already checked in to session %d", att.RA, s.ID)
		case errors.Is(err, repository.ErrCheckinClosed):
			// Gate flipped between selection and insert.
			log.Printf("bridge: session %d paused before scan for ra=%d landed", s.ID, att.RA)
		case errors.Is(err, repository.ErrSessionNotFound):
			log.Printf("bridge: session %d vanished before scan for ra=%d landed", s.ID, att.RA)
		default:
			log.Printf("bridge: checkin failed for ra=%d session=%d: %v", att.RA, s.ID, err)
		}
		return
	}

	log.Printf("bridge: checked in ra=%d (%s) to session %d (%s)", att.RA, att.Name, s.ID, s.Title)
	if p.OnCheckin != nil {
		p.OnCheckin(rec, att, s)
	}
}
