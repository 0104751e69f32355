package recorder

import (
	"time"

	"github.com/sirupsen/logrus"

	"pulsetrack/internal/db"
)

// Sweep runs the startup recovery pass: repair any session left active by a
// prior abnormal exit, then delete sessions past the retention window. All
// failures are logged and swallowed; startup must never be blocked on
// cleanup. A dangling session that could not be repaired is retried on the
// next start, since it stays in the store.
func Sweep(store *db.Store, log *logrus.Entry) {
	recoverDangling(store, log)
	sweepRetention(store, log, time.Now())
}

// recoverDangling force-completes (or discards) a session left active by a
// crash. The end time is the last reading's timestamp, not the current
// clock: the last observation is the only trustworthy signal of when
// recording actually stopped.
func recoverDangling(store *db.Store, log *logrus.Entry) {
	session, err := store.ActiveSession()
	if err != nil {
		log.WithError(err).Error("recovery: could not query active session")
		return
	}
	if session == nil {
		return
	}

	readings, err := store.ReadingsBySession(session.ID)
	if err != nil {
		log.WithError(err).WithField("session", session.ID).Error("recovery: could not load readings")
		return
	}

	if len(readings) == 0 {
		if err := store.DeleteSession(session.ID); err != nil {
			log.WithError(err).WithField("session", session.ID).Error("recovery: could not delete empty session")
			return
		}
		log.WithField("session", session.ID).Info("recovery: discarded empty interrupted session")
		return
	}

	avg, min, max := summarize(readings)
	endedAt := readings[len(readings)-1].Timestamp
	if err := store.CompleteSession(session.ID, endedAt, avg, min, max); err != nil {
		log.WithError(err).WithField("session", session.ID).Error("recovery: could not complete session")
		return
	}

	log.WithFields(logrus.Fields{
		"session":  session.ID,
		"ended_at": endedAt,
		"readings": len(readings),
	}).Info("recovery: completed interrupted session")
}

// sweepRetention deletes completed sessions older than the configured
// window, one transaction per session.
func sweepRetention(store *db.Store, log *logrus.Entry, now time.Time) {
	days := store.RetentionDays()
	cutoff := now.AddDate(0, 0, -days)

	sessions, err := store.CompletedSessionsEndedBefore(cutoff)
	if err != nil {
		log.WithError(err).Error("retention: could not list expired sessions")
		return
	}

	for _, session := range sessions {
		if err := store.DeleteSession(session.ID); err != nil {
			log.WithError(err).WithField("session", session.ID).Error("retention: could not delete session")
			continue
		}
		log.WithFields(logrus.Fields{
			"session":  session.ID,
			"ended_at": session.EndedAt,
		}).Info("retention: deleted expired session")
	}
}
