package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusIdle      SessionStatus = "idle"
	StatusLoading   SessionStatus = "loading"
	StatusReady     SessionStatus = "ready"
	StatusDirty     SessionStatus = "dirty"
	StatusExporting SessionStatus = "exporting"
	StatusFailed    SessionStatus = "failed"
)

// Session tracks one editing session: what is loaded and whether it can be
// saved.
type Session struct {
	ID           string
	Status       SessionStatus
	AudioName    string
	DocumentName string
	Error        error
	CreatedAt    time.Time
	SavedAt      *time.Time

	// exportBlocked is set when the last export found words without a
	// region; it is cleared by the next edit.
	exportBlocked bool
}

func NewSession() *Session {
	return &Session{
		ID:        uuid.New().String(),
		Status:    StatusIdle,
		CreatedAt: time.Now(),
	}
}

// SetStatus moves the session to status and clears the last error.
func (s *Session) SetStatus(status SessionStatus) {
	s.Status = status
	if status != StatusFailed {
		s.Error = nil
	}
}

// MarkDirty records a user edit.
func (s *Session) MarkDirty() {
	s.Status = StatusDirty
	s.Error = nil
	s.exportBlocked = false
}

// Saved records a successful export.
func (s *Session) Saved() {
	s.Status = StatusReady
	s.Error = nil
	now := time.Now()
	s.SavedAt = &now
}

// ExportFailed records a failed export. A missing-segment failure disables
// saving until the next edit; any other failure leaves the edits dirty so
// saving can be retried.
func (s *Session) ExportFailed(err error, missingSegment bool) {
	s.Error = err
	s.exportBlocked = missingSegment
	if missingSegment {
		s.Status = StatusFailed
	} else {
		s.Status = StatusDirty
	}
}

// CanExport reports whether the save control should be enabled.
func (s *Session) CanExport() bool {
	return s.Status == StatusDirty && !s.exportBlocked
}
