package models

import (
	"errors"
	"testing"
)

func TestNewSession(t *testing.T) {
	a, b := NewSession(), NewSession()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs %q and %q are not unique", a.ID, b.ID)
	}
	if a.Status != StatusIdle {
		t.Errorf("Status = %s, want idle", a.Status)
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if a.CanExport() {
		t.Error("a fresh session can export")
	}
}

func TestSessionExportGate(t *testing.T) {
	s := NewSession()
	s.SetStatus(StatusReady)
	if s.CanExport() {
		t.Error("ready session without edits can export")
	}

	s.MarkDirty()
	if !s.CanExport() {
		t.Error("dirty session cannot export")
	}

	s.ExportFailed(errors.New("missing w1"), true)
	if s.CanExport() || s.Status != StatusFailed {
		t.Errorf("after missing segment: status=%s canExport=%v", s.Status, s.CanExport())
	}

	s.MarkDirty()
	if !s.CanExport() || s.Error != nil {
		t.Error("an edit did not re-enable saving")
	}

	s.ExportFailed(errors.New("disk full"), false)
	if !s.CanExport() || s.Error == nil {
		t.Errorf("a write failure should keep saving enabled: status=%s", s.Status)
	}

	s.Saved()
	if s.CanExport() || s.SavedAt == nil || s.Status != StatusReady {
		t.Errorf("after save: status=%s canExport=%v", s.Status, s.CanExport())
	}
}

func TestSessionMissingSegmentFails(t *testing.T) {
	s := NewSession()
	err := errors.New("missing w2")
	s.ExportFailed(err, true)
	if s.Status != StatusFailed || s.Error != err {
		t.Errorf("ExportFailed: status=%s err=%v", s.Status, s.Error)
	}
	s.SetStatus(StatusLoading)
	if s.Error != nil {
		t.Error("SetStatus kept the old error")
	}
}
