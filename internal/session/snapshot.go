package session

import (
	"time"

	"github.com/ghzx55/graderevive/internal/gpa"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/internal/retake"
)

// Snapshot is the serializable form of a Session.
type Snapshot struct {
	ID          string             `json:"id"`
	Premium     bool               `json:"premium"`
	Original    []model.Course     `json:"original"`
	Current     []model.Course     `json:"current"`
	Skipped     []model.SkippedRow `json:"skipped,omitempty"`
	Baseline    gpa.Summary        `json:"baseline"`
	Simulated   gpa.Summary        `json:"simulated"`
	IsSimulated bool               `json:"is_simulated"`
	Slots       []retake.Slot      `json:"slots"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Version     int64              `json:"version"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:          s.ID,
		Premium:     s.Premium,
		Original:    model.CloneCourses(s.Original),
		Current:     model.CloneCourses(s.Current),
		Skipped:     append([]model.SkippedRow(nil), s.Skipped...),
		Baseline:    s.Baseline,
		Simulated:   s.Simulated,
		IsSimulated: s.IsSimulated,
		Slots:       s.simulator.Slots(),
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

func FromSnapshot(snap Snapshot) *Session {
	s := &Session{
		ID:          snap.ID,
		Premium:     snap.Premium,
		Original:    model.CloneCourses(snap.Original),
		Current:     model.CloneCourses(snap.Current),
		Skipped:     append([]model.SkippedRow(nil), snap.Skipped...),
		Baseline:    snap.Baseline,
		Simulated:   snap.Simulated,
		IsSimulated: snap.IsSimulated,
		UpdatedAt:   snap.UpdatedAt,
		Version:     snap.Version,
	}
	s.simulator = retake.NewSimulator(s.Original, retake.TierFor(s.Premium))
	s.simulator.Restore(snap.Slots)
	return s
}
