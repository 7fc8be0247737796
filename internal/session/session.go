// Package session keeps one user's working set: the parsed transcript, the
// premium flag and the retake simulation built on top of them.
package session

import (
	"time"

	"github.com/ghzx55/graderevive/internal/gpa"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/internal/retake"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/google/uuid"
)

type Session struct {
	ID      string
	Premium bool

	// Original is the as-parsed snapshot; grades in it never change.
	// Current is the working set shown to the user.
	Original []model.Course
	Current  []model.Course
	Skipped  []model.SkippedRow

	Baseline    gpa.Summary
	Simulated   gpa.Summary
	IsSimulated bool

	UpdatedAt time.Time
	// Version counts successful saves. A Store rejects a save whose Version
	// no longer matches the stored one.
	Version int64

	simulator *retake.Simulator
}

func NewID() string {
	return uuid.NewString()
}

func New(id string) *Session {
	return &Session{
		ID:        id,
		UpdatedAt: time.Now().UTC(),
		simulator: retake.NewSimulator(nil, retake.TierFree),
	}
}

// Load replaces the whole working set with a freshly parsed transcript.
// Retake slots are discarded; the premium flag survives.
func (s *Session) Load(courses []model.Course, skipped []model.SkippedRow) {
	s.Original = model.CloneCourses(courses)
	s.Current = model.CloneCourses(courses)
	s.Skipped = append([]model.SkippedRow(nil), skipped...)
	s.simulator = retake.NewSimulator(s.Original, retake.TierFor(s.Premium))
	s.recomputeBaseline()
	s.touch()
}

// ToggleMajor overrides the major flag of one course in both the working set
// and the snapshot, so a later reset keeps the user's choice.
func (s *Session) ToggleMajor(courseID string, isMajor bool) error {
	cur := model.FindCourse(s.Current, courseID)
	if cur < 0 {
		return errors.ErrCourseNotFound
	}

	current := model.CloneCourses(s.Current)
	current[cur].IsMajor = isMajor
	s.Current = current

	if orig := model.FindCourse(s.Original, courseID); orig >= 0 {
		original := model.CloneCourses(s.Original)
		original[orig].IsMajor = isMajor
		s.Original = original
	}

	s.simulator.Rebind(s.Original)
	s.recomputeBaseline()
	s.touch()
	return nil
}

// SetPremium flips the simulated premium activation. It only resizes the
// retake slots; course data is untouched.
func (s *Session) SetPremium(premium bool) {
	s.Premium = premium
	// TierFor always yields a valid tier.
	_ = s.simulator.SetTier(retake.TierFor(premium))
	s.touch()
}

func (s *Session) Tier() retake.Tier {
	return s.simulator.Tier()
}

func (s *Session) Slots() []retake.Slot {
	return s.simulator.Slots()
}

func (s *Session) MaxSlots() int {
	return s.simulator.MaxSlots()
}

func (s *Session) Eligible() []model.Course {
	return s.simulator.Eligible()
}

func (s *Session) SelectCourse(slot int, courseID string) error {
	if err := s.simulator.SelectCourse(slot, courseID); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Session) SetReplacementGrade(slot int, token string) error {
	if err := s.simulator.SetReplacementGrade(slot, token); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Session) ClearSlot(slot int) error {
	if err := s.simulator.ClearSlot(slot); err != nil {
		return err
	}
	s.touch()
	return nil
}

// Simulate submits the retake slots. On failure no field changes.
func (s *Session) Simulate() (gpa.Summary, error) {
	simulated, err := s.simulator.Submit()
	if err != nil {
		return gpa.Summary{}, err
	}

	s.Simulated = gpa.Summarize(simulated)
	s.IsSimulated = true
	s.touch()
	return s.Simulated, nil
}

// Reset drops the simulation and restores the as-parsed working set.
func (s *Session) Reset() {
	s.simulator.Reset()
	s.Current = model.CloneCourses(s.Original)
	s.Simulated = s.Baseline
	s.IsSimulated = false
	s.touch()
}

func (s *Session) recomputeBaseline() {
	s.Baseline = gpa.Summarize(s.Current)
	s.Simulated = s.Baseline
	s.IsSimulated = false
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
