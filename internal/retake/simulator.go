// Package retake models "what-if" grade replacement for a bounded number of
// courses.
package retake

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghzx55/graderevive/internal/grade"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/pkg/errors"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

const (
	FreeSlots    = 2
	PremiumSlots = 5
)

func TierFor(premium bool) Tier {
	if premium {
		return TierPremium
	}
	return TierFree
}

func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierFree, TierPremium:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidTier, s)
	}
}

func (t Tier) MaxSlots() int {
	if t == TierPremium {
		return PremiumSlots
	}
	return FreeSlots
}

// Slot is one retake choice. An empty CourseID means the slot is unused; its
// Grade text may still be set.
type Slot struct {
	CourseID string `json:"course_id"`
	Grade    string `json:"grade"`
}

func (s Slot) Occupied() bool {
	return s.CourseID != ""
}

type Simulator struct {
	tier    Tier
	slots   []Slot
	courses []model.Course
}

// NewSimulator works on its own copy of courses; the caller's slice is never
// modified.
func NewSimulator(courses []model.Course, tier Tier) *Simulator {
	if tier != TierPremium {
		tier = TierFree
	}
	return &Simulator{
		tier:    tier,
		slots:   make([]Slot, tier.MaxSlots()),
		courses: model.CloneCourses(courses),
	}
}

func (s *Simulator) Tier() Tier {
	return s.tier
}

func (s *Simulator) MaxSlots() int {
	return len(s.slots)
}

func (s *Simulator) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Selected counts occupied slots.
func (s *Simulator) Selected() int {
	n := 0
	for _, slot := range s.slots {
		if slot.Occupied() {
			n++
		}
	}
	return n
}

// Eligible lists the courses that may be retaken, sorted by name. P/NP
// courses carry no GPA weight and are never eligible.
func (s *Simulator) Eligible() []model.Course {
	var out []model.Course
	for _, c := range s.courses {
		if grade.Counts(c.OriginalGrade) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// SelectCourse puts courseID in a slot. An empty courseID deselects the slot
// and keeps its replacement grade text. Duplicates across slots are reported
// by Submit, not here.
func (s *Simulator) SelectCourse(slot int, courseID string) error {
	if err := s.checkSlot(slot); err != nil {
		return err
	}

	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		s.slots[slot].CourseID = ""
		return nil
	}

	idx := model.FindCourse(s.courses, courseID)
	if idx < 0 {
		return errors.SlotError{Err: errors.ErrCourseNotFound, Slot: slot, CourseID: courseID}
	}
	if !grade.Counts(s.courses[idx].OriginalGrade) {
		return errors.SlotError{
			Err:      errors.ErrCourseNotEligible,
			Slot:     slot,
			CourseID: courseID,
			Grade:    s.courses[idx].OriginalGrade,
		}
	}

	s.slots[slot].CourseID = courseID
	return nil
}

func (s *Simulator) SetReplacementGrade(slot int, token string) error {
	if err := s.checkSlot(slot); err != nil {
		return err
	}
	s.slots[slot].Grade = grade.Normalize(token)
	return nil
}

// ClearSlot empties both the course and the grade of a slot.
func (s *Simulator) ClearSlot(slot int) error {
	if err := s.checkSlot(slot); err != nil {
		return err
	}
	s.slots[slot] = Slot{}
	return nil
}

// Submit validates every occupied slot in index order and returns a copy of
// the courses with the replacement grades applied. On error nothing changes.
func (s *Simulator) Submit() ([]model.Course, error) {
	simulated := model.CloneCourses(s.courses)
	seen := make(map[string]int)

	for i, slot := range s.slots {
		if !slot.Occupied() {
			continue
		}

		point, ok := grade.Point(slot.Grade)
		if slot.Grade == "" || !ok {
			return nil, errors.SlotError{Err: errors.ErrInvalidGrade, Slot: i, CourseID: slot.CourseID, Grade: slot.Grade}
		}
		if point < 0 {
			return nil, errors.SlotError{Err: errors.ErrPassNonPassNotAllowed, Slot: i, CourseID: slot.CourseID, Grade: slot.Grade}
		}

		if first, dup := seen[slot.CourseID]; dup {
			return nil, errors.DuplicateSelectionError{CourseID: slot.CourseID, Slots: []int{first, i}}
		}
		seen[slot.CourseID] = i

		idx := model.FindCourse(simulated, slot.CourseID)
		if idx < 0 {
			return nil, errors.SlotError{Err: errors.ErrCourseNotFound, Slot: i, CourseID: slot.CourseID}
		}
		simulated[idx].Grade = slot.Grade
	}

	if len(seen) == 0 {
		return nil, errors.ErrNoSelection
	}

	return simulated, nil
}

// Reset discards every slot assignment.
func (s *Simulator) Reset() {
	s.slots = make([]Slot, s.tier.MaxSlots())
}

// SetTier resizes the slot set. A smaller tier drops the highest-index slots.
func (s *Simulator) SetTier(tier Tier) error {
	if _, err := ParseTier(string(tier)); err != nil {
		return err
	}

	n := tier.MaxSlots()
	slots := make([]Slot, n)
	copy(slots, s.slots)

	s.tier = tier
	s.slots = slots
	return nil
}

// Rebind swaps in a new copy of the canonical courses, e.g. after a major
// toggle. Slots pointing at courses that no longer exist are emptied.
func (s *Simulator) Rebind(courses []model.Course) {
	s.courses = model.CloneCourses(courses)
	for i := range s.slots {
		if s.slots[i].Occupied() && model.FindCourse(s.courses, s.slots[i].CourseID) < 0 {
			s.slots[i].CourseID = ""
		}
	}
}

// Restore loads previously saved slots, truncated to the current tier.
func (s *Simulator) Restore(slots []Slot) {
	s.slots = make([]Slot, s.tier.MaxSlots())
	for i := 0; i < len(slots) && i < len(s.slots); i++ {
		s.slots[i] = Slot{
			CourseID: strings.TrimSpace(slots[i].CourseID),
			Grade:    grade.Normalize(slots[i].Grade),
		}
	}
}

func (s *Simulator) checkSlot(slot int) error {
	if slot < 0 || slot >= len(s.slots) {
		return errors.SlotError{Err: errors.ErrSlotOutOfRange, Slot: slot}
	}
	return nil
}
