package session

import (
	"testing"

	"github.com/ghzx55/graderevive/internal/gpa"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/internal/retake"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parsedCourses() []model.Course {
	return []model.Course{
		{ID: "ds", Name: "자료구조", Credits: 3, Grade: "C0", OriginalGrade: "C0", IsMajor: true, MajorType: "전필"},
		{ID: "os", Name: "운영체제", Credits: 3, Grade: "B0", OriginalGrade: "B0", IsMajor: true, MajorType: "전선"},
		{ID: "ph", Name: "철학", Credits: 2, Grade: "D+", OriginalGrade: "D+", MajorType: "교양"},
		{ID: "ch", Name: "채플", Credits: 0, Grade: "P", OriginalGrade: "P"},
	}
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := New("s1")
	s.Load(parsedCourses(), []model.SkippedRow{{Row: 9, Reason: model.SkipEmptyGrade}})
	return s
}

func TestLoadComputesBaseline(t *testing.T) {
	s := loadedSession(t)

	assert.Equal(t, gpa.Summarize(parsedCourses()), s.Baseline)
	assert.Equal(t, s.Baseline, s.Simulated)
	assert.False(t, s.IsSimulated)
	assert.Equal(t, parsedCourses(), s.Original)
	assert.Equal(t, parsedCourses(), s.Current)
	assert.Len(t, s.Skipped, 1)
	assert.Equal(t, retake.TierFree, s.Tier())
}

func TestLoadCopiesInput(t *testing.T) {
	courses := parsedCourses()
	s := New("s1")
	s.Load(courses, nil)

	courses[0].Grade = "F"
	assert.Equal(t, "C0", s.Original[0].Grade)
	assert.Equal(t, "C0", s.Current[0].Grade)
}

func TestSimulateThenResetRestoresBaselineExactly(t *testing.T) {
	s := loadedSession(t)
	baseline := s.Baseline

	require.NoError(t, s.SelectCourse(0, "ds"))
	require.NoError(t, s.SetReplacementGrade(0, "A+"))
	require.NoError(t, s.SelectCourse(1, "ph"))
	require.NoError(t, s.SetReplacementGrade(1, "B0"))

	simulated, err := s.Simulate()
	require.NoError(t, err)
	assert.True(t, s.IsSimulated)
	assert.Greater(t, simulated.Overall, baseline.Overall)
	assert.Equal(t, simulated, s.Simulated)

	// Canonical courses are never touched by a simulation.
	assert.Equal(t, parsedCourses(), s.Original)

	s.Reset()
	assert.Equal(t, baseline, s.Baseline)
	assert.Equal(t, baseline, s.Simulated)
	assert.False(t, s.IsSimulated)
	assert.Equal(t, s.Original, s.Current)
	assert.Equal(t, 0, len(filterOccupied(s.Slots())))
}

func TestFailedSimulationChangesNothing(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SelectCourse(0, "ds"))
	require.NoError(t, s.SetReplacementGrade(0, "A+"))
	_, err := s.Simulate()
	require.NoError(t, err)
	before := s.Snapshot()

	require.NoError(t, s.SetReplacementGrade(0, "NP"))
	_, err = s.Simulate()
	assert.ErrorIs(t, err, errors.ErrPassNonPassNotAllowed)

	after := s.Snapshot()
	assert.Equal(t, before.Simulated, after.Simulated)
	assert.Equal(t, before.Baseline, after.Baseline)
	assert.Equal(t, before.IsSimulated, after.IsSimulated)
	assert.Equal(t, before.Current, after.Current)
}

func TestToggleMajorUpdatesBaselineAndOriginal(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SelectCourse(0, "ph"))
	require.NoError(t, s.SetReplacementGrade(0, "A+"))
	_, err := s.Simulate()
	require.NoError(t, err)

	require.NoError(t, s.ToggleMajor("ph", true))
	assert.True(t, s.Current[2].IsMajor)
	assert.True(t, s.Original[2].IsMajor)
	assert.Equal(t, "D+", s.Original[2].Grade)
	assert.Equal(t, gpa.Summarize(s.Current), s.Baseline)
	assert.False(t, s.IsSimulated)

	// The simulation sees the new flag.
	simulated, err := s.Simulate()
	require.NoError(t, err)
	assert.InDelta(t, (2.0*3+3.0*3+4.5*2)/8, simulated.Major, 1e-12)

	// Reset keeps the user's major choice.
	s.Reset()
	assert.True(t, s.Current[2].IsMajor)

	assert.ErrorIs(t, s.ToggleMajor("missing", true), errors.ErrCourseNotFound)
}

func TestSetPremiumResizesSlotsOnly(t *testing.T) {
	s := loadedSession(t)
	before := model.CloneCourses(s.Current)

	s.SetPremium(true)
	assert.Equal(t, 5, s.MaxSlots())
	assert.Equal(t, retake.TierPremium, s.Tier())
	require.NoError(t, s.SelectCourse(4, "os"))

	s.SetPremium(false)
	assert.Equal(t, 2, s.MaxSlots())
	assert.ErrorIs(t, s.SelectCourse(2, "os"), errors.ErrSlotOutOfRange)
	assert.Equal(t, before, s.Current)
}

func TestLoadKeepsPremiumAndDropsSlots(t *testing.T) {
	s := loadedSession(t)
	s.SetPremium(true)
	require.NoError(t, s.SelectCourse(3, "os"))

	s.Load(parsedCourses()[:2], nil)
	assert.True(t, s.Premium)
	assert.Equal(t, 5, s.MaxSlots())
	assert.Empty(t, filterOccupied(s.Slots()))
	assert.Nil(t, s.Skipped)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := loadedSession(t)
	s.SetPremium(true)
	require.NoError(t, s.SelectCourse(2, "os"))
	require.NoError(t, s.SetReplacementGrade(2, "A0"))
	_, err := s.Simulate()
	require.NoError(t, err)

	restored := FromSnapshot(s.Snapshot())
	assert.Equal(t, s.Snapshot(), restored.Snapshot())

	again, err := restored.Simulate()
	require.NoError(t, err)
	assert.Equal(t, s.Simulated, again)
}

func TestEligibleComesFromOriginal(t *testing.T) {
	s := loadedSession(t)
	var ids []string
	for _, c := range s.Eligible() {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []string{"ds", "os", "ph"}, ids)
}

func filterOccupied(slots []retake.Slot) []retake.Slot {
	var out []retake.Slot
	for _, s := range slots {
		if s.Occupied() {
			out = append(out, s)
		}
	}
	return out
}
