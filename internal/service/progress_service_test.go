package service

import (
	"testing"
	"time"

	"juegos_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameID = "game-matematicas"

func newProgressService(attempts *fakeAttemptStore, levels *fakeLevelStore) *ProgressService {
	catalog := NewCatalogService(levels, 5)
	return NewProgressService(attempts, catalog, true)
}

func attemptAt(studentID string, level int, activity *int, completed bool, at time.Time) model.GameAttempt {
	a := model.GameAttempt{
		StudentID:   studentID,
		GameID:      gameID,
		Level:       level,
		Activity:    activity,
		IsCompleted: completed,
	}
	a.CreatedAt = at
	return a
}

func TestAbsoluteActivityNumberPrefixSums(t *testing.T) {
	// For counts a1..an, absolute(level k, activity a) == sum(a1..a_{k-1}) + a.
	counts := []int{5, 3, 4}
	s := newProgressService(&fakeAttemptStore{}, catalogOf(gameID, counts...))

	prefix := 0
	for k := 1; k <= len(counts); k++ {
		for a := 1; a <= counts[k-1]; a++ {
			got := s.AbsoluteActivityNumber(gameID, k, intp(a))
			assert.Equal(t, prefix+a, got, "level %d activity %d", k, a)
		}
		prefix += counts[k-1]
	}
}

func TestAbsoluteActivityNumberNilActivityMeansFullLevel(t *testing.T) {
	s := newProgressService(&fakeAttemptStore{}, catalogOf(gameID, 5, 3))

	assert.Equal(t, 5, s.AbsoluteActivityNumber(gameID, 1, nil))
	assert.Equal(t, 8, s.AbsoluteActivityNumber(gameID, 2, nil))
}

func TestAbsoluteActivityNumberCatalogFailureReturnsRawActivity(t *testing.T) {
	s := newProgressService(&fakeAttemptStore{}, &fakeLevelStore{err: errStoreDown})

	assert.Equal(t, 2, s.AbsoluteActivityNumber(gameID, 2, intp(2)))
}

func TestStudentProgressNoRecords(t *testing.T) {
	s := newProgressService(&fakeAttemptStore{}, catalogOf(gameID, 5, 3))

	snapshot := s.StudentProgress("alumna-1", gameID)

	assert.Zero(t, snapshot.Percentage)
	assert.Zero(t, snapshot.AbsoluteActivityNumber)
	assert.Zero(t, snapshot.TotalActivities)
	assert.Nil(t, snapshot.LastActivity)
}

func TestStudentProgressScenario(t *testing.T) {
	// Catalog [5,3], latest completed record at level=2 activity=2:
	// absolute 7 of 8 total, 87.5%.
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 1, intp(5), true, time.Now().Add(-time.Hour)),
		attemptAt("alumna-1", 2, intp(2), true, time.Now()),
	}}
	s := newProgressService(attempts, catalogOf(gameID, 5, 3))

	snapshot := s.StudentProgress("alumna-1", gameID)

	assert.Equal(t, 7, snapshot.AbsoluteActivityNumber)
	assert.Equal(t, 8, snapshot.TotalActivities)
	assert.Equal(t, 87.5, snapshot.Percentage)
	require.NotNil(t, snapshot.LastActivity)
	assert.Equal(t, 2, snapshot.LastActivity.Level)
	assert.Equal(t, 2, snapshot.LastActivity.Activity)
}

func TestStudentProgressPicksMostAdvancedNotMostRecent(t *testing.T) {
	// An older record at a higher level outranks a newer one below it.
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 2, intp(1), false, time.Now().Add(-time.Hour)),
		attemptAt("alumna-1", 1, intp(4), false, time.Now()),
	}}
	s := newProgressService(attempts, catalogOf(gameID, 5, 3))

	snapshot := s.StudentProgress("alumna-1", gameID)

	require.NotNil(t, snapshot.LastActivity)
	assert.Equal(t, 2, snapshot.LastActivity.Level)
	assert.Equal(t, 6, snapshot.AbsoluteActivityNumber)
}

func TestStudentProgressPercentageStaysInBounds(t *testing.T) {
	// An attempt past the configured catalog cannot push past 100%.
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 4, intp(5), true, time.Now()),
	}}
	s := newProgressService(attempts, catalogOf(gameID, 5, 3))

	snapshot := s.StudentProgress("alumna-1", gameID)

	assert.LessOrEqual(t, snapshot.Percentage, 100.0)
	assert.GreaterOrEqual(t, snapshot.Percentage, 0.0)
	assert.Equal(t, 100.0, snapshot.Percentage)
}

func TestStudentProgressZeroTotalSentinel(t *testing.T) {
	// Unconfigured game: percentage forced to 0 while lastActivity is
	// still reported.
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 1, intp(2), false, time.Now()),
	}}
	s := newProgressService(attempts, &fakeLevelStore{levels: map[string][]model.GameLevel{}})

	snapshot := s.StudentProgress("alumna-1", gameID)

	assert.Zero(t, snapshot.Percentage)
	assert.Zero(t, snapshot.TotalActivities)
	require.NotNil(t, snapshot.LastActivity)
	assert.Equal(t, 1, snapshot.LastActivity.Level)
	assert.Equal(t, 2, snapshot.LastActivity.Activity)
}

func TestMaxUnlockedLevelDefaultsToOne(t *testing.T) {
	s := newProgressService(&fakeAttemptStore{}, catalogOf(gameID, 5, 3))
	assert.Equal(t, 1, s.MaxUnlockedLevel("alumna-1", gameID))

	// Incomplete attempts never unlock anything.
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 2, intp(3), false, time.Now()),
	}}
	s = newProgressService(attempts, catalogOf(gameID, 5, 3))
	assert.Equal(t, 1, s.MaxUnlockedLevel("alumna-1", gameID))
}

func TestMaxUnlockedLevelFullClearUnlocksNext(t *testing.T) {
	// Catalog [5,3], completed level 1 activity 5 unlocks level 2.
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 1, intp(5), true, time.Now()),
	}}
	s := newProgressService(attempts, catalogOf(gameID, 5, 3))

	assert.Equal(t, 2, s.MaxUnlockedLevel("alumna-1", gameID))
}

func TestMaxUnlockedLevelPartialClearStays(t *testing.T) {
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 2, intp(2), true, time.Now()),
	}}
	s := newProgressService(attempts, catalogOf(gameID, 5, 3))

	assert.Equal(t, 2, s.MaxUnlockedLevel("alumna-1", gameID))
}

func TestMaxUnlockedLevelNilActivityCountsAsFullClear(t *testing.T) {
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 1, nil, true, time.Now()),
	}}
	s := newProgressService(attempts, catalogOf(gameID, 5, 3))

	assert.Equal(t, 2, s.MaxUnlockedLevel("alumna-1", gameID))
}

func TestMaxUnlockedLevelCatalogFailureDoesNotIncrement(t *testing.T) {
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 2, intp(3), true, time.Now()),
	}}
	s := newProgressService(attempts, &fakeLevelStore{err: errStoreDown})

	assert.Equal(t, 2, s.MaxUnlockedLevel("alumna-1", gameID))
}

func TestMaxUnlockedLevelOptimisticPastLastLevel(t *testing.T) {
	attempts := &fakeAttemptStore{records: []model.GameAttempt{
		attemptAt("alumna-1", 2, intp(3), true, time.Now()),
	}}

	optimistic := newProgressService(attempts, catalogOf(gameID, 5, 3))
	assert.Equal(t, 3, optimistic.MaxUnlockedLevel("alumna-1", gameID))

	conservative := NewProgressService(attempts, NewCatalogService(catalogOf(gameID, 5, 3), 5), false)
	assert.Equal(t, 2, conservative.MaxUnlockedLevel("alumna-1", gameID))
}

func TestMaxUnlockedLevelMonotonic(t *testing.T) {
	// Appending completed records never lowers the unlock level.
	attempts := &fakeAttemptStore{}
	s := newProgressService(attempts, catalogOf(gameID, 5, 3, 4))

	history := []model.GameAttempt{
		attemptAt("alumna-1", 1, intp(3), true, time.Now()),
		attemptAt("alumna-1", 1, intp(5), true, time.Now()),
		attemptAt("alumna-1", 2, intp(1), true, time.Now()),
		attemptAt("alumna-1", 1, intp(2), true, time.Now()), // replayed an old level
		attemptAt("alumna-1", 2, nil, true, time.Now()),
	}

	previous := s.MaxUnlockedLevel("alumna-1", gameID)
	require.Equal(t, 1, previous)
	for i := range history {
		attempts.records = append(attempts.records, history[i])
		current := s.MaxUnlockedLevel("alumna-1", gameID)
		assert.GreaterOrEqual(t, current, previous)
		assert.GreaterOrEqual(t, current, 1)
		previous = current
	}
	assert.Equal(t, 3, previous)
}

func TestStudentProgressStoreFailureDegrades(t *testing.T) {
	s := newProgressService(&fakeAttemptStore{err: errStoreDown}, catalogOf(gameID, 5, 3))

	snapshot := s.StudentProgress("alumna-1", gameID)
	assert.Zero(t, snapshot.Percentage)
	assert.Nil(t, snapshot.LastActivity)

	assert.Equal(t, 1, s.MaxUnlockedLevel("alumna-1", gameID))
}
