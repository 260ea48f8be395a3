package service

import (
	"testing"

	"juegos_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() SubmissionInput {
	return SubmissionInput{
		StudentID:      "alumna-1",
		GameID:         "game-matematicas",
		Level:          1,
		Activity:       intp(2),
		Points:         10,
		Attempts:       1,
		CorrectAnswers: intp(8),
		TotalQuestions: intp(10),
		IsCompleted:    true,
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*SubmissionInput)
	}{
		{"studentId", func(in *SubmissionInput) { in.StudentID = "" }},
		{"gameId", func(in *SubmissionInput) { in.GameID = "" }},
		{"level", func(in *SubmissionInput) { in.Level = 0 }},
		{"activity", func(in *SubmissionInput) { in.Activity = intp(0) }},
		{"points", func(in *SubmissionInput) { in.Points = -1 }},
		{"attempts", func(in *SubmissionInput) { in.Attempts = -1 }},
		{"correctAnswers", func(in *SubmissionInput) { in.CorrectAnswers = intp(-1) }},
		{"totalQuestions", func(in *SubmissionInput) { in.TotalQuestions = intp(-1) }},
		{"correctAnswers", func(in *SubmissionInput) { in.CorrectAnswers = intp(11) }},
		{"completionTimeSeconds", func(in *SubmissionInput) { in.CompletionTimeSeconds = intp(-5) }},
		{"maxUnlockedLevel", func(in *SubmissionInput) { in.MaxUnlockedLevel = intp(0) }},
	}

	store := &fakeAttemptStore{}
	s := NewSubmissionService(store, nil)

	for _, tc := range cases {
		in := validSubmission()
		tc.mutate(&in)

		_, err := s.Submit(in)

		vErr, ok := util.AsValidationError(err)
		require.True(t, ok, "expected validation error for %s", tc.field)
		assert.Equal(t, tc.field, vErr.Field)
	}
	assert.Empty(t, store.appended, "rejected submissions must not reach the log")
}

func TestSubmitOptionalFieldsMayBeAbsent(t *testing.T) {
	s := NewSubmissionService(&fakeAttemptStore{}, nil)

	in := validSubmission()
	in.Activity = nil
	in.CorrectAnswers = nil
	in.TotalQuestions = nil
	in.CompletionTimeSeconds = nil

	attempt, err := s.Submit(in)
	require.NoError(t, err)
	assert.Nil(t, attempt.Activity)
	assert.Nil(t, attempt.CorrectAnswers)
}

func TestSubmitAccumulatesTotalPoints(t *testing.T) {
	store := &fakeAttemptStore{}
	s := NewSubmissionService(store, nil)

	first := validSubmission()
	first.Points = 10
	attempt, err := s.Submit(first)
	require.NoError(t, err)
	assert.Equal(t, 10, attempt.TotalPoints)

	second := validSubmission()
	second.Points = 15
	attempt, err = s.Submit(second)
	require.NoError(t, err)
	assert.Equal(t, 25, attempt.TotalPoints)

	// Another student's total starts from scratch.
	other := validSubmission()
	other.StudentID = "alumna-2"
	other.Points = 7
	attempt, err = s.Submit(other)
	require.NoError(t, err)
	assert.Equal(t, 7, attempt.TotalPoints)
}

func TestSubmitStampsUnlockLevel(t *testing.T) {
	// Explicit value wins over the calculator.
	s := NewSubmissionService(&fakeAttemptStore{}, fixedUnlock{level: 4})
	in := validSubmission()
	in.MaxUnlockedLevel = intp(2)

	attempt, err := s.Submit(in)
	require.NoError(t, err)
	assert.Equal(t, 2, attempt.MaxUnlockedLevel)

	// Absent value is computed.
	in = validSubmission()
	attempt, err = s.Submit(in)
	require.NoError(t, err)
	assert.Equal(t, 4, attempt.MaxUnlockedLevel)

	// No calculator wired: floor of 1.
	s = NewSubmissionService(&fakeAttemptStore{}, nil)
	attempt, err = s.Submit(validSubmission())
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.MaxUnlockedLevel)
}

func TestSubmitStoreFailurePropagates(t *testing.T) {
	s := NewSubmissionService(&fakeAttemptStore{err: errStoreDown}, nil)

	_, err := s.Submit(validSubmission())

	assert.ErrorIs(t, err, util.ErrStoreUnavailable)
}
