package service

import (
	"math/rand"
	"testing"
	"time"

	"juegos_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredAttempt(gameID string, correct, total int, completed bool, seconds *int, at time.Time) model.GameAttempt {
	a := model.GameAttempt{
		GameID:                gameID,
		StudentID:             "alumna-1",
		Level:                 1,
		Attempts:              1,
		CorrectAnswers:        intp(correct),
		TotalQuestions:        intp(total),
		CompletionTimeSeconds: seconds,
		IsCompleted:           completed,
	}
	a.CreatedAt = at
	return a
}

func TestNormalizeGameID(t *testing.T) {
	assert.Equal(t, "escritura", NormalizeGameID("game-escritura"))
	assert.Equal(t, "escritura", NormalizeGameID("escritura"))
	assert.Equal(t, "matematicas", NormalizeGameID("game-matematicas"))
}

func TestAggregateEmpty(t *testing.T) {
	agg := Aggregate(nil)

	assert.Zero(t, agg.TotalGamesPlayed)
	assert.Zero(t, agg.AverageScore)
	assert.Nil(t, agg.LastActivity)
	assert.Empty(t, agg.ProgressByGame)
	assert.NotNil(t, agg.ProgressByGame)
}

func TestAggregatePrefixedAndBareIDsShareAKey(t *testing.T) {
	now := time.Now()
	records := []model.GameAttempt{
		scoredAttempt("game-escritura", 8, 10, true, intp(30), now),
		scoredAttempt("escritura", 6, 10, false, intp(20), now.Add(time.Minute)),
	}

	agg := Aggregate(records)

	assert.Equal(t, 1, agg.TotalGamesPlayed)
	require.Contains(t, agg.ProgressByGame, "escritura")
	group := agg.ProgressByGame["escritura"]
	assert.Equal(t, 1, group.Completed)
	assert.Equal(t, 50, group.TotalTime)
	assert.Equal(t, 2, group.TotalAttempts)
	assert.Equal(t, 70, group.AverageScore)
}

func TestAggregateExcludesRecordsWithoutQuestionData(t *testing.T) {
	now := time.Now()
	noAnswers := model.GameAttempt{
		GameID:         "game-escritura",
		StudentID:      "alumna-1",
		Level:          1,
		TotalQuestions: intp(10), // correctAnswers missing: excluded, not 0%
	}
	noAnswers.CreatedAt = now

	records := []model.GameAttempt{
		scoredAttempt("game-escritura", 9, 10, true, nil, now),
		noAnswers,
	}

	agg := Aggregate(records)

	assert.Equal(t, 90, agg.AverageScore)
	assert.Equal(t, 90, agg.ProgressByGame["escritura"].AverageScore)
}

func TestAggregateMissingTimeCountsAsZero(t *testing.T) {
	now := time.Now()
	records := []model.GameAttempt{
		scoredAttempt("game-sumas", 5, 10, true, nil, now),
		scoredAttempt("game-sumas", 5, 10, true, intp(45), now),
	}

	agg := Aggregate(records)

	assert.Equal(t, 45, agg.ProgressByGame["sumas"].TotalTime)
}

func TestAggregateLastActivityIsMaxCreatedAt(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []model.GameAttempt{
		scoredAttempt("game-sumas", 5, 10, true, nil, base.Add(2*time.Hour)),
		scoredAttempt("game-sumas", 5, 10, true, nil, base),
		scoredAttempt("game-escritura", 5, 10, true, nil, base.Add(time.Hour)),
	}

	agg := Aggregate(records)

	require.NotNil(t, agg.LastActivity)
	assert.True(t, agg.LastActivity.Equal(base.Add(2*time.Hour)))
}

func TestAggregateOrderIndependent(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	records := []model.GameAttempt{
		scoredAttempt("game-escritura", 8, 10, true, intp(30), base),
		scoredAttempt("escritura", 3, 10, false, nil, base.Add(time.Minute)),
		scoredAttempt("game-sumas", 10, 10, true, intp(60), base.Add(2*time.Minute)),
		scoredAttempt("game-restas", 7, 10, false, intp(15), base.Add(3*time.Minute)),
	}

	want := Aggregate(records)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]model.GameAttempt, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, want, Aggregate(shuffled))
	}
}

func TestAggregateCountsDistinctGames(t *testing.T) {
	now := time.Now()
	records := []model.GameAttempt{
		scoredAttempt("game-sumas", 5, 10, true, nil, now),
		scoredAttempt("game-sumas", 6, 10, true, nil, now),
		scoredAttempt("game-escritura", 7, 10, true, nil, now),
	}

	agg := Aggregate(records)

	assert.Equal(t, 2, agg.TotalGamesPlayed)
}
