package service

import (
	"math"
	"strings"
	"time"

	"juegos_edu_backend/internal/model"
	"juegos_edu_backend/internal/util"
)

// NormalizeGameID strips the storage-only "game-" prefix so records written
// with and without it group under the same key. The stored gameId is never
// altered.
func NormalizeGameID(gameID string) string {
	return strings.TrimPrefix(gameID, util.GameIDPrefix)
}

// Aggregate reduces one student's attempt records (or any slice the caller
// scopes) into a rollup. Pure: no I/O, deterministic, order-independent.
//
// Records without question data are excluded from score means entirely, not
// counted as 0%. Missing completion times count as 0 seconds.
func Aggregate(records []model.GameAttempt) model.StudentAggregate {
	aggregate := model.StudentAggregate{
		ProgressByGame: map[string]model.AggregatedGameProgress{},
	}
	if len(records) == 0 {
		return aggregate
	}

	var lastActivity time.Time
	scoreSum, scoreCount := 0.0, 0

	type groupAccum struct {
		completed     int
		totalTime     int
		totalAttempts int
		scoreSum      float64
		scoreCount    int
	}
	groups := map[string]*groupAccum{}

	for i := range records {
		r := &records[i]

		if r.CreatedAt.After(lastActivity) {
			lastActivity = r.CreatedAt
		}

		key := NormalizeGameID(r.GameID)
		g, ok := groups[key]
		if !ok {
			g = &groupAccum{}
			groups[key] = g
		}

		if r.IsCompleted {
			g.completed++
		}
		if r.CompletionTimeSeconds != nil {
			g.totalTime += *r.CompletionTimeSeconds
		}
		g.totalAttempts += r.Attempts

		if score, ok := accuracy(r); ok {
			scoreSum += score
			scoreCount++
			g.scoreSum += score
			g.scoreCount++
		}
	}

	aggregate.TotalGamesPlayed = len(groups)
	aggregate.LastActivity = &lastActivity
	if scoreCount > 0 {
		aggregate.AverageScore = int(math.Round(scoreSum / float64(scoreCount)))
	}

	for key, g := range groups {
		progress := model.AggregatedGameProgress{
			Completed:     g.completed,
			TotalTime:     g.totalTime,
			TotalAttempts: g.totalAttempts,
		}
		if g.scoreCount > 0 {
			progress.AverageScore = int(math.Round(g.scoreSum / float64(g.scoreCount)))
		}
		aggregate.ProgressByGame[key] = progress
	}

	return aggregate
}

// accuracy returns the record's score percentage, or false when the record
// carries no usable question data.
func accuracy(r *model.GameAttempt) (float64, bool) {
	if r.CorrectAnswers == nil || r.TotalQuestions == nil || *r.TotalQuestions <= 0 {
		return 0, false
	}
	return float64(*r.CorrectAnswers) / float64(*r.TotalQuestions) * 100, true
}
