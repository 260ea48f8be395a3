package service

import (
	"fmt"

	"juegos_edu_backend/internal/model"
	"juegos_edu_backend/internal/util"
	"juegos_edu_backend/pkg/logger"
	"juegos_edu_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// AttemptAppender is the write side of the attempt log. Append stamps the
// cumulative point total atomically with the insert.
type AttemptAppender interface {
	Append(attempt *model.GameAttempt) error
}

// UnlockCalculator supplies the unlock level stamped onto records whose
// submission did not carry one.
type UnlockCalculator interface {
	MaxUnlockedLevel(studentID, gameID string) int
}

type SubmissionInput struct {
	StudentID             string `json:"studentId"`
	GameID                string `json:"gameId"`
	Level                 int    `json:"level"`
	Activity              *int   `json:"activity,omitempty"`
	Points                int    `json:"points"`
	Attempts              int    `json:"attempts"`
	CorrectAnswers        *int   `json:"correctAnswers,omitempty"`
	TotalQuestions        *int   `json:"totalQuestions,omitempty"`
	CompletionTimeSeconds *int   `json:"completionTimeSeconds,omitempty"`
	IsCompleted           bool   `json:"isCompleted"`
	MaxUnlockedLevel      *int   `json:"maxUnlockedLevel,omitempty"`
}

// SubmissionService validates incoming attempts and appends them to the log.
// Write failures always propagate: losing an attempt silently is not
// acceptable, unlike the best-effort read paths.
type SubmissionService struct {
	Attempts AttemptAppender
	Unlock   UnlockCalculator
}

func NewSubmissionService(attempts AttemptAppender, unlock UnlockCalculator) *SubmissionService {
	return &SubmissionService{Attempts: attempts, Unlock: unlock}
}

func (s *SubmissionService) Submit(in SubmissionInput) (*model.GameAttempt, error) {
	if err := validateSubmission(in); err != nil {
		return nil, err
	}

	unlocked := 1
	if in.MaxUnlockedLevel != nil {
		unlocked = *in.MaxUnlockedLevel
	} else if s.Unlock != nil {
		unlocked = s.Unlock.MaxUnlockedLevel(in.StudentID, in.GameID)
	}

	attempt := &model.GameAttempt{
		StudentID:             in.StudentID,
		GameID:                in.GameID,
		Level:                 in.Level,
		Activity:              in.Activity,
		Points:                in.Points,
		Attempts:              in.Attempts,
		CorrectAnswers:        in.CorrectAnswers,
		TotalQuestions:        in.TotalQuestions,
		CompletionTimeSeconds: in.CompletionTimeSeconds,
		IsCompleted:           in.IsCompleted,
		MaxUnlockedLevel:      unlocked,
	}

	if err := s.Attempts.Append(attempt); err != nil {
		logger.Log.Error("failed to append attempt",
			zap.String("studentId", in.StudentID), zap.String("gameId", in.GameID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}

	monitoring.AttemptsSubmitted.WithLabelValues(NormalizeGameID(in.GameID)).Inc()
	return attempt, nil
}

func validateSubmission(in SubmissionInput) error {
	if in.StudentID == "" {
		return util.NewValidationError("studentId", "must not be empty")
	}
	if in.GameID == "" {
		return util.NewValidationError("gameId", "must not be empty")
	}
	if in.Level < 1 {
		return util.NewValidationError("level", "must be >= 1")
	}
	if in.Activity != nil && *in.Activity < 1 {
		return util.NewValidationError("activity", "must be >= 1 when present")
	}
	if in.Points < 0 {
		return util.NewValidationError("points", "must be >= 0")
	}
	if in.Attempts < 0 {
		return util.NewValidationError("attempts", "must be >= 0")
	}
	if in.CorrectAnswers != nil && *in.CorrectAnswers < 0 {
		return util.NewValidationError("correctAnswers", "must be >= 0 when present")
	}
	if in.TotalQuestions != nil && *in.TotalQuestions < 0 {
		return util.NewValidationError("totalQuestions", "must be >= 0 when present")
	}
	if in.CorrectAnswers != nil && in.TotalQuestions != nil && *in.CorrectAnswers > *in.TotalQuestions {
		return util.NewValidationError("correctAnswers", "must not exceed totalQuestions")
	}
	if in.CompletionTimeSeconds != nil && *in.CompletionTimeSeconds < 0 {
		return util.NewValidationError("completionTimeSeconds", "must be >= 0 when present")
	}
	if in.MaxUnlockedLevel != nil && *in.MaxUnlockedLevel < 1 {
		return util.NewValidationError("maxUnlockedLevel", "must be >= 1 when present")
	}
	return nil
}
