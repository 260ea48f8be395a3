package model

// GameAttempt is one immutable log entry for a submitted activity outcome.
// Rows are only ever inserted; the log per (student, game) is the sole
// source of truth for progress.
type GameAttempt struct {
	UUIDBase

	StudentID string `gorm:"index:idx_attempt_student;index:idx_attempt_student_game;type:varchar(36);not null" json:"studentId"`
	GameID    string `gorm:"index:idx_attempt_student_game;size:100;not null" json:"gameId"`

	Level    int  `gorm:"not null" json:"level"`
	Activity *int `json:"activity,omitempty"`

	Points int `gorm:"default:0" json:"points"`
	// TotalPoints is the student's cumulative point total snapshotted at
	// write time, computed inside the insert transaction.
	TotalPoints int `gorm:"default:0" json:"totalPoints"`

	Attempts              int  `gorm:"default:0" json:"attempts"`
	CorrectAnswers        *int `json:"correctAnswers,omitempty"`
	TotalQuestions        *int `json:"totalQuestions,omitempty"`
	CompletionTimeSeconds *int `json:"completionTimeSeconds,omitempty"`

	IsCompleted      bool `gorm:"default:false" json:"isCompleted"`
	MaxUnlockedLevel int  `gorm:"default:1" json:"maxUnlockedLevel"`
}

func (GameAttempt) TableName() string {
	return "game_attempts"
}

// ActivityOrFull returns the explicit activity number, or fallback when the
// attempt closed out the whole level (no activity recorded).
func (a *GameAttempt) ActivityOrFull(fallback int) int {
	if a.Activity != nil {
		return *a.Activity
	}
	return fallback
}
