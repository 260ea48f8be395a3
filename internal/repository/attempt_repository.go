package repository

import (
	"time"

	"juegos_edu_backend/internal/model"

	"gorm.io/gorm"
)

// AttemptRepository is the append-only attempt log. There is deliberately no
// update or delete method.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Append inserts the attempt and stamps TotalPoints with the student's
// cumulative total. The total is recomputed from the log with row locks
// inside the same transaction as the insert, so two concurrent submissions
// for one student cannot both read the same prior total (lost update).
func (r *AttemptRepository) Append(attempt *model.GameAttempt) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var previous int
		err := tx.Raw(
			"SELECT COALESCE(SUM(points), 0) FROM game_attempts WHERE student_id = ? FOR UPDATE",
			attempt.StudentID,
		).Scan(&previous).Error
		if err != nil {
			return err
		}

		attempt.TotalPoints = previous + attempt.Points
		return tx.Create(attempt).Error
	})
}

func (r *AttemptRepository) ByStudent(studentID string) ([]model.GameAttempt, error) {
	var attempts []model.GameAttempt
	err := r.DB.Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ByStudentAndGame(studentID, gameID string) ([]model.GameAttempt, error) {
	var attempts []model.GameAttempt
	err := r.DB.Where("student_id = ? AND game_id = ?", studentID, gameID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ByStudentSince(studentID string, since time.Time) ([]model.GameAttempt, error) {
	var attempts []model.GameAttempt
	err := r.DB.Where("student_id = ? AND created_at >= ?", studentID, since).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ByGame(gameID string) ([]model.GameAttempt, error) {
	var attempts []model.GameAttempt
	err := r.DB.Where("game_id = ?", gameID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}
