package repository

import (
	"juegos_edu_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var c model.Course
	if err := r.DB.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) StudentIDs(courseID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.CourseEnrollment{}).
		Where("course_id = ?", courseID).
		Pluck("student_id", &ids).Error
	return ids, err
}
