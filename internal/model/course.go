package model

// Course rosters are administered elsewhere; this subsystem only reads them
// to roll progress up across a class.
type Course struct {
	UUIDBase
	Name      string `gorm:"size:255;not null" json:"name"`
	Grade     string `gorm:"size:50" json:"grade"`
	TeacherID string `gorm:"index;type:varchar(36)" json:"teacherId"`
	IsActive  bool   `gorm:"default:true" json:"isActive"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseEnrollment struct {
	BaseModel
	CourseID  string `gorm:"uniqueIndex:idx_course_student;type:varchar(36);not null" json:"courseId"`
	StudentID string `gorm:"uniqueIndex:idx_course_student;type:varchar(36);not null" json:"studentId"`
}

func (CourseEnrollment) TableName() string {
	return "course_enrollments"
}
