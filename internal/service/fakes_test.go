package service

import (
	"context"
	"errors"
	"time"

	"juegos_edu_backend/internal/model"

	"gorm.io/gorm"
)

var errStoreDown = errors.New("store down")

type fakeLevelStore struct {
	levels map[string][]model.GameLevel
	err    error
}

func (f *fakeLevelStore) ByGame(gameID string) ([]model.GameLevel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.levels[gameID], nil
}

// catalogOf builds a fake store where game has the given activity counts on
// levels 1..n.
func catalogOf(gameID string, counts ...int) *fakeLevelStore {
	levels := make([]model.GameLevel, 0, len(counts))
	for i, c := range counts {
		levels = append(levels, model.GameLevel{
			GameID:          gameID,
			Level:           i + 1,
			Name:            "level",
			ActivitiesCount: c,
			IsActive:        true,
		})
	}
	return &fakeLevelStore{levels: map[string][]model.GameLevel{gameID: levels}}
}

type fakeAttemptStore struct {
	records  []model.GameAttempt
	err      error
	appended []*model.GameAttempt
}

func (f *fakeAttemptStore) filter(pred func(*model.GameAttempt) bool) []model.GameAttempt {
	var out []model.GameAttempt
	for i := range f.records {
		if pred(&f.records[i]) {
			out = append(out, f.records[i])
		}
	}
	return out
}

func (f *fakeAttemptStore) ByStudent(studentID string) ([]model.GameAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(func(a *model.GameAttempt) bool { return a.StudentID == studentID }), nil
}

func (f *fakeAttemptStore) ByStudentAndGame(studentID, gameID string) ([]model.GameAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(func(a *model.GameAttempt) bool {
		return a.StudentID == studentID && a.GameID == gameID
	}), nil
}

func (f *fakeAttemptStore) ByGame(gameID string) ([]model.GameAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(func(a *model.GameAttempt) bool { return a.GameID == gameID }), nil
}

func (f *fakeAttemptStore) ByStudentSince(studentID string, since time.Time) ([]model.GameAttempt, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.filter(func(a *model.GameAttempt) bool {
		return a.StudentID == studentID && !a.CreatedAt.Before(since)
	}), nil
}

// Append mimics the repository: cumulative total computed at write time.
func (f *fakeAttemptStore) Append(attempt *model.GameAttempt) error {
	if f.err != nil {
		return f.err
	}
	previous := 0
	for i := range f.records {
		if f.records[i].StudentID == attempt.StudentID {
			previous += f.records[i].Points
		}
	}
	attempt.TotalPoints = previous + attempt.Points
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	f.records = append(f.records, *attempt)
	f.appended = append(f.appended, attempt)
	return nil
}

type fakeUserStore struct {
	users map[string]*model.User
}

func (f *fakeUserStore) FindByID(id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakeCourseStore struct {
	courses map[string]*model.Course
	roster  map[string][]string
}

func (f *fakeCourseStore) FindByID(id string) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCourseStore) StudentIDs(courseID string) ([]string, error) {
	return f.roster[courseID], nil
}

type fakeGenerator struct {
	prompts []string
	text    string
	err     error
}

func (f *fakeGenerator) Generate(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeArchiver struct {
	saved map[string]string
	err   error
}

func (f *fakeArchiver) SaveReport(_ context.Context, studentID, report string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[studentID] = report
	return "reports/" + studentID, nil
}

type fixedUnlock struct {
	level int
}

func (f fixedUnlock) MaxUnlockedLevel(studentID, gameID string) int {
	return f.level
}

func intp(v int) *int {
	return &v
}
