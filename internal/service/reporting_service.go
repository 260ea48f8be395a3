package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"juegos_edu_backend/internal/model"
	"juegos_edu_backend/internal/util"
	"juegos_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportingAttemptStore extends the calculator's view of the log with the
// game- and window-scoped queries dashboards need.
type ReportingAttemptStore interface {
	AttemptStore
	ByGame(gameID string) ([]model.GameAttempt, error)
	ByStudentSince(studentID string, since time.Time) ([]model.GameAttempt, error)
}

type UserStore interface {
	FindByID(id string) (*model.User, error)
}

type CourseStore interface {
	FindByID(id string) (*model.Course, error)
	StudentIDs(courseID string) ([]string, error)
}

type ReportArchiver interface {
	SaveReport(ctx context.Context, studentID, report string) (string, error)
}

// ReportingService composes the calculator, the aggregator and the catalog
// to answer student-, game- and course-level queries, and assembles the
// input for the narrative-report generator.
type ReportingService struct {
	Attempts  ReportingAttemptStore
	Users     UserStore
	Courses   CourseStore
	Progress  *ProgressService
	Catalog   *CatalogService
	Generator TextGenerator
	Archiver  ReportArchiver

	// Cache holds teacher dashboards for CacheTTL; nil disables caching.
	Cache    *redis.Client
	CacheTTL time.Duration

	DefaultReportDays int
}

func NewReportingService(
	attempts ReportingAttemptStore,
	users UserStore,
	courses CourseStore,
	progress *ProgressService,
	catalog *CatalogService,
	generator TextGenerator,
) *ReportingService {
	return &ReportingService{
		Attempts:          attempts,
		Users:             users,
		Courses:           courses,
		Progress:          progress,
		Catalog:           catalog,
		Generator:         generator,
		DefaultReportDays: 7,
	}
}

// GetProgress returns one snapshot when gameID is given, otherwise one per
// game the student has attempted. The student lookup is targeted, so an
// unknown student surfaces as not found; log read failures degrade to an
// empty result instead.
func (s *ReportingService) GetProgress(studentID, gameID string) ([]model.ProgressSnapshot, error) {
	if _, err := s.Users.FindByID(studentID); err != nil {
		return nil, mapLookupError(err)
	}

	if gameID != "" {
		return []model.ProgressSnapshot{s.Progress.StudentProgress(studentID, gameID)}, nil
	}

	records, err := s.Attempts.ByStudent(studentID)
	if err != nil {
		logger.Log.Warn("attempt log unavailable, reporting no progress",
			zap.String("studentId", studentID), zap.Error(err))
		return []model.ProgressSnapshot{}, nil
	}

	// Distinct games in first-seen order, keeping the stored gameId.
	var games []string
	seen := map[string]bool{}
	for i := range records {
		if !seen[records[i].GameID] {
			seen[records[i].GameID] = true
			games = append(games, records[i].GameID)
		}
	}

	snapshots := make([]model.ProgressSnapshot, 0, len(games))
	for _, g := range games {
		snapshots = append(snapshots, s.Progress.StudentProgress(studentID, g))
	}
	return snapshots, nil
}

// GetGameStatistics builds the teacher dashboard for one game: per-student
// aggregates combined across students. A game nobody played yields zeros.
func (s *ReportingService) GetGameStatistics(ctx context.Context, gameID string) (model.GameStatistics, error) {
	cacheKey := "stats:game:" + gameID
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	var stats model.GameStatistics

	records, err := s.Attempts.ByGame(gameID)
	if err != nil {
		logger.Log.Warn("attempt log unavailable, reporting empty game statistics",
			zap.String("gameId", gameID), zap.Error(err))
		return stats, nil
	}
	if len(records) == 0 {
		return stats, nil
	}

	byStudent := map[string][]model.GameAttempt{}
	for i := range records {
		byStudent[records[i].StudentID] = append(byStudent[records[i].StudentID], records[i])
	}

	totalLevels := 0
	if levels, err := s.Catalog.LevelsForGame(gameID); err == nil {
		totalLevels = len(levels)
	} else {
		logger.Log.Warn("catalog unavailable, completion rate undefined",
			zap.String("gameId", gameID), zap.Error(err))
	}

	pointsSum := 0
	accuracySum, accuracyCount := 0.0, 0
	completedStudents := 0

	for _, studentRecords := range byStudent {
		studentPoints := 0
		completedLevels := map[int]bool{}
		for i := range studentRecords {
			studentPoints += studentRecords[i].Points
			if studentRecords[i].IsCompleted {
				completedLevels[studentRecords[i].Level] = true
			}
		}
		pointsSum += studentPoints

		agg := Aggregate(studentRecords)
		if hasScoreData(studentRecords) {
			accuracySum += float64(agg.AverageScore)
			accuracyCount++
		}

		if totalLevels > 0 && len(completedLevels) >= totalLevels {
			completedStudents++
		}
	}

	stats.TotalStudents = len(byStudent)
	stats.AveragePoints = float64(pointsSum) / float64(len(byStudent))
	if accuracyCount > 0 {
		stats.AverageAccuracy = accuracySum / float64(accuracyCount)
	}
	if totalLevels > 0 {
		stats.CompletionRate = float64(completedStudents) / float64(len(byStudent)) * 100
	}

	s.cacheSet(ctx, cacheKey, stats)
	return stats, nil
}

// GetCourseProgressByGame joins the course roster with per-student progress
// and rolls it up per normalized game key.
func (s *ReportingService) GetCourseProgressByGame(ctx context.Context, courseID string) (map[string]model.CourseGameProgress, error) {
	if _, err := s.Courses.FindByID(courseID); err != nil {
		return nil, mapLookupError(err)
	}

	roster, err := s.Courses.StudentIDs(courseID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}

	type rollup struct {
		students      int
		percentageSum float64
		scoreSum      float64
		scoreCount    int
		completed     int
	}
	rollups := map[string]*rollup{}

	for _, studentID := range roster {
		records, err := s.Attempts.ByStudent(studentID)
		if err != nil {
			logger.Log.Warn("attempt log unavailable for course member, skipping",
				zap.String("studentId", studentID), zap.Error(err))
			continue
		}

		agg := Aggregate(records)

		// First raw gameId per normalized key; progress math needs the
		// stored identifier.
		rawByKey := map[string]string{}
		for i := range records {
			key := NormalizeGameID(records[i].GameID)
			if _, ok := rawByKey[key]; !ok {
				rawByKey[key] = records[i].GameID
			}
		}

		for key, raw := range rawByKey {
			r, ok := rollups[key]
			if !ok {
				r = &rollup{}
				rollups[key] = r
			}

			snapshot := s.Progress.StudentProgress(studentID, raw)
			r.students++
			r.percentageSum += snapshot.Percentage
			if snapshot.Percentage >= 100 {
				r.completed++
			}
			if game, ok := agg.ProgressByGame[key]; ok && game.AverageScore > 0 {
				r.scoreSum += float64(game.AverageScore)
				r.scoreCount++
			}
		}
	}

	result := make(map[string]model.CourseGameProgress, len(rollups))
	for key, r := range rollups {
		progress := model.CourseGameProgress{
			StudentsPlayed:    r.students,
			CompletedStudents: r.completed,
		}
		if r.students > 0 {
			progress.AveragePercentage = r.percentageSum / float64(r.students)
		}
		if r.scoreCount > 0 {
			progress.AverageScore = r.scoreSum / float64(r.scoreCount)
		}
		result[key] = progress
	}
	return result, nil
}

// GenerateReport windows the student's recent records, aggregates them and
// hands the summary to the narrative generator.
func (s *ReportingService) GenerateReport(ctx context.Context, studentID string, recentDays int) (*model.StudentReport, error) {
	user, err := s.Users.FindByID(studentID)
	if err != nil {
		return nil, mapLookupError(err)
	}

	if s.Generator == nil {
		return nil, util.ErrReportNotConfigured
	}

	if recentDays <= 0 {
		recentDays = s.DefaultReportDays
	}
	since := time.Now().AddDate(0, 0, -recentDays)

	records, err := s.Attempts.ByStudentSince(studentID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}

	aggregate := Aggregate(records)
	prompt := buildReportPrompt(user, aggregate, len(records), recentDays)

	text, err := s.Generator.Generate(prompt)
	if err != nil {
		return nil, err
	}

	if s.Archiver != nil {
		if _, err := s.Archiver.SaveReport(ctx, studentID, text); err != nil {
			logger.Log.Warn("failed to archive report",
				zap.String("studentId", studentID), zap.Error(err))
		}
	}

	return &model.StudentReport{
		Report:          text,
		StudentName:     user.Name,
		StudentLastname: user.Lastname,
	}, nil
}

func buildReportPrompt(user *model.User, agg model.StudentAggregate, recordCount, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Eres un docente de primaria. Redacta un informe breve y motivador (en español, dirigido a la familia) sobre el progreso de %s %s en los juegos educativos durante los últimos %d días.\n\n",
		user.Name, user.Lastname, days)
	fmt.Fprintf(&b, "Datos del periodo:\n")
	fmt.Fprintf(&b, "- Actividades registradas: %d\n", recordCount)
	fmt.Fprintf(&b, "- Juegos distintos: %d\n", agg.TotalGamesPlayed)
	fmt.Fprintf(&b, "- Puntuación media: %d%%\n", agg.AverageScore)
	for game, progress := range agg.ProgressByGame {
		fmt.Fprintf(&b, "- %s: %d actividades completadas, %d%% de acierto, %d segundos de juego\n",
			game, progress.Completed, progress.AverageScore, progress.TotalTime)
	}
	if recordCount == 0 {
		fmt.Fprintf(&b, "- Sin actividad en el periodo; anima a retomar la práctica.\n")
	}
	fmt.Fprintf(&b, "\nNo inventes datos que no aparezcan arriba. Máximo dos párrafos.")
	return b.String()
}

func hasScoreData(records []model.GameAttempt) bool {
	for i := range records {
		if _, ok := accuracy(&records[i]); ok {
			return true
		}
	}
	return false
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	return fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
}

func (s *ReportingService) cacheGet(ctx context.Context, key string) (model.GameStatistics, bool) {
	var stats model.GameStatistics
	if s.Cache == nil || s.CacheTTL <= 0 {
		return stats, false
	}
	raw, err := s.Cache.Get(ctx, key).Result()
	if err != nil {
		return stats, false
	}
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return stats, false
	}
	return stats, true
}

func (s *ReportingService) cacheSet(ctx context.Context, key string, stats model.GameStatistics) {
	if s.Cache == nil || s.CacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, raw, s.CacheTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache game statistics", zap.String("key", key), zap.Error(err))
	}
}
