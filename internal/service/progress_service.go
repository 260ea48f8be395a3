package service

import (
	"math"

	"juegos_edu_backend/internal/model"
	"juegos_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// AttemptStore is the read side of the append-only attempt log.
type AttemptStore interface {
	ByStudent(studentID string) ([]model.GameAttempt, error)
	ByStudentAndGame(studentID, gameID string) ([]model.GameAttempt, error)
}

// ProgressService turns the attempt log into a normalized progress value and
// a level-unlock decision. Every read path is best-effort: a failing catalog
// or store degrades to documented defaults instead of failing the response,
// since these numbers feed a non-critical progress display.
type ProgressService struct {
	Attempts AttemptStore
	Catalog  *CatalogService
	// OptimisticUnlock returns level+1 even when level+1 has no catalog
	// row yet (content published later is already unlocked).
	OptimisticUnlock bool
}

func NewProgressService(attempts AttemptStore, catalog *CatalogService, optimisticUnlock bool) *ProgressService {
	return &ProgressService{
		Attempts:         attempts,
		Catalog:          catalog,
		OptimisticUnlock: optimisticUnlock,
	}
}

// AbsoluteActivityNumber maps a (level, activity) pair onto the game's full
// concatenated activity sequence: the sum of activity counts of every level
// below, plus the activity itself. A nil activity means the level was fully
// completed and counts as its last activity. When the catalog cannot be read
// the raw activity value is returned unchanged.
func (s *ProgressService) AbsoluteActivityNumber(gameID string, level int, activity *int) int {
	levels, err := s.Catalog.LevelsForGame(gameID)
	if err != nil {
		logger.Log.Warn("catalog unavailable, using raw activity number",
			zap.String("gameId", gameID), zap.Int("level", level), zap.Error(err))
		if activity != nil {
			return *activity
		}
		return s.Catalog.DefaultActivities
	}

	counts := make(map[int]int, len(levels))
	for _, lv := range levels {
		counts[lv.Level] = s.Catalog.effectiveCount(lv)
	}

	countAt := func(l int) int {
		if c, ok := counts[l]; ok {
			return c
		}
		return s.Catalog.DefaultActivities
	}

	absolute := 0
	for l := 1; l < level; l++ {
		absolute += countAt(l)
	}

	if activity != nil {
		return absolute + *activity
	}
	return absolute + countAt(level)
}

// StudentProgress computes the student's snapshot for one game from the most
// advanced attempt on record: highest level, then highest activity (a
// level-complete attempt outranks any explicit activity), then most recent.
func (s *ProgressService) StudentProgress(studentID, gameID string) model.ProgressSnapshot {
	empty := model.ProgressSnapshot{GameID: gameID}

	attempts, err := s.Attempts.ByStudentAndGame(studentID, gameID)
	if err != nil {
		logger.Log.Warn("attempt log unavailable, reporting zero progress",
			zap.String("studentId", studentID), zap.String("gameId", gameID), zap.Error(err))
		return empty
	}
	if len(attempts) == 0 {
		return empty
	}

	latest := mostAdvanced(attempts)
	absolute := s.AbsoluteActivityNumber(gameID, latest.Level, latest.Activity)

	total, err := s.Catalog.TotalActivities(gameID)
	if err != nil {
		logger.Log.Warn("catalog unavailable, total activities unknown",
			zap.String("gameId", gameID), zap.Error(err))
		total = 0
	}

	count, cerr := s.Catalog.ActivitiesCount(gameID, latest.Level)
	if cerr != nil {
		count = s.Catalog.DefaultActivities
	}

	snapshot := model.ProgressSnapshot{
		GameID:                 gameID,
		AbsoluteActivityNumber: absolute,
		TotalActivities:        total,
		LastActivity: &model.ActivityRef{
			Level:    latest.Level,
			Activity: latest.ActivityOrFull(count),
		},
	}

	// Zero total is the sentinel for "an attempt exists but progress is
	// undefined": percentage stays 0 while lastActivity is still reported.
	if total > 0 {
		snapshot.Percentage = roundPercentage(float64(absolute) / float64(total) * 100)
	}
	return snapshot
}

// MaxUnlockedLevel derives the highest playable level from completed history.
// Level 1 is always unlocked. A fully cleared level unlocks the next one;
// partial progress never does. Catalog failures fall back to the completed
// level itself, so the decision never regresses below what was earned.
func (s *ProgressService) MaxUnlockedLevel(studentID, gameID string) int {
	attempts, err := s.Attempts.ByStudentAndGame(studentID, gameID)
	if err != nil {
		logger.Log.Warn("attempt log unavailable, unlock level defaults to 1",
			zap.String("studentId", studentID), zap.String("gameId", gameID), zap.Error(err))
		return 1
	}

	var best *model.GameAttempt
	for i := range attempts {
		a := &attempts[i]
		if !a.IsCompleted {
			continue
		}
		if best == nil || moreAdvanced(a, best) {
			best = a
		}
	}
	if best == nil {
		return 1
	}

	level := best.Level
	count, err := s.Catalog.ActivitiesCount(gameID, level)
	if err != nil {
		logger.Log.Warn("catalog unavailable, unlock level not incremented",
			zap.String("gameId", gameID), zap.Int("level", level), zap.Error(err))
		return level
	}

	if best.ActivityOrFull(count) < count {
		return level
	}

	if !s.OptimisticUnlock && !s.hasLevel(gameID, level+1) {
		return level
	}
	return level + 1
}

func (s *ProgressService) hasLevel(gameID string, level int) bool {
	levels, err := s.Catalog.LevelsForGame(gameID)
	if err != nil {
		return false
	}
	for _, lv := range levels {
		if lv.Level == level {
			return true
		}
	}
	return false
}

// mostAdvanced picks the attempt representing the furthest state. Order:
// highest level, then highest activity, then most recent createdAt.
func mostAdvanced(attempts []model.GameAttempt) *model.GameAttempt {
	best := &attempts[0]
	for i := 1; i < len(attempts); i++ {
		if moreAdvanced(&attempts[i], best) {
			best = &attempts[i]
		}
	}
	return best
}

func moreAdvanced(a, b *model.GameAttempt) bool {
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	// A nil activity closed out the whole level and outranks any explicit
	// activity number (activities never exceed the level's count).
	aAct, bAct := activityRank(a), activityRank(b)
	if aAct != bAct {
		return aAct > bAct
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func activityRank(a *model.GameAttempt) int {
	if a.Activity == nil {
		return math.MaxInt32
	}
	return *a.Activity
}

// roundPercentage rounds to two decimals and caps at 100, so 7 of 8
// activities reports 87.5, not 88.
func roundPercentage(pct float64) float64 {
	rounded := math.Round(pct*100) / 100
	return math.Min(100, rounded)
}
