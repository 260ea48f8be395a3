package service

import (
	"juegos_edu_backend/internal/model"
)

// LevelStore is the read side of the level catalog.
type LevelStore interface {
	ByGame(gameID string) ([]model.GameLevel, error)
}

// CatalogService answers how a game's levels are laid out. An unknown game
// is an empty catalog, never an error; only storage failures surface.
type CatalogService struct {
	Levels LevelStore
	// DefaultActivities is used when a level has no catalog row.
	DefaultActivities int
}

func NewCatalogService(levels LevelStore, defaultActivities int) *CatalogService {
	if defaultActivities < 1 {
		defaultActivities = 5
	}
	return &CatalogService{Levels: levels, DefaultActivities: defaultActivities}
}

// LevelsForGame returns the game's levels ordered by level ascending.
func (s *CatalogService) LevelsForGame(gameID string) ([]model.GameLevel, error) {
	levels, err := s.Levels.ByGame(gameID)
	if err != nil {
		return nil, err
	}
	return levels, nil
}

// ActivitiesCount returns the activity count for one level, falling back to
// the configured default when the level is not in the catalog.
func (s *CatalogService) ActivitiesCount(gameID string, level int) (int, error) {
	levels, err := s.Levels.ByGame(gameID)
	if err != nil {
		return 0, err
	}
	for _, lv := range levels {
		if lv.Level == level {
			return s.effectiveCount(lv), nil
		}
	}
	return s.DefaultActivities, nil
}

// effectiveCount guards the >=1 invariant for progress math: a misconfigured
// row falls back to the default rather than zeroing out a level.
func (s *CatalogService) effectiveCount(lv model.GameLevel) int {
	if lv.ActivitiesCount < 1 {
		return s.DefaultActivities
	}
	return lv.ActivitiesCount
}

// TotalActivities sums activity counts across all the game's levels; 0 when
// nothing is configured.
func (s *CatalogService) TotalActivities(gameID string) (int, error) {
	levels, err := s.Levels.ByGame(gameID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, lv := range levels {
		total += s.effectiveCount(lv)
	}
	return total, nil
}
