package repository

import (
	"juegos_edu_backend/internal/model"

	"gorm.io/gorm"
)

// LevelRepository reads the level catalog. Catalog content is administered
// by a separate flow; this subsystem never writes it.
type LevelRepository struct {
	DB *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: db}
}

func (r *LevelRepository) ByGame(gameID string) ([]model.GameLevel, error) {
	var levels []model.GameLevel
	err := r.DB.Where("game_id = ? AND is_active = ?", gameID, true).
		Order("level ASC").
		Find(&levels).Error
	return levels, err
}
