package model

import "encoding/json"

const (
	LevelDifficultyEasy   = "easy"
	LevelDifficultyMedium = "medium"
	LevelDifficultyHard   = "hard"
)

// Arithmetic sub-operations multiplexed onto a single game through disjoint
// level ranges: levels 1-3 addition, 4-6 subtraction, 7-9 multiplication.
// Stored data depends on this numbering, do not renumber.
const (
	OperationAddition       = "addition"
	OperationSubtraction    = "subtraction"
	OperationMultiplication = "multiplication"
)

func OperationForLevel(level int) string {
	switch {
	case level <= 3:
		return OperationAddition
	case level <= 6:
		return OperationSubtraction
	default:
		return OperationMultiplication
	}
}

// GameLevel is one catalog entry per (gameId, level). Levels of a game are
// totally ordered by Level; content is managed elsewhere and read-only here.
type GameLevel struct {
	BaseModel

	GameID      string `gorm:"uniqueIndex:idx_game_level;size:100;not null" json:"gameId"`
	Level       int    `gorm:"uniqueIndex:idx_game_level;not null" json:"level"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Difficulty  string `gorm:"type:enum('easy','medium','hard');default:'easy'" json:"difficulty"`

	ActivitiesCount int `gorm:"default:5" json:"activitiesCount"`

	// Config is a schemaless per-game blob (number ranges, colors,
	// operation kind, ...). Read through DecodeConfig.
	Config json.RawMessage `gorm:"type:json" json:"config"`

	IsActive bool `gorm:"default:true" json:"isActive"`
}

func (GameLevel) TableName() string {
	return "game_levels"
}

func (l *GameLevel) DecodeConfig() LevelConfig {
	return ParseLevelConfig(l.Config)
}
