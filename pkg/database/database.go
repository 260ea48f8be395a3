package database

import (
	"encoding/json"
	"fmt"
	"log"

	"juegos_edu_backend/internal/config"
	"juegos_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.GameAttempt{},
		&model.GameLevel{},
		&model.Course{},
		&model.CourseEnrollment{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedArithmeticCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedArithmeticCatalog inserts the nine-level arithmetic catalog when the
// table is empty. Level numbering is load-bearing: stored attempts reference
// levels 1-3 as addition, 4-6 as subtraction, 7-9 as multiplication.
func seedArithmeticCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.GameLevel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	difficulties := []string{
		model.LevelDifficultyEasy,
		model.LevelDifficultyMedium,
		model.LevelDifficultyHard,
	}
	ranges := [][2]int{{1, 10}, {1, 20}, {1, 50}}

	for level := 1; level <= 9; level++ {
		operation := model.OperationForLevel(level)
		step := (level - 1) % 3

		cfgBlob, err := json.Marshal(map[string]interface{}{
			"operation": operation,
			"min":       ranges[step][0],
			"max":       ranges[step][1],
		})
		if err != nil {
			return err
		}

		lv := model.GameLevel{
			GameID:          "game-matematicas",
			Level:           level,
			Name:            fmt.Sprintf("Nivel %d", level),
			Description:     fmt.Sprintf("Ejercicios de %s", operation),
			Difficulty:      difficulties[step],
			ActivitiesCount: 5,
			Config:          cfgBlob,
			IsActive:        true,
		}
		if err := db.Create(&lv).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded arithmetic game catalog")
	return nil
}
