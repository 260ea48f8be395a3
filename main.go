package main

import (
	"log"

	"juegos_edu_backend/internal/app"
	"juegos_edu_backend/internal/config"
	"juegos_edu_backend/pkg/configwatcher"
	"juegos_edu_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.OnConfigReload)

	application.Run()
}
