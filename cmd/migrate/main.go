package main

import (
	"github.com/remesalabs/remesa-backend/internal/model"
	pgstore "github.com/remesalabs/remesa-backend/internal/store/postgres"
	"github.com/remesalabs/remesa-backend/internal/utils/config"
	"github.com/remesalabs/remesa-backend/internal/utils/logger"
)

func main() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	db := pgstore.New(appConfig, logger)

	if err := db.AutoMigrate(&model.Transaction{}); err != nil {
		logger.Fatal("failed to migrate database", map[string]string{
			"error": err.Error(),
		})
	}

	logger.Info("migration completed")
}
