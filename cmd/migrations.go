package cmd

import (
	"context"

	"github.com/caseproof/caseproof-backend/repositories"
	"github.com/caseproof/caseproof-backend/utils"
)

func RunMigrations() error {
	appConfig := readAppConfiguration()

	logger := utils.NewLogger(appConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	migrater := repositories.NewMigrater(appConfig.pgConfig.GetConnectionString())
	return migrater.Run(ctx)
}
