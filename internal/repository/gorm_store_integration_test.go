//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/nutriai/backend/internal/database"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormStoreIntegration(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("nutriai"),
		postgrescontainer.WithUsername("nutriai"),
		postgrescontainer.WithPassword("nutriai"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pg.Terminate(context.Background())
	})

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	runStoreContract(t, func(t *testing.T) Store {
		// Each contract case starts from empty tables.
		require.NoError(t, db.Exec("TRUNCATE daily_logs, weight_entries, meal_entries, refresh_tokens, user_profiles").Error)
		return NewGormStore(db)
	})
}
