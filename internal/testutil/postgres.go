// Package testutil spins up a throwaway postgres container for
// integration tests. Tests that need it are skipped in -short mode.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/devflow/backend/internal/models"
)

// NewTestDB starts a postgres container, migrates the schema, and
// returns a connected gorm DB. The container is terminated when the
// test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("devflow_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Vote{},
		&models.Interaction{},
	))

	return db
}

// SeedUser inserts a user and returns it.
func SeedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// SeedQuestion inserts a question authored by authorID and returns it.
func SeedQuestion(t *testing.T, db *gorm.DB, authorID int, title string) models.Question {
	t.Helper()
	question := models.Question{
		Title:    title,
		Content:  "How do I make derived counters not drift from their source rows?",
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(&question).Error)
	return question
}

// SeedAnswer inserts an answer and bumps the question's counter the way
// the answers service would.
func SeedAnswer(t *testing.T, db *gorm.DB, authorID, questionID int, content string) models.Answer {
	t.Helper()
	answer := models.Answer{
		Content:    content,
		AuthorID:   authorID,
		QuestionID: questionID,
	}
	require.NoError(t, db.Create(&answer).Error)
	require.NoError(t, db.Model(&models.Question{}).
		Where("id = ?", questionID).
		UpdateColumn("answers", gorm.Expr("answers + ?", 1)).Error)
	return answer
}
