//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/database"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/database/dbtest"
)

// TestMigratorIntegration tests the migration functionality
func TestMigratorIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dsn := dbtest.StartPostgres(t)
	db, err := database.NewPool(database.DefaultPoolConfig(dsn))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	t.Run("Up runs migrations successfully", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, dbtest.DatabaseName)
		require.NoError(t, err)
		defer func() { _ = migrator.Close() }()

		require.NoError(t, migrator.Up())
		// A second run is a no-op.
		require.NoError(t, migrator.Up())

		assertTableExists(t, db, "readings")
	})

	t.Run("Version returns current version", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, dbtest.DatabaseName)
		require.NoError(t, err)
		defer func() { _ = migrator.Close() }()

		version, dirty, err := migrator.Version()
		require.NoError(t, err)
		assert.False(t, dirty, "migration should not be dirty")
		assert.Equal(t, uint(1), version, "should be at version 1")
	})

	t.Run("readings table has correct columns", func(t *testing.T) {
		columns := getTableColumns(t, db, "readings")
		for _, col := range []string{
			"id", "session_id", "captured_at", "dominant_emotion",
			"confidence", "emotions", "emotion_vector", "created_at",
		} {
			assert.Contains(t, columns, col, "readings should have column %s", col)
		}

		indexes := getTableIndexes(t, db, "readings")
		assert.Contains(t, indexes, "idx_readings_captured_at")
		assert.Contains(t, indexes, "readings_session_captured_key")
	})

	t.Run("duplicate reading is rejected", func(t *testing.T) {
		insert := `
			INSERT INTO readings (session_id, captured_at, dominant_emotion, confidence, emotions, emotion_vector)
			VALUES ($1, to_timestamp(0), 'happy', 0.9, '{"happy":0.9}', '[0,0.9,0,0,0,0,0]')
		`
		_, err := db.Exec(insert, "session_dup")
		require.NoError(t, err)
		_, err = db.Exec(insert, "session_dup")
		assert.Error(t, err)
	})

	t.Run("Down rolls back", func(t *testing.T) {
		migrator, err := database.NewMigrator(db, dbtest.DatabaseName)
		require.NoError(t, err)
		defer func() { _ = migrator.Close() }()

		require.NoError(t, migrator.Down())

		var exists bool
		require.NoError(t, db.QueryRowContext(context.Background(), `
			SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'readings')
		`).Scan(&exists))
		assert.False(t, exists)
	})
}

// Helper functions

func assertTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()

	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)

	require.NoError(t, err)
	assert.True(t, exists, "table %s should exist", tableName)
}

func getTableColumns(t *testing.T, db *sql.DB, tableName string) []string {
	t.Helper()

	rows, err := db.Query(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = 'public'
		AND table_name = $1
		ORDER BY ordinal_position
	`, tableName)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var col string
		require.NoError(t, rows.Scan(&col))
		columns = append(columns, col)
	}

	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, tableName string) []string {
	t.Helper()

	rows, err := db.Query(`
		SELECT indexname
		FROM pg_indexes
		WHERE schemaname = 'public'
		AND tablename = $1
	`, tableName)
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var indexes []string
	for rows.Next() {
		var idx string
		require.NoError(t, rows.Scan(&idx))
		indexes = append(indexes, idx)
	}

	return indexes
}
