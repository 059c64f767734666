package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	for _, dir := range []string{PrimaryMigrations, SecondaryMigrations} {
		entries, err := fs.ReadDir(migrations, dir)
		require.NoError(t, err)
		assert.NotEmpty(t, entries, dir)
	}
}

func TestMigrate_RunsRequestedSet(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var dirs []string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		dirs = append(dirs, dir)
		return nil
	}

	require.NoError(t, Migrate(context.Background(), db, PrimaryMigrations))
	require.NoError(t, Migrate(context.Background(), db, SecondaryMigrations))
	assert.Equal(t, []string{PrimaryMigrations, SecondaryMigrations}, dirs)
}

func TestMigrate_Errors(t *testing.T) {
	db, _ := newMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	assert.ErrorContains(t, Migrate(context.Background(), db, "migrations/other"), "unknown migration set")
	assert.ErrorContains(t, Migrate(context.Background(), db, PrimaryMigrations), "boom")
}
