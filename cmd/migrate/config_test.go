package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsDir_EnvOverride(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")

	assert.Equal(t, "/custom/migrations", migrationsDir())
}

func TestMigrationsDir_Default(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")

	assert.Equal(t, "db/migrations", migrationsDir())
}

func TestCheckArgs(t *testing.T) {
	for _, cmd := range []string{"up", "down", "status"} {
		assert.NoError(t, checkArgs(cmd, ""), cmd)
	}
	assert.NoError(t, checkArgs("create", "add_index"))
	assert.ErrorIs(t, checkArgs("create", ""), errUsage)
	assert.ErrorIs(t, checkArgs("redo", ""), errUsage)
}
