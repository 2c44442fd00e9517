package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute(), out.String())
	return out.String()
}

func TestMigrate(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "vault.db")

	out := run(t, "migrate", "--dsn", dsn)
	assert.Contains(t, out, "Schema is up to date")
	assert.FileExists(t, dsn)
}

func TestSeed_Idempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "vault.db")

	out := run(t, "seed", "--dsn", dsn)
	assert.Contains(t, out, "Seeded 4 new platform(s), 0 already present")

	out = run(t, "seed", "--dsn", dsn, "GitHub", "GitLab")
	assert.Contains(t, out, "Seeded 1 new platform(s), 1 already present")

	out = run(t, "stats", "--dsn", dsn)
	assert.Regexp(t, `driver:\s+sqlite`, out)
	assert.Regexp(t, `platforms:\s+5`, out)
	assert.Regexp(t, `secrets:\s+0`, out)
}

func TestSeed_RepeatedNamesCountedOnce(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "vault.db")

	out := run(t, "seed", "--dsn", dsn, "Slack", "Slack", " ")
	assert.Contains(t, out, "Seeded 1 new platform(s), 0 already present")

	out = run(t, "seed", "--dsn", dsn, "Slack", "Slack", "Jira")
	assert.Contains(t, out, "Seeded 1 new platform(s), 1 already present")
}

func TestUnknownCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"drop-everything"})
	assert.Error(t, cmd.Execute())
}
