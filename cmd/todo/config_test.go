package main

import (
	"path/filepath"
	"testing"

	"github.com/metalagman/todo/internal/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultPriorityFromFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, config.DefaultPath, "default_priority: low\n")

	require.NoError(t, runCLI(t, fsys, "", "add", "water plants").err)
	assert.Contains(t, readFile(t, fsys, "tasks.txt"), "1|water plants|LOW|false|")
}

func TestConfig_TasksFileFromFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, config.DefaultPath, "tasks_file: data/todo.txt\n")

	require.NoError(t, runCLI(t, fsys, "", "add", "x").err)
	assert.Contains(t, readFile(t, fsys, filepath.Join("data", "todo.txt")), "1|x|MEDIUM|")
}

func TestConfig_FileFlagWins(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, config.DefaultPath, "tasks_file: from-config.txt\n")
	t.Setenv("TODO_TASKS_FILE", "from-env.txt")

	require.NoError(t, runCLI(t, fsys, "", "add", "x", "--file", "from-flag.txt").err)

	exists, err := afero.Exists(fsys, "from-flag.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestConfig_EnvOverridesFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, config.DefaultPath, "tasks_file: from-config.txt\n")
	t.Setenv("TODO_TASKS_FILE", "from-env.txt")
	t.Setenv("TODO_CODEC_LEGACY_ESCAPING", "true")

	require.NoError(t, runCLI(t, fsys, "", "add", "a|b").err)
	assert.Contains(t, readFile(t, fsys, "from-env.txt"), `1|a\|b|MEDIUM|`)
}

func TestConfig_LegacyEscaping(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, config.DefaultPath, "codec:\n  legacy_escaping: true\n")

	require.NoError(t, runCLI(t, fsys, "", "add", `back\slash`).err)
	assert.Contains(t, readFile(t, fsys, "tasks.txt"), `1|back\slash|MEDIUM|`)

	fsys = afero.NewMemMapFs()
	require.NoError(t, runCLI(t, fsys, "", "add", `back\slash`).err)
	assert.Contains(t, readFile(t, fsys, "tasks.txt"), `1|back\\slash|MEDIUM|`)
}

func TestConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
	}{
		{name: "unknown key", content: "database: sqlite\n", args: []string{"list"}},
		{name: "bad priority", content: "default_priority: someday\n", args: []string{"list"}},
		{name: "bad log level", content: "log:\n  level: chatty\n", args: []string{"list"}},
		{name: "not yaml", content: "tasks_file: [\n", args: []string{"list"}},
		{name: "missing explicit config", args: []string{"--config", "nope.yaml", "list"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if tt.content != "" {
				writeTestFile(t, fsys, config.DefaultPath, tt.content)
			}
			assert.Error(t, runCLI(t, fsys, "", tt.args...).err)
		})
	}
}

func TestConfig_EmptyFileUsesDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeTestFile(t, fsys, config.DefaultPath, "")

	require.NoError(t, runCLI(t, fsys, "", "add", "x").err)
	assert.Contains(t, readFile(t, fsys, "tasks.txt"), "1|x|MEDIUM|")
}
