package config

import (
	"strings"
	"testing"

	"github.com/metalagman/todo/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	data, err := yaml.Marshal(Default())
	require.NoError(t, err)

	var settings map[string]any
	require.NoError(t, yaml.Unmarshal(data, &settings))
	assert.NoError(t, ValidateSettings(settings))
}

func TestDefault_Priority(t *testing.T) {
	t.Parallel()

	p, err := Default().Priority()
	require.NoError(t, err)
	assert.Equal(t, task.PriorityMedium, p)

	cfg := Default()
	cfg.DefaultPriority = "HiGh"
	p, err = cfg.Priority()
	require.NoError(t, err)
	assert.Equal(t, task.PriorityHigh, p)

	cfg.DefaultPriority = "someday"
	_, err = cfg.Priority()
	assert.Error(t, err)
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		settings map[string]any
		wantKey  string
	}{
		{name: "empty", settings: map[string]any{}},
		{name: "uppercase priority", settings: map[string]any{"default_priority": "LOW"}},
		{name: "nested", settings: map[string]any{
			"codec": map[string]any{"legacy_escaping": true},
			"log":   map[string]any{"level": "debug", "format": "json"},
		}},
		{name: "unknown key", settings: map[string]any{"database": "sqlite"}, wantKey: "database"},
		{name: "unknown nested key", settings: map[string]any{"log": map[string]any{"color": true}}, wantKey: "log.color"},
		{name: "bad priority", settings: map[string]any{"default_priority": "urgent"}, wantKey: "default_priority"},
		{name: "empty tasks file", settings: map[string]any{"tasks_file": ""}, wantKey: "tasks_file"},
		{name: "bad log level", settings: map[string]any{"log": map[string]any{"level": "trace"}}, wantKey: "log.level"},
		{name: "legacy not bool", settings: map[string]any{"codec": map[string]any{"legacy_escaping": "yes"}}, wantKey: "codec.legacy_escaping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateSettings(tt.settings)
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey+": ")
		})
	}
}

func TestValidateSettings_ReportsEveryKey(t *testing.T) {
	t.Parallel()

	err := ValidateSettings(map[string]any{
		"tasks_file": "",
		"log":        map[string]any{"format": "xml"},
	})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid config: log.format: "), err.Error())
	assert.Contains(t, err.Error(), "; tasks_file: ")
}

func TestDefaults_MatchesDefault(t *testing.T) {
	t.Parallel()

	d := Defaults()
	assert.Equal(t, "tasks.txt", d["tasks_file"])
	assert.Equal(t, "medium", d["default_priority"])
	assert.Equal(t, false, d["codec.legacy_escaping"])
	assert.Equal(t, "info", d["log.level"])
	assert.Equal(t, "console", d["log.format"])
}
