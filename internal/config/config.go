// Package config provides configuration loading and management for todo.
package config

import (
	"fmt"
	"strings"

	"github.com/metalagman/todo/internal/storage"
	"github.com/metalagman/todo/internal/task"
)

// DefaultPath is where init writes the config and where it is looked up.
const DefaultPath = ".todo/config.yaml"

// Config is the root configuration.
type Config struct {
	TasksFile       string    `json:"tasks_file"       mapstructure:"tasks_file"       yaml:"tasks_file"`
	DefaultPriority string    `json:"default_priority" mapstructure:"default_priority" yaml:"default_priority"`
	Codec           CodecConf `json:"codec"            mapstructure:"codec"            yaml:"codec"`
	Log             LogConf   `json:"log"              mapstructure:"log"              yaml:"log"`
}

// CodecConf tunes the tasks file encoding.
type CodecConf struct {
	LegacyEscaping bool `json:"legacy_escaping" mapstructure:"legacy_escaping" yaml:"legacy_escaping"`
}

// LogConf configures the global logger.
type LogConf struct {
	Level  string `json:"level"  mapstructure:"level"  yaml:"level"`
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		TasksFile:       storage.DefaultPath,
		DefaultPriority: strings.ToLower(string(task.PriorityMedium)),
		Log: LogConf{
			Level:  "info",
			Format: "console",
		},
	}
}

// Defaults flattens Default into viper-style dotted keys.
func Defaults() map[string]any {
	d := Default()
	return map[string]any{
		"tasks_file":            d.TasksFile,
		"default_priority":      d.DefaultPriority,
		"codec.legacy_escaping": d.Codec.LegacyEscaping,
		"log.level":             d.Log.Level,
		"log.format":            d.Log.Format,
	}
}

// Priority resolves DefaultPriority.
func (c Config) Priority() (task.Priority, error) {
	p, err := task.ParsePriorityFold(c.DefaultPriority)
	if err != nil {
		return "", fmt.Errorf("default_priority: %w", err)
	}
	return p, nil
}
