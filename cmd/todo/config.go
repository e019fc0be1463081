package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/metalagman/todo/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const envPrefix = "TODO"

// loadConfig merges defaults, the optional config file, TODO_* environment
// variables and the --file flag, in increasing precedence.
func (c *cli) loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range config.Defaults() {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if flag := cmd.Flags().Lookup("file"); flag != nil {
		if err := v.BindPFlag("tasks_file", flag); err != nil {
			return config.Config{}, fmt.Errorf("bind file flag: %w", err)
		}
	}

	path := resolveConfigPath(c.cfgFile)
	data, err := afero.ReadFile(c.fs, path)
	switch {
	case err == nil:
		if err := readConfigData(v, data); err != nil {
			return config.Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if cmd.Flags().Changed("config") {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
	default:
		return config.Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("parse config: %w", err)
	}
	if strings.TrimSpace(cfg.TasksFile) == "" {
		return config.Config{}, fmt.Errorf("tasks_file must not be empty")
	}
	if _, err := cfg.Priority(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func readConfigData(v *viper.Viper, data []byte) error {
	var settings map[string]any
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if settings == nil {
		return nil
	}
	if err := config.ValidateSettings(settings); err != nil {
		return err
	}
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) string {
	if path == "" {
		return filepath.FromSlash(config.DefaultPath)
	}
	return path
}
