package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/metalagman/todo/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func initCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  "Write a default config file to the --config path unless one already exists.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := resolveConfigPath(c.cfgFile)
			if _, err := c.fs.Stat(path); err == nil {
				log.Info().Str("path", path).Msg("config already exists, skipping")
				return nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}

			data, err := yaml.Marshal(config.Default())
			if err != nil {
				return fmt.Errorf("marshal default config: %w", err)
			}
			if err := c.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := afero.WriteFile(c.fs, path, data, 0o644); err != nil {
				return fmt.Errorf("write default config: %w", err)
			}
			log.Info().Str("path", path).Msg("default config installed")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}
}
