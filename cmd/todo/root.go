package main

import (
	"fmt"
	"path/filepath"

	"github.com/metalagman/todo/internal/config"
	"github.com/metalagman/todo/internal/logging"
	"github.com/metalagman/todo/internal/storage"
	"github.com/metalagman/todo/internal/task"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// cli carries state shared by every command of one process.
type cli struct {
	fs       afero.Fs
	cfgFile  string
	tasksArg string
	debug    bool
	cfg      config.Config
	store    *task.Store
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd(&cli{fs: afero.NewOsFs()}).Execute()
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "todo keeps a small list of tasks in a flat file",
		Long:          "todo keeps a small list of tasks in a flat file. Without a subcommand it starts the interactive shell.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return logging.Init(logging.Options{
				Debug:  c.debug,
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Out:    cmd.ErrOrStderr(),
			})
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runShell(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.cfgFile, "config", filepath.FromSlash(config.DefaultPath), "config file path")
	rootCmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&c.tasksArg, "file", "f", "", fmt.Sprintf("tasks file (default %q)", storage.DefaultPath))

	for _, cmd := range taskCmds(c) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(shellCmd(c))
	rootCmd.AddCommand(initCmd(c))
	rootCmd.AddCommand(mcpCmd(c))
	return rootCmd
}

// openStore loads the tasks file once per process.
func (c *cli) openStore() *task.Store {
	if c.store == nil {
		codec := storage.NewCodec(storage.WithLegacyEscaping(c.cfg.Codec.LegacyEscaping))
		file := storage.NewFile(c.fs, c.cfg.TasksFile, codec)
		log.Debug().Str("path", file.Path()).Bool("legacy_escaping", c.cfg.Codec.LegacyEscaping).Msg("opening task store")
		c.store = task.NewStore(file)
	}
	return c.store
}
