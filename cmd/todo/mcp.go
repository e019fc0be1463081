package main

import (
	"github.com/metalagman/todo/internal/mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func mcpCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task list as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			priority, err := c.cfg.Priority()
			if err != nil {
				return err
			}
			server := mcpserver.New(c.openStore(), priority, version)
			log.Debug().Msg("serving mcp over stdio")
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
