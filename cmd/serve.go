package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/searchgate-io/searchgate-cli/internal/tools"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Serve runs the search tool as a local MCP server speaking stdio, the
transport MCP clients spawn subprocesses with. Use 'serve http' for a
network-reachable endpoint instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newMCPServer()
			if err != nil {
				return err
			}
			return server.ServeStdio(s)
		},
	}

	cmd.AddCommand(serveHTTPCmd())

	return cmd
}

func serveHTTPCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Run the MCP server over streamable HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newMCPServer()
			if err != nil {
				return err
			}
			httpServer := server.NewStreamableHTTPServer(s,
				server.WithEndpointPath("/mcp"),
			)
			fmt.Printf("Serving MCP on %s/mcp\n", addr)
			return httpServer.Start(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")

	return cmd
}

func newMCPServer() (*server.MCPServer, error) {
	client, err := newSearchClient()
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"searchgate",
		Version,
		server.WithToolCapabilities(false),
	)
	tools.Register(s, client)
	return s, nil
}
