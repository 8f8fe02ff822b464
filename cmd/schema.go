package main

import (
	"github.com/searchgate-io/searchgate-cli/internal/schema"
	"github.com/searchgate-io/searchgate-cli/internal/tools"
	"github.com/spf13/cobra"
)

// Default schema artifact locations
const (
	RawSchemaPath   = "dist/schema/tool-schema-raw.json"
	CleanSchemaPath = "dist/schema/tool-schema.json"
)

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate and sanitize the MCP tool schema",
		Long: `Schema produces the tool manifest the gateway target is attached with.
'dump' writes the full manifest as the MCP server declares it; 'clean' strips
the JSON Schema keywords the gateway's inline tool schema does not accept.`,
	}

	cmd.AddCommand(
		schemaDumpCmd(),
		schemaCleanCmd(),
	)

	return cmd
}

func schemaDumpCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write the raw tool manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := tools.Manifest()
			if err != nil {
				return wrapError("generate tool schema", err)
			}
			if err := manifest.Save(outPath); err != nil {
				return err
			}
			printSuccessMessage("Wrote %d tool(s) to %s", len(manifest.Tools), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "f", RawSchemaPath, "Output file")

	return cmd
}

func schemaCleanCmd() *cobra.Command {
	var (
		inPath  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Sanitize a tool manifest for gateway attachment",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := schema.Load(inPath)
			if err != nil {
				return err
			}

			clean := schema.Sanitize(manifest)

			// Prove the result converts before writing it
			if _, err := clean.ToolDefinitions(); err != nil {
				return wrapError("validate sanitized schema", err)
			}

			if err := clean.Save(outPath); err != nil {
				return err
			}
			printSuccessMessage("Wrote sanitized schema to %s", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", RawSchemaPath, "Input manifest")
	cmd.Flags().StringVarP(&outPath, "out", "f", CleanSchemaPath, "Output file")

	return cmd
}
