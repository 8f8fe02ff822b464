package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/searchgate-io/searchgate-cli/internal/schema"
	"github.com/searchgate-io/searchgate-cli/internal/search"
)

// SearchToolName is the tool name exposed over MCP and embedded in the
// gateway target schema
const SearchToolName = "search"

// SearchTool declares the Google Custom Search tool
func SearchTool() mcp.Tool {
	return mcp.NewTool(SearchToolName,
		mcp.WithDescription("Search Google Custom Search Engine and return normalized results."),
		mcp.WithString("q",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("num",
			mcp.DefaultNumber(5),
			mcp.Description("Number of results to return (1-10)"),
		),
		mcp.WithNumber("start",
			mcp.DefaultNumber(1),
			mcp.Description("1-based starting index for pagination"),
		),
		mcp.WithString("siteSearch",
			mcp.Description("Restrict search to a specific site"),
		),
		mcp.WithString("safe",
			mcp.Enum("off", "medium", "high"),
			mcp.Description("Safe search level"),
		),
		mcp.WithString("gl",
			mcp.Description("Country code for geolocation, e.g. \"us\""),
		),
		mcp.WithString("hl",
			mcp.Description("Interface language code, e.g. \"en\""),
		),
		mcp.WithString("lr",
			mcp.Description("Language restriction, e.g. \"lang_en\""),
		),
		mcp.WithBoolean("useSiteRestrict",
			mcp.DefaultBool(false),
			mcp.Description("Use the stricter site-restricted endpoint"),
		),
	)
}

// SearchHandler adapts the search client to an MCP tool handler
func SearchHandler(client *search.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := req.RequireString("q")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		query := search.Query{
			Q:               q,
			Num:             req.GetInt("num", 5),
			Start:           req.GetInt("start", 1),
			SiteSearch:      req.GetString("siteSearch", ""),
			Safe:            req.GetString("safe", ""),
			GL:              req.GetString("gl", ""),
			HL:              req.GetString("hl", ""),
			LR:              req.GetString("lr", ""),
			UseSiteRestrict: req.GetBool("useSiteRestrict", false),
		}

		resp, err := client.Search(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal search response: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

// Register adds every tool to the MCP server
func Register(s *server.MCPServer, client *search.Client) {
	s.AddTool(SearchTool(), SearchHandler(client))
}

// Manifest builds the raw tool manifest from the registry. This is the
// in-process replacement for dumping the schema through a stdio subprocess:
// the declarations above are the single source of truth.
func Manifest() (*schema.Manifest, error) {
	tool := SearchTool()
	data, err := json.Marshal(tool)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool declaration: %w", err)
	}
	var entry schema.Tool
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode tool declaration: %w", err)
	}
	return &schema.Manifest{Tools: []schema.Tool{entry}}, nil
}
