package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fundlens/fundlens/internal/config"
	"github.com/fundlens/fundlens/internal/handlers"
	"github.com/fundlens/fundlens/internal/search"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into a text content result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result"), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}, nil
}

// limitArg reads an optional numeric "limit" argument.
func limitArg(r mcp.CallToolRequest, fallback int) int {
	args := r.GetArguments()
	if args == nil {
		return fallback
	}
	if v, ok := args["limit"].(float64); ok && v > 0 {
		return int(v)
	}
	return fallback
}

// SearchSecuritiesTool returns the tool definition for security search.
func SearchSecuritiesTool() mcp.Tool {
	return mcp.NewTool("search_securities",
		mcp.WithDescription("Search securities by issuer name, CUSIP or ticker. Returns ranked matches with aggregate holding values."),
		mcp.WithString("query", mcp.Description("Free-text query, e.g. a company name or CUSIP"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	)
}

// SearchSecuritiesHandler answers security search calls from the live index.
func SearchSecuritiesHandler(state handlers.State) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := r.GetString("query", "")
		if query == "" {
			return errorResult("Error: query parameter is required"), nil
		}
		matches := state.Engine().Search(query, search.DomainSecurity, limitArg(r, 20))
		return jsonResult(matches)
	}
}

// SearchFundsTool returns the tool definition for fund search.
func SearchFundsTool() mcp.Tool {
	return mcp.NewTool("search_funds",
		mcp.WithDescription("Search institutional funds by manager name or accession number."),
		mcp.WithString("query", mcp.Description("Free-text query, e.g. a fund manager name"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	)
}

// SearchFundsHandler answers fund search calls from the live index.
func SearchFundsHandler(state handlers.State) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := r.GetString("query", "")
		if query == "" {
			return errorResult("Error: query parameter is required"), nil
		}
		matches := state.Engine().Search(query, search.DomainFund, limitArg(r, 20))
		return jsonResult(matches)
	}
}

// FundSummaryTool returns the tool definition for the fund summary view.
func FundSummaryTool() mcp.Tool {
	return mcp.NewTool("fund_summary",
		mcp.WithDescription("Get one fund's filing summary: total value, top holdings with portfolio weights and sector breakdown."),
		mcp.WithString("accession", mcp.Description("The filing's accession number"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of top holdings (default 20)")),
	)
}

// FundSummaryHandler answers fund summary calls from the live snapshot.
func FundSummaryHandler(state handlers.State) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		accession := r.GetString("accession", "")
		if accession == "" {
			return errorResult("Error: accession parameter is required"), nil
		}
		summary, ok := state.Reporter().Summary(accession, limitArg(r, 20))
		if !ok {
			return errorResult("Error: unknown accession " + accession), nil
		}
		return jsonResult(summary)
	}
}

// PopularSecuritiesTool returns the tool definition for the popularity ranking.
func PopularSecuritiesTool() mcp.Tool {
	return mcp.NewTool("popular_securities",
		mcp.WithDescription("Rank securities by how many funds hold them, with aggregate values."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 25)")),
	)
}

// PopularSecuritiesHandler answers popularity calls from the live snapshot.
func PopularSecuritiesHandler(state handlers.State) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(state.Reporter().Popular(limitArg(r, 25)))
	}
}

// VersionTool returns the tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the fundlens server version and dataset status. Use this to verify connectivity."),
	)
}

// VersionToolHandler reports build info and the loaded dataset's shape.
func VersionToolHandler(state handlers.State) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := map[string]any{
			"version":    config.GetVersion(),
			"build":      config.GetBuild(),
			"git_commit": config.GetGitCommit(),
		}
		if snap := state.Snapshot(); snap != nil {
			result["holdings"] = snap.HoldingCount()
			result["funds"] = snap.FundCount()
			result["loaded_at"] = snap.LoadedAt
		}
		return jsonResult(result)
	}
}
