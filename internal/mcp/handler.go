// Package mcp exposes the holdings dataset to MCP clients over a
// streamable HTTP endpoint. All tools run against the in-process
// snapshot; there is no upstream server behind them.
package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/fundlens/fundlens/internal/common"
	"github.com/fundlens/fundlens/internal/config"
	"github.com/fundlens/fundlens/internal/handlers"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	tools      []string
}

// NewHandler creates a new MCP handler with the dataset tools registered.
func NewHandler(logger *common.Logger, state handlers.State) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"fundlens",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	tools := []struct {
		tool    mcp.Tool
		handler mcpserver.ToolHandlerFunc
	}{
		{SearchSecuritiesTool(), SearchSecuritiesHandler(state)},
		{SearchFundsTool(), SearchFundsHandler(state)},
		{FundSummaryTool(), FundSummaryHandler(state)},
		{PopularSecuritiesTool(), PopularSecuritiesHandler(state)},
		{VersionTool(), VersionToolHandler(state)},
	}

	names := make([]string, 0, len(tools))
	for _, t := range tools {
		mcpSrv.AddTool(t.tool, t.handler)
		names = append(names, t.tool.Name)
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(names)).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		tools:      names,
	}
}

// Tools returns the registered tool names.
func (h *Handler) Tools() []string {
	result := make([]string, len(h.tools))
	copy(result, h.tools)
	return result
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
