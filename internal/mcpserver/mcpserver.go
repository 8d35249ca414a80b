// Package mcpserver exposes the estimator as an MCP tool over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/models"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const ToolName = "estimate_complexity"

type Server struct {
	analyzer *analyzer.Analyzer
	mcp      *server.MCPServer
	logger   *slog.Logger
}

func New(a *analyzer.Analyzer, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		analyzer: a,
		logger:   logger,
		mcp: server.NewMCPServer(
			"bigocheck",
			version,
			server.WithLogging(),
			server.WithRecovery(),
		),
	}

	tool := mcp.NewTool(ToolName,
		mcp.WithDescription("Estimate the Big-O time complexity of a Python, Java or C++ snippet from its loop structure."),
		mcp.WithString("code",
			mcp.Description("Source code to analyze."),
			mcp.Required(),
		),
		mcp.WithString("language",
			mcp.Description("Language of the snippet. Defaults to python."),
			mcp.DefaultString(string(models.LangPython)),
			mcp.Enum("python", "java", "cpp"),
		),
		mcp.WithString("output_format",
			mcp.Description("Format of the result."),
			mcp.DefaultString("text"),
			mcp.Enum("text", "json", "toon"),
		),
	)
	s.mcp.AddTool(tool, s.HandleEstimate)

	return s
}

// HandleEstimate is the handler for the estimate_complexity tool. Bad
// arguments come back as tool errors so the client can correct them.
func (s *Server) HandleEstimate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	code, ok := arguments["code"].(string)
	if !ok {
		return toolError("code must be a string"), nil
	}

	lang := models.LangPython
	if name, ok := arguments["language"].(string); ok && name != "" {
		parsed, err := models.ParseLanguage(name)
		if err != nil {
			return toolError(err.Error()), nil
		}
		lang = parsed
	}

	format, _ := arguments["output_format"].(string)

	est := s.analyzer.Estimate(code, lang)
	s.logger.Info("estimate_complexity", "language", lang, "complexity", est.Complexity, "fingerprint", est.Fingerprint)

	text, err := analyzer.RenderEstimate(est, format)
	if err != nil {
		return nil, fmt.Errorf("error rendering estimate: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
		IsError: true,
	}
}

// ServeStdio blocks serving MCP over stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting MCP server via stdio", "tool", ToolName)
	return server.ServeStdio(s.mcp)
}
