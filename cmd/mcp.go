package cmd

import (
	"os"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/mcpserver"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the estimate_complexity tool over MCP (stdio)",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing one tool,
estimate_complexity(code, language, output_format).`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			color.Red("Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		// stdout carries the protocol; logs stay on stderr
		s := mcpserver.New(analyzer.NewAnalyzer(cfg), Version, newLogger(cfg))
		if err := s.ServeStdio(); err != nil {
			color.Red("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
