package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/models"
	"bigocheck/internal/runner"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	runLanguageFlag string
	runTimeoutFlag  time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Execute a source file and report its runtime",
	Long: `Compile and run a single source file in a temporary directory using the
commands configured under runner.commands, then print its output, the wall-clock
runtime and the static complexity estimate.

Running code must be enabled explicitly with runner.enabled: true.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			color.Red("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if runTimeoutFlag > 0 {
			cfg.Runner.Timeout = runTimeoutFlag
		}

		path := args[0]
		lang, ok := models.LanguageForFile(path)
		if runLanguageFlag != "" {
			lang, err = models.ParseLanguage(runLanguageFlag)
			if err != nil {
				color.Red("%v\n", err)
				os.Exit(1)
			}
		} else if !ok {
			color.Red("Cannot infer language of %s; pass --language\n", path)
			os.Exit(1)
		}

		code, err := os.ReadFile(path)
		if err != nil {
			color.Red("Failed to read %s: %v\n", path, err)
			os.Exit(1)
		}

		res, err := runner.New(cfg.Runner).Run(cmd.Context(), lang, string(code))
		var execErr *runner.ExecError
		switch {
		case errors.Is(err, runner.ErrDisabled):
			color.Yellow("⚠️  %v (set runner.enabled: true in the config file)\n", err)
			os.Exit(1)
		case errors.As(err, &execErr):
			if execErr.Output != "" {
				fmt.Print(execErr.Output)
			}
			color.Red("❌ %s\n", execErr.Message)
			os.Exit(1)
		case err != nil:
			color.Red("Run failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(res.Output)
		color.Green("✅ %s\n", res.Analysis)

		est := analyzer.NewAnalyzer(cfg).Estimate(string(code), lang)
		color.Cyan("📈 Estimated complexity: %s\n", est.Complexity)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runLanguageFlag, "language", "l", "", "Language of the file (inferred from the extension by default)")
	runCmd.Flags().DurationVar(&runTimeoutFlag, "timeout", 0, "Execution timeout (overrides runner.timeout)")
	rootCmd.AddCommand(runCmd)
}
