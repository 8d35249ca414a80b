package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/config"
	"bigocheck/internal/models"
	"bigocheck/internal/watcher"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "dev"

var (
	formatFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
	languageFlag       string
	outputFlag         string
	verboseFlag        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bigocheck [files or directories]",
	Short: "Estimate the Big-O time complexity of Python, Java and C++ code",
	Long: `bigocheck reads source code line by line, finds the loops and how they
nest, and reports an asymptotic time complexity such as O(n^2) or O(n log n).

Examples:
  bigocheck .                               # Analyze current directory
  bigocheck solution.py Search.java         # Analyze specific files
  cat sort.cpp | bigocheck - --language cpp # Analyze stdin
  bigocheck --format=json .                 # Output results in JSON format
  bigocheck --config=.bigocheck.yml .       # Use custom config
  bigocheck --generate-config               # Generate sample config file
  bigocheck serve                           # Start the HTTP API`,
	Version: Version,
	Run:     runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")

	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json, markdown, toon)")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-analyze files as they change")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language of stdin input (python, java, cpp)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the report to a file")
}

// loadConfig applies the persistent flags on top of the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	if verboseFlag {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

func runAnalysis(cmd *cobra.Command, args []string) {

	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if outputFlag != "" {
		cfg.Output.OutputFile = outputFlag
	}
	if err := cfg.Validate(); err != nil {
		color.Red("Invalid options: %v\n", err)
		os.Exit(1)
	}

	if len(args) == 1 && args[0] == "-" {
		analyzeStdin(cmd.InOrStdin(), cfg)
		return
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if watchFlag {
		runWatch(ctx, cfg, args)
		return
	}

	engine := analyzer.NewAnalyzer(cfg)
	files := collectSourceFiles(engine, args)
	if len(files) == 0 {
		color.Yellow("⚠️  No Python, Java or C++ files found to analyze\n")
		return
	}

	result, err := analyzeFiles(ctx, cfg, files)
	if err != nil {
		color.Red("Analysis failed: %v\n", err)
		os.Exit(1)
	}

	emitReport(cfg, result)

	if !cfg.Output.Colors && result.PerformanceScore < cfg.Analysis.ScoreThresholds.Fair {
		os.Exit(1)
	}
}

func analyzeStdin(in io.Reader, cfg *config.Config) {
	if languageFlag == "" {
		color.Red("Reading from stdin requires --language\n")
		os.Exit(1)
	}
	lang, err := models.ParseLanguage(languageFlag)
	if err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}

	source, err := io.ReadAll(in)
	if err != nil {
		color.Red("Failed to read stdin: %v\n", err)
		os.Exit(1)
	}

	result := analyzer.NewAnalyzer(cfg).AnalyzeSource("<stdin>", string(source), lang)
	emitReport(cfg, result)
}

func collectSourceFiles(engine *analyzer.Analyzer, args []string) []string {
	var files []string
	for _, arg := range args {
		found, err := engine.CollectFiles(arg)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", arg, err)
			continue
		}
		files = append(files, found...)
	}
	return files
}

// analyzeFiles runs one batch, with a progress bar in verbose mode.
func analyzeFiles(ctx context.Context, cfg *config.Config, files []string) (*models.AnalysisResult, error) {
	var opts []analyzer.Option
	var tracker *progressTracker

	if cfg.Output.Verbose {
		color.Cyan("🔍 Analyzing %d files with %d workers...\n", len(files), cfg.Analysis.MaxWorkers)
		if configFlag != "" {
			color.Cyan("📋 Using configuration: %s\n", configFlag)
		}
		tracker = newProgressTracker("Analyzing", len(files))
		opts = append(opts, analyzer.WithProgress(func(string) { tracker.Tick() }))
	} else {
		color.Cyan("🔍 Analyzing %d files...\n\n", len(files))
	}

	result, err := analyzer.NewAnalyzer(cfg, opts...).AnalyzeFiles(ctx, files)
	if tracker != nil {
		tracker.Finish()
	}
	return result, err
}

func emitReport(cfg *config.Config, result *models.AnalysisResult) {
	report := analyzer.NewReportGeneratorWithConfig(cfg).
		WithAnalyzerNames(analyzer.NewAnalyzer(cfg).GetAnalyzerNames()).
		Generate(result)

	if cfg.Output.OutputFile != "" {
		if err := writeReportToFile(report, cfg.Output.OutputFile); err != nil {
			color.Red("Failed to write report to file: %v\n", err)
		} else {
			color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
		}
		return
	}
	fmt.Print(report)
}

func runWatch(ctx context.Context, cfg *config.Config, paths []string) {
	logger := newLogger(cfg)

	fw, err := watcher.NewFileWatcher(cfg, watcher.WithLogger(logger))
	if err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	engine := analyzer.NewAnalyzer(cfg)
	if files := collectSourceFiles(engine, paths); len(files) > 0 {
		if result, err := engine.AnalyzeFiles(ctx, files); err == nil {
			emitReport(cfg, result)
		}
	}

	err = fw.Watch(paths, func(changed []string) error {
		color.Cyan("\n🔄 %d file(s) changed, re-analyzing...\n", len(changed))
		result, err := engine.AnalyzeFiles(ctx, changed)
		if err != nil {
			return err
		}
		emitReport(cfg, result)
		return nil
	})
	if err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}

	color.Cyan("👀 Watching %d directories. Press Ctrl+C to stop.\n", len(fw.GetWatchedPaths()))
	<-ctx.Done()
	color.Cyan("\nStopped watching.\n")
}

func writeReportToFile(report, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(report), 0644)
}

func generateConfig() {
	configPath := ".bigocheck.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize bigocheck behavior\n")
	color.Cyan("🚀 Run 'bigocheck --config=%s .' to use it\n", configPath)
}
