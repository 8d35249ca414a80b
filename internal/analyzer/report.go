package analyzer

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"bigocheck/internal/config"
	"bigocheck/internal/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	toon "github.com/toon-format/toon-go"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format     string
	config     *config.Config
	strategies map[models.Language]string
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(format string) *ReportGenerator {
	return &ReportGenerator{
		format: format,
		config: config.DefaultConfig(),
	}
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
	}
}

// WithAnalyzerNames lists the block strategy per language in the verbose
// configuration block.
func (r *ReportGenerator) WithAnalyzerNames(names map[models.Language]string) *ReportGenerator {
	r.strategies = names
	return r
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(result *models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(result)
	case "markdown":
		return r.generateMarkdown(result)
	case "toon":
		return r.generateTOON(result)
	default:
		return r.generateConsole(result)
	}
}

// generateJSON creates a JSON report
func (r *ReportGenerator) generateJSON(result *models.AnalysisResult) string {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data)
}

// generateTOON goes through JSON first so enum fields keep their text form.
func (r *ReportGenerator) generateTOON(result *models.AnalysisResult) string {
	out, err := MarshalTOON(result)
	if err != nil {
		return fmt.Sprintf("Error generating TOON report: %v", err)
	}
	return out
}

// MarshalTOON encodes v as TOON using its JSON field names.
func MarshalTOON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}
	out, err := toon.Marshal(generic, toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (r *ReportGenerator) generateMarkdown(result *models.AnalysisResult) string {
	var report strings.Builder

	report.WriteString("# bigocheck Analysis Report\n\n")
	fmt.Fprintf(&report, "- Files analyzed: %d\n", len(result.Files))
	fmt.Fprintf(&report, "- Worst complexity: `%s`\n", result.WorstComplexity)
	fmt.Fprintf(&report, "- Issues found: %d\n", result.TotalIssues)
	fmt.Fprintf(&report, "- Performance score: %d/100\n\n", result.PerformanceScore)

	if len(result.Files) > 0 {
		report.WriteString("## Files\n\n")
		report.WriteString("| File | Language | Complexity | Loops | Max depth |\n")
		report.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, row := range fileRows(result) {
			fmt.Fprintf(&report, "| %s |\n", strings.Join(row, " | "))
		}
		report.WriteString("\n")
	}

	if len(result.Issues) > 0 {
		report.WriteString("## Issues\n\n")
		for i, issue := range sortedIssues(result) {
			fmt.Fprintf(&report, "### %d. %s %s\n\n", i+1, issue.Severity, strings.ToUpper(string(issue.Type)))
			fmt.Fprintf(&report, "- Location: `%s:%d`\n", issue.File, issue.Line)
			fmt.Fprintf(&report, "- Issue: %s\n", issue.Message)
			if issue.Complexity != "" {
				fmt.Fprintf(&report, "- Complexity: `%s`\n", issue.Complexity)
			}
			if issue.Snippet != "" {
				fmt.Fprintf(&report, "- Code: `%s`\n", issue.Snippet)
			}
			if r.config == nil || r.config.Output.ShowSuggestions {
				fmt.Fprintf(&report, "- Suggestion: %s\n", issue.Suggestion)
			}
			report.WriteString("\n")
		}
	}

	if len(result.Skipped) > 0 {
		report.WriteString("## Skipped\n\n")
		for _, s := range result.Skipped {
			fmt.Fprintf(&report, "- %s\n", s)
		}
		report.WriteString("\n")
	}

	fmt.Fprintf(&report, "_Analysis completed in %s_\n", result.AnalysisDuration)
	return report.String()
}

// generateConsole creates a colorized console report
func (r *ReportGenerator) generateConsole(result *models.AnalysisResult) string {
	var report strings.Builder

	// Check if colors should be used
	useColors := true
	verbose := false
	showSuggestions := true

	if r.config != nil {
		useColors = r.config.Output.Colors
		verbose = r.config.Output.Verbose
		showSuggestions = r.config.Output.ShowSuggestions
	}

	// Header
	if useColors {
		report.WriteString(color.CyanString("🔍 bigocheck Analysis Report\n"))
		report.WriteString(color.WhiteString("═══════════════════════════════════════\n\n"))
	} else {
		report.WriteString("bigocheck Analysis Report\n")
		report.WriteString("=======================================\n\n")
	}

	// Show configuration info if verbose
	if verbose && r.config != nil {
		r.writeConfigInfo(&report, useColors)
	}

	// Summary
	r.writeSummaryWithColors(&report, result, useColors)

	if len(result.Files) > 0 {
		r.writeFileTable(&report, result)
	}

	if verbose {
		r.writeLoopSites(&report, result, useColors)
	}

	// Performance Score
	r.writePerformanceScore(&report, result)

	// Issues by severity
	if len(result.Issues) > 0 {
		r.writeIssuesSummaryWithColors(&report, result, useColors)

		if showSuggestions {
			report.WriteString("\n")
			r.writeDetailedIssuesWithColors(&report, result, useColors)
		}
	} else {
		if useColors {
			report.WriteString(color.GreenString("🎉 No superlinear loops detected! Great job!\n\n"))
		} else {
			report.WriteString("No superlinear loops detected! Great job!\n\n")
		}
	}

	for _, s := range result.Skipped {
		if useColors {
			report.WriteString(color.YellowString("⚠️  Skipped %s\n", s))
		} else {
			fmt.Fprintf(&report, "Skipped %s\n", s)
		}
	}

	// Footer
	if useColors {
		report.WriteString(color.WhiteString("Analysis completed in %s\n", result.AnalysisDuration))
	} else {
		report.WriteString(fmt.Sprintf("Analysis completed in %s\n", result.AnalysisDuration))
	}

	return report.String()
}

func fileRows(result *models.AnalysisResult) [][]string {
	rows := make([][]string, 0, len(result.Files))
	for _, fr := range result.Files {
		rows = append(rows, []string{
			fr.File,
			fr.Estimate.Language.DisplayName(),
			fr.Estimate.Complexity,
			strconv.Itoa(len(fr.Estimate.Loops)),
			strconv.Itoa(fr.Estimate.MaxDepth),
		})
	}
	return rows
}

func (r *ReportGenerator) writeFileTable(w io.Writer, result *models.AnalysisResult) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Footer: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header([]string{"File", "Language", "Complexity", "Loops", "Max depth"})
	for _, row := range fileRows(result) {
		table.Append(row)
	}
	if len(result.Files) > 1 {
		table.Footer("", "Worst", result.WorstComplexity, "", "")
	}
	table.Render()
	fmt.Fprintln(w)
}

func (r *ReportGenerator) writeLoopSites(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	for _, fr := range result.Files {
		if len(fr.Estimate.Loops) == 0 {
			continue
		}
		if useColors {
			report.WriteString(color.WhiteString("🔁 Loops in %s:\n", fr.File))
		} else {
			fmt.Fprintf(report, "Loops in %s:\n", fr.File)
		}
		for _, site := range fr.Estimate.Loops {
			fmt.Fprintf(report, "   %4d  %s%-5s %-10s %s\n",
				site.Line, strings.Repeat("  ", site.Depth-1), site.Kind, site.Symbol.BigO(), site.Header)
		}
		report.WriteString("\n")
	}
}

// writePerformanceScore writes the performance score with color coding
func (r *ReportGenerator) writePerformanceScore(report *strings.Builder, result *models.AnalysisResult) {
	score := result.PerformanceScore
	var scoreColor func(a ...interface{}) string
	var emoji string
	var excellent, good, fair int
	if r.config != nil {
		excellent = r.config.Analysis.ScoreThresholds.Excellent
		good = r.config.Analysis.ScoreThresholds.Good
		fair = r.config.Analysis.ScoreThresholds.Fair
	} else {
		excellent = 90
		good = 75
		fair = 50
	}

	switch {
	case score >= excellent:
		scoreColor = color.New(color.FgGreen).SprintFunc()
		emoji = "🌟"
	case score >= good:
		scoreColor = color.New(color.FgYellow).SprintFunc()
		emoji = "⚡"
	case score >= fair:
		scoreColor = color.New(color.FgHiYellow).SprintFunc()
		emoji = "⚠️"
	default:
		scoreColor = color.New(color.FgRed).SprintFunc()
		emoji = "🚨"
	}
	useColors := true
	if r.config != nil {
		useColors = r.config.Output.Colors
	}

	if useColors {
		scoreText := scoreColor(fmt.Sprintf("%d", score))
		report.WriteString(fmt.Sprintf("%s Performance Score: %s/100\n\n", emoji, scoreText))
	} else {
		report.WriteString(fmt.Sprintf("Performance Score: %d/100\n\n", score))
	}
}

// getSeverityDisplay returns emoji and color function for a severity level
func (r *ReportGenerator) getSeverityDisplay(severity string) (string, func(a ...interface{}) string) {
	switch severity {
	case "CRITICAL":
		return "🚨", color.New(color.FgRed, color.Bold).SprintFunc()
	case "HIGH":
		return "❌", color.New(color.FgRed).SprintFunc()
	case "MEDIUM":
		return "⚠️", color.New(color.FgYellow).SprintFunc()
	case "LOW":
		return "ℹ️", color.New(color.FgBlue).SprintFunc()
	default:
		return "❓", color.New(color.FgWhite).SprintFunc()
	}
}

// CONFIG HELPERS
func (r *ReportGenerator) writeConfigInfo(report *strings.Builder, useColors bool) {
	a := r.config.Analysis
	if useColors {
		report.WriteString(color.WhiteString("📋 Configuration:\n"))
		report.WriteString(fmt.Sprintf("   Size variable: %s, lookahead: %s\n",
			color.CyanString(a.SizeVariable), color.CyanString("%d", a.Lookahead)))
		report.WriteString(fmt.Sprintf("   Score thresholds: %s\n",
			color.CyanString("%d/%d/%d",
				a.ScoreThresholds.Excellent,
				a.ScoreThresholds.Good,
				a.ScoreThresholds.Fair)))
	} else {
		report.WriteString("Configuration:\n")
		report.WriteString(fmt.Sprintf("   Size variable: %s, lookahead: %d\n", a.SizeVariable, a.Lookahead))
		report.WriteString(fmt.Sprintf("   Score thresholds: %d/%d/%d\n",
			a.ScoreThresholds.Excellent,
			a.ScoreThresholds.Good,
			a.ScoreThresholds.Fair))
	}
	for _, lang := range models.Languages {
		name, ok := r.strategies[lang]
		if !ok {
			continue
		}
		if useColors {
			report.WriteString(fmt.Sprintf("   %s: %s\n", lang.DisplayName(), color.CyanString(name)))
		} else {
			report.WriteString(fmt.Sprintf("   %s: %s\n", lang.DisplayName(), name))
		}
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeSummaryWithColors(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📊 Summary:\n"))
		report.WriteString(fmt.Sprintf("   Worst complexity: %s\n", color.YellowString(result.WorstComplexity)))
	} else {
		report.WriteString("Summary:\n")
		report.WriteString(fmt.Sprintf("   Worst complexity: %s\n", result.WorstComplexity))
	}
	report.WriteString(fmt.Sprintf("   Files analyzed: %d\n", len(result.Files)))
	report.WriteString(fmt.Sprintf("   Issues found: %d\n", result.TotalIssues))
	report.WriteString("\n")
}

func (r *ReportGenerator) writeIssuesSummaryWithColors(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("📋 Issues by Severity:\n"))
	} else {
		report.WriteString("Issues by Severity:\n")
	}

	severities := []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}
	for _, severity := range severities {
		count := result.IssuesBySeverity[severity]
		if count > 0 {
			if useColors {
				emoji, colorFunc := r.getSeverityDisplay(severity)
				countText := colorFunc(fmt.Sprintf("%d", count))
				report.WriteString(fmt.Sprintf("   %s %s: %s\n", emoji, severity, countText))
			} else {
				report.WriteString(fmt.Sprintf("   %s: %d\n", severity, count))
			}
		}
	}
}

// sortedIssues orders issues critical first, keeping file order within a
// severity.
func sortedIssues(result *models.AnalysisResult) []models.Issue {
	issues := make([]models.Issue, len(result.Issues))
	copy(issues, result.Issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity > issues[j].Severity
	})
	return issues
}

func (r *ReportGenerator) writeDetailedIssuesWithColors(report *strings.Builder, result *models.AnalysisResult, useColors bool) {
	if useColors {
		report.WriteString(color.WhiteString("\n🔍 Detailed Issues:\n"))
	} else {
		report.WriteString("\nDetailed Issues:\n")
	}
	report.WriteString(strings.Repeat("─", 50) + "\n\n")

	for i, issue := range sortedIssues(result) {
		r.writeIssueDetailWithColors(report, issue, i+1, useColors)
		report.WriteString("\n")
	}
}

func (r *ReportGenerator) writeIssueDetailWithColors(report *strings.Builder, issue models.Issue, index int, useColors bool) {
	if useColors {
		emoji, severityColor := r.getSeverityDisplay(issue.Severity.String())

		// Issue header
		report.WriteString(fmt.Sprintf("%s Issue #%d - %s %s\n",
			emoji, index, severityColor(issue.Severity.String()),
			color.WhiteString(strings.ToUpper(string(issue.Type)))))

		report.WriteString(color.CyanString("   📍 Location: %s:%d\n", issue.File, issue.Line))
		if issue.Snippet != "" {
			report.WriteString(color.CyanString("   📝 Code: %s\n", issue.Snippet))
		}

		report.WriteString(color.WhiteString("   💭 Issue: %s\n", issue.Message))

		if issue.Complexity != "" {
			report.WriteString(color.YellowString("   📊 Complexity: %s\n", issue.Complexity))
		}

		report.WriteString(color.GreenString("   💡 Suggestion:\n"))
		for _, line := range strings.Split(issue.Suggestion, ". ") {
			if strings.TrimSpace(line) != "" {
				report.WriteString(color.GreenString("      %s\n", strings.TrimSpace(line)))
			}
		}
	} else {
		// Plain text version
		report.WriteString(fmt.Sprintf("Issue #%d - %s %s\n",
			index, issue.Severity.String(), strings.ToUpper(string(issue.Type))))

		report.WriteString(fmt.Sprintf("   Location: %s:%d\n", issue.File, issue.Line))
		if issue.Snippet != "" {
			report.WriteString(fmt.Sprintf("   Code: %s\n", issue.Snippet))
		}

		report.WriteString(fmt.Sprintf("   Issue: %s\n", issue.Message))

		if issue.Complexity != "" {
			report.WriteString(fmt.Sprintf("   Complexity: %s\n", issue.Complexity))
		}

		report.WriteString("   Suggestion:\n")
		for _, line := range strings.Split(issue.Suggestion, ". ") {
			if strings.TrimSpace(line) != "" {
				report.WriteString(fmt.Sprintf("      %s\n", strings.TrimSpace(line)))
			}
		}
	}
}

// RenderEstimate formats a single estimate for the MCP tool.
// "json" and "toon" encode the record; anything else gives the three-line
// plain form.
func RenderEstimate(est models.Estimate, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(est, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	case "toon":
		return MarshalTOON(est)
	default:
		return fmt.Sprintf("Language: %s\nComplexity: %s\nExplanation: %s\n",
			est.Language.DisplayName(), est.Complexity, est.Explanation), nil
	}
}
