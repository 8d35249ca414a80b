package models

import "bigocheck/internal/complexity"

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText keeps severities readable in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type IssueType string

const (
	IssueNestedLoops      IssueType = "nested_loops"
	IssueSuperlinear      IssueType = "superlinear"
	IssueLanguageMismatch IssueType = "language_mismatch"
)

type Issue struct {
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	File       string    `json:"file"`
	Line       int       `json:"line"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion"`
	Complexity string    `json:"complexity,omitempty"` // e.g., "O(n^2)"
	Snippet    string    `json:"code_snippet,omitempty"`
}

// FileResult pairs a source file with its estimate.
type FileResult struct {
	File     string   `json:"file"`
	Estimate Estimate `json:"estimate"`
}

type AnalysisResult struct {
	Files            []FileResult      `json:"files"`
	Skipped          []string          `json:"skipped,omitempty"`
	Worst            complexity.Symbol `json:"worst"`
	WorstComplexity  string            `json:"worst_complexity"`
	TotalIssues      int               `json:"total_issues"`
	IssuesBySeverity map[string]int    `json:"issues_by_severity"`
	Issues           []Issue           `json:"issues"`
	PerformanceScore int               `json:"performance_score"` // 0-100 scale
	AnalysisDuration string            `json:"analysis_duration"`
}

func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Files:            make([]FileResult, 0),
		Issues:           make([]Issue, 0),
		IssuesBySeverity: make(map[string]int),
		WorstComplexity:  complexity.Constant.BigO(),
	}
}

// AddFile records a file's estimate and tracks the worst complexity seen.
func (ar *AnalysisResult) AddFile(fr FileResult) {
	ar.Files = append(ar.Files, fr)
	if fr.Estimate.Valid && complexity.Compare(fr.Estimate.Symbol, ar.Worst) > 0 {
		ar.Worst = fr.Estimate.Symbol
		ar.WorstComplexity = ar.Worst.BigO()
	}
}

func (ar *AnalysisResult) AddIssue(issue Issue) {
	ar.Issues = append(ar.Issues, issue)
	ar.TotalIssues++
	ar.IssuesBySeverity[issue.Severity.String()]++
}

func (ar *AnalysisResult) CalculateScore() {
	if ar.TotalIssues == 0 {
		ar.PerformanceScore = 100
		return
	}

	penalty := 0
	for _, issue := range ar.Issues {
		basePenalty := 0
		switch issue.Severity {
		case SeverityLow:
			basePenalty = 5
		case SeverityMedium:
			basePenalty = 15
		case SeverityHigh:
			basePenalty = 30
		case SeverityCritical:
			basePenalty = 50
		}

		switch issue.Type {
		case IssueNestedLoops:
			basePenalty = int(float64(basePenalty) * 1.5)
		case IssueLanguageMismatch:
			basePenalty = 0 // not a performance problem
		}

		penalty += basePenalty
	}

	ar.PerformanceScore = max(100-penalty, 0)
}
