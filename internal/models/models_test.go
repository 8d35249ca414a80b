package models

import (
	"encoding/json"
	"errors"
	"testing"

	"bigocheck/internal/complexity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  Language
	}{
		{"python", LangPython},
		{"Python", LangPython},
		{" py ", LangPython},
		{"java", LangJava},
		{"JAVA", LangJava},
		{"cpp", LangCpp},
		{"C++", LangCpp},
		{"cc", LangCpp},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLanguage(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLanguageUnknown(t *testing.T) {
	_, err := ParseLanguage("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
}

func TestLanguageForFile(t *testing.T) {
	tests := []struct {
		path string
		want Language
		ok   bool
	}{
		{"main.py", LangPython, true},
		{"src/Main.java", LangJava, true},
		{"algo.CPP", LangCpp, true},
		{"include/algo.hpp", LangCpp, true},
		{"README.md", "", false},
		{"main.go", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := LanguageForFile(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Python", LangPython.DisplayName())
	assert.Equal(t, "Java", LangJava.DisplayName())
	assert.Equal(t, "C++", LangCpp.DisplayName())
	assert.True(t, LangCpp.BraceDelimited())
	assert.False(t, LangPython.BraceDelimited())
}

func TestCalculateScore(t *testing.T) {
	result := NewAnalysisResult()
	result.CalculateScore()
	assert.Equal(t, 100, result.PerformanceScore)

	result.AddIssue(Issue{Type: IssueNestedLoops, Severity: SeverityMedium})
	result.AddIssue(Issue{Type: IssueSuperlinear, Severity: SeverityLow})
	result.AddIssue(Issue{Type: IssueLanguageMismatch, Severity: SeverityLow})
	result.CalculateScore()

	// 15*1.5 truncated to 22, plus 5, mismatch is free
	assert.Equal(t, 73, result.PerformanceScore)
	assert.Equal(t, 3, result.TotalIssues)
	assert.Equal(t, 2, result.IssuesBySeverity["LOW"])

	for i := 0; i < 5; i++ {
		result.AddIssue(Issue{Type: IssueNestedLoops, Severity: SeverityCritical})
	}
	result.CalculateScore()
	assert.Equal(t, 0, result.PerformanceScore)
}

func TestAddFileTracksWorst(t *testing.T) {
	result := NewAnalysisResult()
	assert.Equal(t, "O(1)", result.WorstComplexity)

	result.AddFile(FileResult{File: "a.py", Estimate: Estimate{Symbol: complexity.Linear, Valid: true}})
	result.AddFile(FileResult{File: "b.py", Estimate: Estimate{Symbol: complexity.Pow(3), Valid: false}})
	result.AddFile(FileResult{File: "c.py", Estimate: Estimate{Symbol: complexity.Pow(2), Valid: true}})

	assert.Len(t, result.Files, 3)
	assert.Equal(t, complexity.Pow(2), result.Worst)
	assert.Equal(t, "O(n^2)", result.WorstComplexity)
}

func TestSeverityJSON(t *testing.T) {
	data, err := json.Marshal(Issue{Severity: SeverityHigh})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"HIGH"`)
}
