package analyzer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bigocheck/internal/analyzer/blocks"
	"bigocheck/internal/complexity"
	"bigocheck/internal/config"
	"bigocheck/internal/models"

	"github.com/cespare/xxhash/v2"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
)

const (
	emptyExplanation    = "No code detected; constant time complexity."
	mismatchExplanation = "The pasted code does not look like valid Python code. Please double-check language selection or code."
	mismatchComplexity  = "N/A"
)

type Analyzer struct {
	config     *config.Config
	fs         afero.Fs
	strategies map[models.Language]blocks.BlockAnalyzer
	onProgress ProgressFunc
}

// ProgressFunc is called once per file handled by AnalyzeFiles.
type ProgressFunc func(file string)

type Option func(*Analyzer)

// WithFs replaces the filesystem files are read from.
func WithFs(fs afero.Fs) Option {
	return func(a *Analyzer) { a.fs = fs }
}

func WithProgress(fn ProgressFunc) Option {
	return func(a *Analyzer) { a.onProgress = fn }
}

func NewAnalyzer(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	analyzer := &Analyzer{
		config:     cfg,
		fs:         afero.NewOsFs(),
		strategies: make(map[models.Language]blocks.BlockAnalyzer, len(models.Languages)),
	}
	for _, opt := range opts {
		opt(analyzer)
	}

	blockOpts := []blocks.Option{
		blocks.WithSizeVariable(cfg.Analysis.SizeVariable),
		blocks.WithLookahead(cfg.Analysis.Lookahead),
	}
	for _, lang := range models.Languages {
		analyzer.strategies[lang] = blocks.ForLanguage(lang, blockOpts...)
	}

	return analyzer
}

// Estimate computes the complexity of one snippet. It never fails: text that
// does not look like the selected language comes back with Valid unset.
func (a *Analyzer) Estimate(source string, lang models.Language) models.Estimate {
	est := models.Estimate{
		Language:    lang,
		Symbol:      complexity.Constant,
		Loops:       []models.LoopSite{},
		Valid:       true,
		Fingerprint: Fingerprint(source),
	}

	if strings.TrimSpace(source) == "" {
		est.Complexity = complexity.Constant.BigO()
		est.Explanation = emptyExplanation
		return est
	}

	if !looksLike(source, lang) {
		est.Valid = false
		est.Complexity = mismatchComplexity
		est.Explanation = mismatchExplanation
		return est
	}

	strategy, ok := a.strategies[lang]
	if !ok {
		strategy = blocks.ForLanguage(lang)
	}
	res := strategy.Analyze(splitLines(source))

	est.Symbol = res.Symbol
	est.Complexity, est.Explanation = complexity.Format(res.Symbol)
	est.MaxDepth = res.MaxDepth
	if res.Loops != nil {
		est.Loops = res.Loops
	}
	return est
}

// looksLike is a cheap shape check. Python never uses braces or semicolons
// in the snippets this tool targets; brace languages always pass.
func looksLike(source string, lang models.Language) bool {
	if lang != models.LangPython {
		return true
	}
	return !strings.ContainsAny(source, "{};")
}

func splitLines(source string) []string {
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Fingerprint is a stable content hash used to skip re-analysis of unchanged
// sources.
func Fingerprint(source string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(source))
}

// AnalyzeSource runs a single in-memory snippet through the same pipeline as
// AnalyzeFiles.
func (a *Analyzer) AnalyzeSource(name, source string, lang models.Language) *models.AnalysisResult {
	startTime := time.Now()
	result := models.NewAnalysisResult()

	est := a.Estimate(source, lang)
	result.AddFile(models.FileResult{File: name, Estimate: est})
	for _, issue := range issuesFor(name, est) {
		result.AddIssue(issue)
	}

	result.AnalysisDuration = time.Since(startTime).String()
	result.CalculateScore()
	return result
}

func (a *Analyzer) AnalyzeFiles(ctx context.Context, filenames []string) (*models.AnalysisResult, error) {
	startTime := time.Now()
	result := models.NewAnalysisResult()

	files := make([]*models.FileResult, len(filenames))
	var (
		mu      sync.Mutex
		skipped []string
	)

	p := pool.New().WithMaxGoroutines(max(a.config.Analysis.MaxWorkers, 1)).WithContext(ctx)
	for i, filename := range filenames {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, err := a.analyzeFile(filename)
			if a.onProgress != nil {
				a.onProgress(filename)
			}
			if err != nil {
				// Skip unreadable files but continue with the others
				mu.Lock()
				skipped = append(skipped, fmt.Sprintf("%s: %v", filename, err))
				mu.Unlock()
				return nil
			}
			files[i] = fr
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	for _, fr := range files {
		if fr == nil {
			continue
		}
		result.AddFile(*fr)
		for _, issue := range issuesFor(fr.File, fr.Estimate) {
			result.AddIssue(issue)
		}
	}
	result.Skipped = skipped

	result.AnalysisDuration = time.Since(startTime).String()
	result.CalculateScore()
	return result, nil
}

func (a *Analyzer) analyzeFile(filename string) (*models.FileResult, error) {
	lang, ok := models.LanguageForFile(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedLanguage, filename)
	}

	info, err := a.fs.Stat(filename)
	if err != nil {
		return nil, err
	}
	if limit := a.config.MaxFileBytes(); limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("file exceeds max_file_size (%d KB)", a.config.Files.MaxFileSize)
	}

	data, err := afero.ReadFile(a.fs, filename)
	if err != nil {
		return nil, err
	}

	return &models.FileResult{File: filename, Estimate: a.Estimate(string(data), lang)}, nil
}

// GetAnalyzerNames returns the block strategy used per language
func (a *Analyzer) GetAnalyzerNames() map[models.Language]string {
	names := make(map[models.Language]string, len(a.strategies))
	for lang, strategy := range a.strategies {
		names[lang] = strategy.Name()
	}
	return names
}
