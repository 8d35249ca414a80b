// Package runner compiles and runs submitted snippets and measures their
// wall-clock time. Each submission gets its own scratch directory. Running
// untrusted code is dangerous, so the runner refuses to work unless it is
// enabled in the configuration.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"bigocheck/internal/config"
	"bigocheck/internal/models"

	"github.com/spf13/afero"
)

var (
	ErrDisabled = errors.New("code execution is disabled")
	ErrTimeout  = errors.New("execution timed out")
)

// sourceNames is the file each language's command expects to find.
var sourceNames = map[models.Language]string{
	models.LangPython: "main.py",
	models.LangJava:   "Main.java",
	models.LangCpp:    "main.cpp",
}

// Result is a successful run.
type Result struct {
	RuntimeMs float64 `json:"runtimeMs"`
	Output    string  `json:"output"`
	Analysis  string  `json:"analysis"`
}

// ExecError reports a program that failed to build or exited badly. Output
// holds whatever it printed to stdout before failing.
type ExecError struct {
	Message string
	Output  string
	Err     error
}

func (e *ExecError) Error() string {
	return e.Message
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

type Runner struct {
	cfg config.RunnerConfig
	fs  afero.Fs
}

func New(cfg config.RunnerConfig) *Runner {
	return &Runner{cfg: cfg, fs: afero.NewOsFs()}
}

func (r *Runner) Enabled() bool {
	return r.cfg.Enabled
}

// Run writes code into a fresh directory and executes the configured
// command for lang there.
func (r *Runner) Run(ctx context.Context, lang models.Language, code string) (*Result, error) {
	if !r.cfg.Enabled {
		return nil, ErrDisabled
	}
	name, ok := sourceNames[lang]
	command := strings.TrimSpace(r.cfg.Commands[string(lang)])
	if !ok || command == "" {
		return nil, fmt.Errorf("%w: %s", models.ErrUnsupportedLanguage, lang)
	}

	dir, err := afero.TempDir(r.fs, "", "bigocheck-run-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	defer r.fs.RemoveAll(dir)

	if err := afero.WriteFile(r.fs, filepath.Join(dir, name), []byte(code), 0600); err != nil {
		return nil, fmt.Errorf("failed to write source: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// compilers may leave children holding the pipes after sh is killed
	cmd.WaitDelay = time.Second

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() == context.DeadlineExceeded {
		return nil, &ExecError{
			Message: fmt.Sprintf("execution timed out after %s", r.cfg.Timeout),
			Output:  stdout.String(),
			Err:     ErrTimeout,
		}
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, &ExecError{Message: msg, Output: stdout.String(), Err: err}
	}

	runtimeMs := float64(elapsed.Microseconds()) / 1000
	return &Result{
		RuntimeMs: runtimeMs,
		Output:    stdout.String(),
		Analysis:  fmt.Sprintf("Code executed in %.2f ms.", runtimeMs),
	}, nil
}
