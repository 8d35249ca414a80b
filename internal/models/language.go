package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sajari/fuzzy"
)

// ErrUnsupportedLanguage is returned when a language name or file extension
// does not map to a supported language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

type Language string

const (
	LangPython Language = "python"
	LangJava   Language = "java"
	LangCpp    Language = "cpp"
)

// Languages lists every supported language in display order.
var Languages = []Language{LangPython, LangJava, LangCpp}

// DisplayName returns the human-facing name, e.g. "C++".
func (l Language) DisplayName() string {
	switch l {
	case LangPython:
		return "Python"
	case LangJava:
		return "Java"
	case LangCpp:
		return "C++"
	default:
		return string(l)
	}
}

// BraceDelimited reports whether blocks in l are delimited by braces rather
// than indentation.
func (l Language) BraceDelimited() bool {
	return l == LangJava || l == LangCpp
}

var languageAliases = map[string]Language{
	"python": LangPython,
	"py":     LangPython,
	"java":   LangJava,
	"cpp":    LangCpp,
	"c++":    LangCpp,
	"cxx":    LangCpp,
	"cc":     LangCpp,
}

var languageExtensions = map[string]Language{
	".py":   LangPython,
	".java": LangJava,
	".cpp":  LangCpp,
	".cc":   LangCpp,
	".cxx":  LangCpp,
	".hpp":  LangCpp,
	".hh":   LangCpp,
	".h":    LangCpp,
}

var (
	suggestOnce  sync.Once
	suggestModel *fuzzy.Model
)

func languageSuggester() *fuzzy.Model {
	suggestOnce.Do(func() {
		model := fuzzy.NewModel()
		model.SetDepth(2)
		model.SetThreshold(1)
		for alias := range languageAliases {
			model.TrainWord(alias)
		}
		suggestModel = model
	})
	return suggestModel
}

// ParseLanguage resolves a language name or alias, case-insensitively.
func ParseLanguage(name string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if lang, ok := languageAliases[key]; ok {
		return lang, nil
	}
	if guess := languageSuggester().SpellCheck(key); guess != "" {
		return "", fmt.Errorf("%w: %q (did you mean %q?)", ErrUnsupportedLanguage, name, guess)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
}

// LanguageForFile maps a file path to a language by extension.
func LanguageForFile(path string) (Language, bool) {
	lang, ok := languageExtensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// IsSourceFile reports whether path has a supported source extension.
func IsSourceFile(path string) bool {
	_, ok := LanguageForFile(path)
	return ok
}
