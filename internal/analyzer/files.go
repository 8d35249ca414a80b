package analyzer

import (
	"os"
	"path/filepath"

	"bigocheck/internal/models"

	"github.com/spf13/afero"
)

// CollectFiles recursively finds all supported source files under path. A
// path naming a single file is returned as is when its extension is known.
func (a *Analyzer) CollectFiles(path string) ([]string, error) {
	var sources []string

	err := afero.Walk(a.fs, path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if filePath != path && a.config.ShouldExclude(filePath+string(filepath.Separator)) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 && !a.config.Files.FollowSymlinks {
			return nil
		}

		if models.IsSourceFile(filePath) && !a.config.ShouldExclude(filePath) {
			sources = append(sources, filePath)
		}

		return nil
	})

	return sources, err
}
