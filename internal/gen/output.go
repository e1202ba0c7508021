package gen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var errOutsideDir = errors.New("file name leaves the output directory")

// WriteFiles stores files under outputDir, creating it when needed, and
// returns the paths written in order. A file name must stay inside
// outputDir.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	for _, file := range files {
		if !filepath.IsLocal(file.Filename) {
			return nil, fmt.Errorf("failed to write %q: %w", file.Filename, errOutsideDir)
		}
	}

	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(files))

	for _, file := range files {
		path := filepath.Join(outputDir, file.Filename)

		if err := os.WriteFile(path, file.Content, filePerm); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// rejectedName is where bindings that go/format refused are kept for
// inspection.
func rejectedName(filename string) string {
	return strings.TrimSuffix(filename, ".go") + ".unformatted.go"
}

// keepRejected stores unformattable source beside the intended output.
func keepRejected(outputDir, filename string, content []byte) error {
	_, err := WriteFiles([]GeneratedFile{{Filename: rejectedName(filename), Content: content}}, outputDir)

	return err
}
