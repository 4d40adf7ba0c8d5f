package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist. Preserved files that already
// exist are left alone unless overwritePreserved is set. The names of the
// files written are returned.
func WriteFiles(files []GeneratedFile, outputDir string, overwritePreserved bool) ([]string, error) {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		if file.Preserve && !overwritePreserved {
			_, err := os.Stat(outputPath)
			if err == nil {
				continue
			}

			if !errors.Is(err, fs.ErrNotExist) {
				return written, fmt.Errorf("checking file %s: %w", file.Filename, err)
			}
		}

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		written = append(written, file.Filename)
	}

	return written, nil
}
