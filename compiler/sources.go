package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the extension of samo source files
const SourceExt = ".samo"

// SourceSet collects the files of one checker run
type SourceSet struct {
	files []string
	seen  map[string]bool
}

// NewSourceSet creates an empty source set
func NewSourceSet() *SourceSet {
	return &SourceSet{seen: make(map[string]bool)}
}

// Add adds a file, or every samo file directly inside a directory. Files
// named explicitly are taken whatever their extension.
func (s *SourceSet) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		s.add(absPath)
		return nil
	}

	files, err := sourceFilesIn(absPath)
	if err != nil {
		return err
	}
	for _, f := range files {
		s.add(f)
	}
	return nil
}

func (s *SourceSet) add(path string) {
	if s.seen[path] {
		return
	}
	s.seen[path] = true
	s.files = append(s.files, path)
}

// Files returns the collected files in the order they were added
func (s *SourceSet) Files() []string {
	return s.files
}

// Len returns the number of collected files
func (s *SourceSet) Len() int {
	return len(s.files)
}

// sourceFilesIn returns all samo files in a directory, sorted by name
func sourceFilesIn(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), SourceExt) {
			files = append(files, filepath.Join(dirPath, entry.Name()))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no source files found in %s", dirPath)
	}
	return files, nil
}
