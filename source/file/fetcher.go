package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPathIsDirectory is returned when the path points to a directory instead of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// Fetcher implements settings.DataFetcher for files.
type Fetcher struct {
	filepath string
}

// NewFetcher returns a constructor for a Fetcher reading fpath.
// This pattern is Fx-friendly, allowing the DI container to control when instantiation happens.
// Returns an error if the file cannot be stat'ed or if the path points to a directory.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		cleanPath := filepath.Clean(fpath)

		err := checkRegularFile(cleanPath)
		if err != nil {
			return nil, err
		}

		return &Fetcher{filepath: cleanPath}, nil
	}
}

// Path returns the cleaned file path.
func (f *Fetcher) Path() string {
	return f.filepath
}

// Fetch reads the current file contents.
func (f *Fetcher) Fetch() ([]byte, error) {
	err := checkRegularFile(f.filepath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.filepath) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", f.filepath, err)
	}

	return data, nil
}

func checkRegularFile(cleanPath string) error {
	stat, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	if stat.IsDir() {
		return fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	return nil
}
