// Package flatfile stores the fleet in semicolon-delimited text files.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"drivequest-fleet/internal/domain"
)

const (
	backendName = "file"
	separator   = ";"
)

var fieldSanitizer = strings.NewReplacer(separator, ",", "\r", " ", "\n", " ")

// readLines returns the non-blank lines of path with their 1-based line
// numbers. A missing file reads as empty.
func readLines(path string) ([]string, []int, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", domain.ErrPersistence, path, err)
	}
	defer f.Close()

	var (
		lines   []string
		numbers []int
		n       int
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
		numbers = append(numbers, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", domain.ErrPersistence, path, err)
	}
	return lines, numbers, nil
}

// writeLines replaces path with lines through a temp file and a rename, so a
// reader never sees a half-written file.
func writeLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrPersistence, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, path, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %v", domain.ErrPersistence, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrPersistence, path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename into %s: %v", domain.ErrPersistence, path, err)
	}
	return nil
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrPersistence, filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrPersistence, path, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("%w: append %s: %v", domain.ErrPersistence, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrPersistence, path, err)
	}
	return nil
}
