package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileReader reads declaration and module files, caching contents until the
// file changes on disk
type FileReader struct {
	contentCache *Cache[string, string]
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{
		contentCache: NewCache[string, string](),
	}
}

// ReadFile reads a file and returns its contents as a string with caching
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}

	if cached, exists := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		return cached, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	contentStr := string(content)
	fr.contentCache.SetWithFileInfo(cleanPath, contentStr, cleanPath)

	return contentStr, nil
}

// FirstLine returns the first line of a file without reading the rest
func (fr *FileReader) FirstLine(filePath string) (string, error) {
	cleanPath, err := fr.validateAndCleanPath(filePath)
	if err != nil {
		return "", err
	}
	if cached, exists := fr.contentCache.GetWithFileValidation(cleanPath, cleanPath); exists {
		line, _, _ := strings.Cut(cached, "\n")
		return strings.TrimRight(line, "\r"), nil
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	return "", scanner.Err()
}

// ClearCache clears all cached files
func (fr *FileReader) ClearCache() {
	fr.contentCache.Clear()
}

// InvalidateFile removes a specific file from the cache
func (fr *FileReader) InvalidateFile(filePath string) {
	fr.contentCache.Delete(filepath.Clean(filePath))
}

// CacheSize returns the number of cached files
func (fr *FileReader) CacheSize() int {
	return fr.contentCache.Size()
}

// validateAndCleanPath validates and cleans a file path
func (fr *FileReader) validateAndCleanPath(filePath string) (string, error) {
	if err := NotEmpty("filePath")(filePath); err != nil {
		return "", fmt.Errorf("file path %w", err)
	}

	cleanPath := filepath.Clean(filePath)

	// .. may only lead a relative path
	if strings.Contains(cleanPath, "..") {
		if !strings.HasPrefix(cleanPath, "..") {
			return "", fmt.Errorf("path traversal not allowed in file path: %s", filePath)
		}
	}

	if _, err := os.Stat(cleanPath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", cleanPath)
	}

	return cleanPath, nil
}
