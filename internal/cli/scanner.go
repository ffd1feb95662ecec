package cli

import (
	"fmt"
	"path/filepath"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/parser"
	"github.com/toyz/decor/internal/utils"
)

// DirectoryScanner finds and reads declaration files
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return NewDirectoryScannerWithProcessor(utils.NewFileProcessor())
}

// NewDirectoryScannerWithProcessor creates a scanner sharing a processor
func NewDirectoryScannerWithProcessor(fp *utils.FileProcessor) *DirectoryScanner {
	return &DirectoryScanner{fileProcessor: fp}
}

// ScanDeclarations expands patterns into declaration files.
// Supports Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanDeclarations(patterns []string) ([]string, error) {
	files, err := s.fileProcessor.ScanDeclarations(patterns)
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, err.Error(), err).
			WithSuggestion("Check that every path exists; use ./... to scan subdirectories")
	}
	if len(files) == 0 {
		return nil, errors.New(errors.FileSystemErrorCode,
			fmt.Sprintf("no %s files found in %v", utils.DeclarationExt, patterns)).
			WithSuggestion("Use ./... to scan subdirectories recursively")
	}
	return files, nil
}

// ReadInputs scans patterns and loads every declaration file as parser input
func (s *DirectoryScanner) ReadInputs(patterns []string) ([]parser.Input, error) {
	files, err := s.ScanDeclarations(patterns)
	if err != nil {
		return nil, err
	}

	reader := s.fileProcessor.GetFileReader()
	inputs := make([]parser.Input, 0, len(files))
	for _, file := range files {
		content, err := reader.ReadFile(file)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", file, err)
		}
		inputs = append(inputs, parser.Input{Filename: filepath.Clean(file), Source: []byte(content)})
	}
	return inputs, nil
}
