package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DeclarationExt is the extension of type declaration files
	DeclarationExt = ".decor"
	// GeneratedMarker is the first line of every file the generator writes
	GeneratedMarker = "// Code generated by decor. DO NOT EDIT."
	// RecursiveSuffix marks a directory pattern that includes subdirectories
	RecursiveSuffix = "/..."
)

// FileProcessor provides utilities for common file processing operations
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// NewFileProcessorWithReader creates a file processor with an existing FileReader
func NewFileProcessorWithReader(reader *FileReader) *FileProcessor {
	return &FileProcessor{
		fileReader: reader,
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info fs.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info fs.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool
	SkipErrors      bool
}

// DeclarationFileFilter matches .decor files
func DeclarationFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		return !info.IsDir() && strings.HasSuffix(info.Name(), DeclarationExt)
	}
}

// GeneratedFileFilter matches Go files whose first line is the generator marker
func (fp *FileProcessor) GeneratedFileFilter() FileFilter {
	return func(path string, info fs.DirEntry) bool {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".go") {
			return false
		}
		line, err := fp.fileReader.FirstLine(path)
		return err == nil && line == GeneratedMarker
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain declarations
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
		"target":       true,
	}

	return func(path string, info fs.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()
		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}
		return !skipDirs[name]
	}
}

// WalkFiles walks through files under rootDir with filtering. The root
// itself is never filtered out.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matchedFiles []string

	err := filepath.WalkDir(rootDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matchedFiles = append(matchedFiles, path)
		}
		return nil
	})

	return matchedFiles, err
}

// ScanDeclarations expands patterns into a sorted list of declaration
// files. A pattern is a .decor file, a directory, or a directory followed by
// /... to include its subdirectories.
func (fp *FileProcessor) ScanDeclarations(patterns []string) ([]string, error) {
	return fp.scan(patterns, DeclarationFileFilter())
}

// ScanGenerated expands patterns into the generated Go files they contain
func (fp *FileProcessor) ScanGenerated(patterns []string) ([]string, error) {
	return fp.scan(patterns, fp.GeneratedFileFilter())
}

func (fp *FileProcessor) scan(patterns []string, filter FileFilter) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		dir, recursive := SplitPattern(pattern)

		info, err := os.Stat(dir)
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("path %s", pattern), err)
		}

		if !info.IsDir() {
			if recursive {
				return nil, fmt.Errorf("pattern %s: %s is not a directory", pattern, dir)
			}
			if filter(dir, fs.FileInfoToDirEntry(info)) {
				add(dir)
			}
			continue
		}

		matched, err := fp.WalkFiles(dir, FileWalkOptions{
			FileFilter:      filter,
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
		})
		if err != nil {
			return nil, WrapProcessError(fmt.Sprintf("directory scan %s", dir), err)
		}
		for _, path := range matched {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// SplitPattern separates the /... suffix from a path pattern
func SplitPattern(pattern string) (dir string, recursive bool) {
	pattern = filepath.ToSlash(pattern)
	switch {
	case pattern == "...":
		return ".", true
	case strings.HasSuffix(pattern, RecursiveSuffix):
		dir = strings.TrimSuffix(pattern, RecursiveSuffix)
		if dir == "" {
			dir = "/"
		}
		return filepath.FromSlash(dir), true
	default:
		return filepath.FromSlash(pattern), false
	}
}

// CleanGenerated removes generated files matched by patterns and returns
// the removed paths
func (fp *FileProcessor) CleanGenerated(patterns []string) ([]string, error) {
	files, err := fp.ScanGenerated(patterns)
	if err != nil {
		return nil, err
	}

	var removedFiles []string
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			return removedFiles, WrapProcessError(fmt.Sprintf("file removal %s", file), err)
		}
		fp.fileReader.InvalidateFile(file)
		removedFiles = append(removedFiles, file)
	}
	return removedFiles, nil
}

// GetFileReader returns the underlying FileReader for advanced operations
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}
