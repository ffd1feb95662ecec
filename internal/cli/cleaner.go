package cli

import (
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/utils"
)

// Cleaner removes files written by the generator
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return NewCleanerWithProcessor(utils.NewFileProcessor())
}

// NewCleanerWithProcessor creates a cleaner sharing a processor
func NewCleanerWithProcessor(fp *utils.FileProcessor) *Cleaner {
	return &Cleaner{fileProcessor: fp}
}

// CleanGeneratedFiles removes every generated Go file matched by patterns.
// Only files starting with the generator marker are touched.
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	removed, err := c.fileProcessor.CleanGenerated(patterns)
	if err != nil {
		return removed, errors.Wrap(errors.FileSystemErrorCode, err.Error(), err)
	}
	return removed, nil
}
