package parser

import "github.com/toyz/decor/internal/models"

// DeclarationParser turns declaration sources into type descriptors
type DeclarationParser interface {
	Parse(inputs ...Input) ([]*File, error)
	ParseFile(path string) (*File, error)
	Universe() *models.Universe
}
