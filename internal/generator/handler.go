package generator

import (
	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/models"
)

// ClassGenerationHandler observes or claims the members of a source type.
// Handlers run in a fixed order; the first claimer of a property wins.
type ClassGenerationHandler interface {
	StartType(t *models.Type)

	// VisitProperty is called for every property of the type
	VisitProperty(p *PropertyMetadata)

	// VisitInstanceMethod is called for every non-accessor instance method
	VisitInstanceMethod(m *models.Method)

	// HasFields is called when the type has relevant instance fields
	HasFields()

	// ClaimPropertyImplementation takes responsibility for implementing p
	ClaimPropertyImplementation(p *PropertyMetadata) bool

	// Ambiguous is called when an earlier handler already claimed p
	Ambiguous(p *PropertyMetadata) error

	ApplyToInspection(v ClassInspectionVisitor)
	ApplyToGeneration(v ClassGenerationVisitor)
}

// UnclaimedPropertyHandler is told about properties nobody claimed
type UnclaimedPropertyHandler interface {
	Unclaimed(p *PropertyMetadata)
}

// baseHandler provides no-op defaults
type baseHandler struct{}

func (baseHandler) StartType(*models.Type) {}

func (baseHandler) VisitProperty(*PropertyMetadata) {}

func (baseHandler) VisitInstanceMethod(*models.Method) {}

func (baseHandler) HasFields() {}

func (baseHandler) ClaimPropertyImplementation(*PropertyMetadata) bool { return false }

func (baseHandler) ApplyToInspection(ClassInspectionVisitor) {}

func (baseHandler) ApplyToGeneration(ClassGenerationVisitor) {}

func (baseHandler) Ambiguous(p *PropertyMetadata) error {
	return errors.NewShapeError("Multiple matches for " + p.Name).WithMember(p.Name)
}
