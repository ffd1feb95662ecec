package runtime

import (
	"fmt"

	"github.com/toyz/decor/internal/errors"
	"github.com/toyz/decor/internal/generator"
	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/pkg/decor"
)

// Instantiator creates decorated objects, generating types on demand and
// choosing the first constructor, in comparator order, that accepts the
// arguments. It serves as the nested InstanceGenerator of what it creates.
type Instantiator struct {
	generator generator.ClassGenerator
	services  decor.ServiceLookup
}

var _ generator.InstanceGenerator = (*Instantiator)(nil)

// NewInstantiator creates an instantiator over g
func NewInstantiator(g generator.ClassGenerator, services decor.ServiceLookup) *Instantiator {
	if services == nil {
		services = decor.NoServices
	}
	return &Instantiator{generator: g, services: services}
}

// NewInstance implements generator.InstanceGenerator
func (i *Instantiator) NewInstance(t *models.Type, displayName decor.Describable, params ...any) (any, error) {
	class, err := i.generator.Generate(t)
	if err != nil {
		return nil, err
	}
	for _, c := range class.Constructors() {
		if matchesAll(c.ParameterTypes(), params) {
			return c.NewInstance(i.services, i, displayName, params...)
		}
	}
	return nil, errors.NewInstantiationError(t.DisplayName(),
		fmt.Sprintf("No constructor of %s accepts %d argument(s) %v.", class.GeneratedType().DisplayName(), len(params), params))
}

// New is NewInstance returning the interpreted object
func (i *Instantiator) New(t *models.Type, params ...any) (*Object, error) {
	v, err := i.NewInstance(t, nil, params...)
	if err != nil {
		return nil, err
	}
	return v.(*Object), nil
}

// Deserialize creates an instance through the serialization constructor
// and restores its managed state.
func (i *Instantiator) Deserialize(t *models.Type, base *models.Type, state []any) (*Object, error) {
	class, err := i.generator.Generate(t)
	if err != nil {
		return nil, err
	}
	constructor, err := class.SerializationConstructor(base)
	if err != nil {
		return nil, err
	}
	v, err := constructor.NewInstance(i.services, i)
	if err != nil {
		return nil, err
	}
	o := v.(*Object)
	if state != nil {
		if err := o.InitFromState(state); err != nil {
			return nil, err
		}
	}
	return o, nil
}
