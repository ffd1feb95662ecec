package runtime

import (
	"fmt"
	"strings"

	"github.com/toyz/decor/internal/models"
	"github.com/toyz/decor/internal/utils"
)

// MethodBody implements a concrete source method
type MethodBody func(self *Object, args []any) (any, error)

// ConstructorBody runs a source constructor
type ConstructorBody func(self *Object, args []any) error

// Implementations holds the Go bodies of concrete source members. Method
// keys are Owner#name or Owner#name(params); constructor keys are
// Owner#<init>/arity.
type Implementations struct {
	methods      *utils.BaseRegistry[string, MethodBody]
	constructors *utils.BaseRegistry[string, ConstructorBody]
}

// NewImplementations creates an empty registry
func NewImplementations() *Implementations {
	methods := utils.NewBaseRegistry[string, MethodBody]("method implementations")
	methods.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[MethodBody]("method"),
		utils.NoDuplicateValidator[string, MethodBody]("method"),
	))
	constructors := utils.NewBaseRegistry[string, ConstructorBody]("constructor implementations")
	constructors.SetValidator(utils.NoDuplicateValidator[string, ConstructorBody]("constructor"))
	return &Implementations{methods: methods, constructors: constructors}
}

// Method registers body for the method of t named by name or full
// signature, e.g. "run" or "run(String,int)".
func (i *Implementations) Method(t *models.Type, nameOrSignature string, body MethodBody) error {
	if body == nil {
		return fmt.Errorf("method body for %s cannot be nil", nameOrSignature)
	}
	return i.methods.Register(methodKey(t, nameOrSignature), body)
}

// MustMethod is Method that panics on error
func (i *Implementations) MustMethod(t *models.Type, nameOrSignature string, body MethodBody) *Implementations {
	if err := i.Method(t, nameOrSignature, body); err != nil {
		panic(err)
	}
	return i
}

// Constructor registers body for the constructor of t with arity params
func (i *Implementations) Constructor(t *models.Type, arity int, body ConstructorBody) error {
	if body == nil {
		return fmt.Errorf("constructor body for %s cannot be nil", t.DisplayName())
	}
	return i.constructors.Register(constructorKey(t, arity), body)
}

// LookupMethod finds the body of m, preferring an exact signature match
func (i *Implementations) LookupMethod(m *models.Method) (MethodBody, bool) {
	if m.Owner == nil {
		return nil, false
	}
	if body, ok := i.methods.Get(methodKey(m.Owner, m.Signature())); ok {
		return body, true
	}
	return i.methods.Get(methodKey(m.Owner, m.Name))
}

// LookupConstructor finds the body of c
func (i *Implementations) LookupConstructor(c *models.Constructor) (ConstructorBody, bool) {
	if c == nil || c.Owner == nil {
		return nil, false
	}
	return i.constructors.Get(constructorKey(c.Owner, len(c.Params)))
}

// Size returns the number of registered bodies
func (i *Implementations) Size() int {
	return i.methods.Size() + i.constructors.Size()
}

func methodKey(t *models.Type, nameOrSignature string) string {
	return t.QualifiedName() + "#" + strings.ReplaceAll(nameOrSignature, " ", "")
}

func constructorKey(t *models.Type, arity int) string {
	return fmt.Sprintf("%s#<init>/%d", t.QualifiedName(), arity)
}
