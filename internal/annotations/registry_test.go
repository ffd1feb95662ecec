package annotations

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decor/internal/models"
)

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	custom := models.NewAnnotationType("ServiceRef").Build()
	other := models.NewAnnotationType("Other").Build()

	require.NoError(t, reg.Register(NewHandler(custom)))
	require.NoError(t, reg.Register(NewHandler(other)))

	h, ok := reg.Handler("ServiceRef")
	require.True(t, ok)
	assert.Same(t, custom, h.AnnotationType())

	handlers := reg.Handlers()
	require.Len(t, handlers, 2)
	assert.Same(t, custom, handlers[0].AnnotationType())
	assert.Same(t, other, handlers[1].AnnotationType())

	assert.True(t, reg.IsRegistered(custom))
	assert.True(t, reg.IsRegistered(models.Inject))
	assert.False(t, reg.IsRegistered(models.NewAnnotationType("ServiceRef").Build()))
}

func TestRegistryRejectsInvalidHandlers(t *testing.T) {
	reg := NewRegistry()
	custom := models.NewAnnotationType("ServiceRef").Build()
	require.NoError(t, reg.Register(NewHandler(custom)))

	tests := []struct {
		name    string
		handler InjectAnnotationHandler
	}{
		{"duplicate", NewHandler(custom)},
		{"default inject", NewHandler(models.Inject)},
		{"not an annotation", NewHandler(models.String)},
		{"missing type", NewHandler(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := reg.Register(tt.handler); err == nil {
				t.Errorf("expected %s registration to fail", tt.name)
			}
		})
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('A' + i))
			_ = reg.Register(NewHandler(models.NewAnnotationType(name).Build()))
			reg.Handlers()
		}(i)
	}
	wg.Wait()
	assert.Len(t, reg.Handlers(), 20)
}

func TestDefaultRegistryIsShared(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
	assert.Equal(t, NoRoles, DefaultRegistry().RoleHandler())
}

func TestQualifier(t *testing.T) {
	ref := models.NewAnnotationType("ServiceRef").
		Annotate(models.NewAnnotation(models.InjectionPointQualifier).
			WithTypes("types", models.Ref(models.RegularFile), models.Ref(models.Directory)).
			WithTypes("providerTypes", models.Ref(models.RegularFile))).
		Build()

	q, ok := QualifierOf(ref)
	require.True(t, ok)
	assert.True(t, q.Allows(models.Ref(models.Directory)))
	assert.True(t, q.Allows(models.Ref(models.Provider, models.Ref(models.RegularFile))))
	assert.True(t, q.Allows(models.Ref(models.Provider)), "raw provider accepts any provider")
	assert.True(t, q.Allows(models.Ref(models.Object)))
	assert.False(t, q.Allows(models.Ref(models.Provider, models.Ref(models.Directory))))
	assert.False(t, q.Allows(models.Ref(models.String)))
	assert.Equal(t, []string{"Directory", "Provider<RegularFile>", "RegularFile"}, q.Allowed())

	_, ok = QualifierOf(models.Inject)
	assert.False(t, ok)
}

type producerTarget struct {
	producer any
}

func (p *producerTarget) AttachProducer(owner any) {
	p.producer = owner
}

func TestProducerRoleHandler(t *testing.T) {
	output := models.NewAnnotationType("Output").Build()
	h := NewProducerRoleHandler(output)

	target := &producerTarget{}
	h.ApplyRoleTo("owner", target)
	assert.Equal(t, "owner", target.producer)

	assert.True(t, HasRoleAnnotation(h, func(t *models.Type) bool { return t == output }))
	assert.False(t, HasRoleAnnotation(NoRoles, func(*models.Type) bool { return true }))
	assert.False(t, HasRoleAnnotation(nil, func(*models.Type) bool { return true }))
}
