package decor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyPrecedence(t *testing.T) {
	p := NewProperty()
	assert.False(t, p.IsPresent())
	_, err := p.Get()
	assert.EqualError(t, err, "Cannot query the value of this property because it has no value available.")

	p.Convention("convention")
	assert.Equal(t, "convention", p.GetOrNil())

	upstream := NewProperty()
	p.Set(upstream)
	assert.Equal(t, "convention", p.GetOrNil(), "an absent source falls back to the convention")
	upstream.Set("upstream")
	assert.Equal(t, "upstream", p.GetOrNil())

	require.NoError(t, p.SetFromAny("fixed"))
	v, err := p.Get()
	require.NoError(t, err)
	assert.Equal(t, "fixed", v)

	p.Set(nil)
	assert.Equal(t, "convention", p.GetOrNil())
}

func TestPropertyConventionProvider(t *testing.T) {
	calls := 0
	p := NewProperty().Convention(ProviderFunc(func() any {
		calls++
		return "lazy"
	}))
	assert.Zero(t, calls)
	assert.Equal(t, "lazy", p.GetOrNil())
	assert.Equal(t, 1, calls)
}

func TestMissingValueNamesOwner(t *testing.T) {
	p := NewProperty()
	AttachOwner(p, "task", "version")
	_, err := p.Get()
	assert.EqualError(t, err, "Cannot query the value of property 'version' because it has no value available.")
}

func TestOwnershipKeepsFirstOwner(t *testing.T) {
	p := NewProperty()
	assert.Nil(t, p.Owner())

	AttachOwner(p, "first", "a")
	AttachOwner(p, "second", "b")
	assert.Equal(t, "first", p.Owner())
	assert.Equal(t, "a", p.OwnerProperty())

	p.AttachProducer("producer")
	assert.Equal(t, "producer", p.Producer())

	assert.Equal(t, "plain", AttachOwner("plain", "owner", "x"), "non owner-aware values pass through")
}

func TestFileProperty(t *testing.T) {
	file := NewRegularFileProperty()
	assert.False(t, file.IsDirectory())
	assert.Equal(t, "", file.Path())
	file.Set("build/out.jar")
	assert.Equal(t, "build/out.jar", file.Path())

	dir := NewDirectoryProperty()
	assert.True(t, dir.IsDirectory())
	dir.Set(ProviderFunc(func() any { return "build/classes" }))
	assert.Equal(t, "build/classes", dir.Path())
}

func TestIsEmptyValue(t *testing.T) {
	var nilPtr *Property
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"empty string", "", false},
		{"string", "x", false},
		{"zero int", 0, false},
		{"empty slice", []string{}, true},
		{"slice", []string{"a"}, false},
		{"empty map", map[string]int{}, true},
		{"nil pointer", nilPtr, true},
		{"empty list property", NewListProperty(), true},
		{"empty file collection", NewFileCollection(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmptyValue(tt.value))
		})
	}
}
