package decor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type beanFixture struct {
	Base
	label   string
	enabled bool
}

func (b *beanFixture) GetLabel() string { return b.label }
func (b *beanFixture) SetLabel(label string) { b.label = label }
func (b *beanFixture) IsEnabled() bool { return b.enabled }
func (b *beanFixture) GetBroken() (any, error) { return nil, errors.New("broken getter") }
func (b *beanFixture) Describe(prefix string) string {
	return prefix + b.label
}

func newBeanFixture() *beanFixture {
	b := &beanFixture{}
	b.InitBase("Fixture", nil, nil, Name("fixture"))
	return b
}

func TestBeanProperties(t *testing.T) {
	bean := newBeanFixture()
	dynamic := NewBeanDynamicObject(bean)

	require.NoError(t, dynamic.SetProperty("label", "main"))
	v, err := dynamic.GetProperty("label")
	require.NoError(t, err)
	assert.Equal(t, "main", v)

	v, err = dynamic.GetProperty("enabled")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = dynamic.GetProperty("broken")
	assert.EqualError(t, err, "broken getter")

	assert.True(t, dynamic.HasProperty("label"))
	assert.False(t, dynamic.HasProperty("missing"))

	_, err = dynamic.GetProperty("missing")
	assert.EqualError(t, err, "Could not get unknown property 'missing' for fixture.")

	err = dynamic.SetProperty("label", 42)
	assert.EqualError(t, err, "Could not set unknown property 'label' for fixture.")
}

func TestBeanExtensions(t *testing.T) {
	bean := newBeanFixture()
	require.NoError(t, bean.Extensions().Add("publishing", "extension"))
	bean.Extensions().SetExtra("flavor", "vanilla")
	dynamic := NewBeanDynamicObject(bean)

	assert.True(t, dynamic.HasProperty("publishing"))
	v, err := dynamic.GetProperty("publishing")
	require.NoError(t, err)
	assert.Equal(t, "extension", v)

	v, err = dynamic.GetProperty("flavor")
	require.NoError(t, err)
	assert.Equal(t, "vanilla", v)
}

func TestBeanMethods(t *testing.T) {
	bean := newBeanFixture()
	bean.SetLabel("x")
	dynamic := NewBeanDynamicObject(bean)

	assert.True(t, dynamic.HasMethod("describe", "label: "))
	assert.False(t, dynamic.HasMethod("describe"))

	v, err := dynamic.InvokeMethod("describe", "label: ")
	require.NoError(t, err)
	assert.Equal(t, "label: x", v)

	_, err = dynamic.InvokeMethod("describe", 1)
	assert.EqualError(t, err, "Could not find method describe() for arguments [1] on fixture.")
}
