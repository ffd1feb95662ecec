package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/decor/internal/utils"
)

func TestModuleResolver(t *testing.T) {
	root := workspace(t, map[string]string{
		"go.mod":            "module example.com/beans\n\ngo 1.25\n",
		"decls/beans.decor": beans,
	})
	resolver := NewModuleResolver(utils.NewFileReader())

	module, err := resolver.Resolve("", filepath.Join(root, "decls"))
	require.NoError(t, err)
	assert.Equal(t, "example.com/beans", module.Path)
	assert.Equal(t, root, module.Root)

	tests := []struct {
		dir  string
		want string
	}{
		{root, "example.com/beans"},
		{filepath.Join(root, "decls"), "example.com/beans/decls"},
		{filepath.Join(root, "decls", "gen"), "example.com/beans/decls/gen"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			importPath, err := module.ImportPath(tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, importPath)
		})
	}

	_, err = module.ImportPath(filepath.Dir(root))
	assert.ErrorContains(t, err, "outside module")
}

func TestModuleResolverCustomModule(t *testing.T) {
	root := workspace(t, map[string]string{"go.mod": "module example.com/beans\n"})
	resolver := NewModuleResolver(utils.NewFileReader())

	module, err := resolver.Resolve("example.com/custom", root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/custom", module.Path)
	assert.Equal(t, root, module.Root)

	bare := t.TempDir()
	module, err = resolver.Resolve("example.com/custom", bare)
	require.NoError(t, err)
	assert.Equal(t, bare, module.Root)
}

func TestModuleResolverMissingGoMod(t *testing.T) {
	dir := t.TempDir()
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "go.mod")); err == nil {
		t.Skip("temporary directory is inside a module")
	}
	_, err := NewModuleResolver(utils.NewFileReader()).Resolve("", dir)
	assert.ErrorContains(t, err, "consider using --module flag")
}
