package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestLoadFrom(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "src", "shop", "core", "module-info.java"))
	touch(t, filepath.Join(root, "src", "shop", "web", "module-info.java"))
	touch(t, filepath.Join(root, "src", "shop", "notes", "README"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "out", "shop.core"), 0o755))
	touch(t, filepath.Join(root, "lib", "b.jar"))
	touch(t, filepath.Join(root, "lib", "a.jar"))
	touch(t, filepath.Join(root, "lib", "notes.txt"))

	proj, err := LoadFrom(root)
	require.NoError(t, err)
	assert.Equal(t, "shop", proj.ID)
	require.Len(t, proj.Modules, 2)

	core, web := proj.Modules[0], proj.Modules[1]
	assert.Equal(t, "core", core.Name)
	assert.Same(t, proj, core.Project)
	assert.True(t, core.IsCompiled())
	assert.False(t, web.IsCompiled())

	assert.Equal(t, []string{filepath.Join(root, "out", "shop.core")}, proj.ClassDirs())
	assert.Equal(t, []string{filepath.Join(root, "lib", "a.jar"), filepath.Join(root, "lib", "b.jar")}, proj.LibJars())
	assert.Equal(t, proj.ClassDirs(), DefaultInputs(root))
	assert.Equal(t, proj.LibJars(), DefaultClasspath(root))
}

func TestLoadFromWithoutProject(t *testing.T) {
	root := t.TempDir()
	_, err := LoadFrom(root)
	assert.True(t, errors.Is(err, ErrNoProject))

	touch(t, filepath.Join(root, "src", "x", "Main.java"))
	_, err = LoadFrom(root)
	assert.True(t, errors.Is(err, ErrNoProject))

	assert.Equal(t, []string{root}, DefaultInputs(root))
	assert.Nil(t, DefaultClasspath(root))
}

func TestDefaultInputsMaven(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "pom.xml"), []byte("<project><artifactId>app</artifactId></project>"), 0o644))
	assert.Equal(t, []string{root}, DefaultInputs(root))

	classes := filepath.Join(root, "target", "classes")
	require.NoError(t, os.MkdirAll(classes, 0o755))
	assert.Equal(t, []string{classes}, DefaultInputs(root))
}
