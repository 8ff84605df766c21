package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jdiagram/diagram"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, diagram.DefaultOptions(), cfg.Options())
	assert.Equal(t, "java.lang.Object", cfg.UniversalRoot)
	assert.Equal(t, 1, cfg.Jobs)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
inputs = ["build/classes", "/abs/lib.jar"]
classpath = ["lib/guava.jar"]
output = "out/docs"
image_format = "png"
hide_members = false
include = ["com.foo"]
exclude = ["com.foo.internal"]
jobs = 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{filepath.Join(dir, "build/classes"), "/abs/lib.jar"}, cfg.Inputs)
	assert.Equal(t, []string{filepath.Join(dir, "lib/guava.jar")}, cfg.Classpath)
	assert.Equal(t, filepath.Join(dir, "out/docs"), cfg.Output)
	assert.Equal(t, diagram.Options{ImageFormat: "png", HideMembers: false, Extension: "adoc"}, cfg.Options())
	assert.Equal(t, []string{"com.foo"}, cfg.Include)
	assert.Equal(t, []string{"com.foo.internal"}, cfg.Exclude)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "java.lang.Object", cfg.UniversalRoot, "unset keys keep defaults")
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(writeConfig(t, dir, `imageformat = "png"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys: imageformat")

	_, err = Load(writeConfig(t, dir, `jobs = -1`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, dir, `image_format = ""`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, dir, `extension = "a/b"`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, dir, `jobs = "many"`))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Resolve("", nested)
	require.NoError(t, err)
	assert.Empty(t, cfg.Path, "no file anywhere above means defaults")

	path := writeConfig(t, root, `extension = "puml"`)
	cfg, err = Resolve("", nested)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "puml", cfg.Extension)

	other := writeConfig(t, nested, `jobs = 2`)
	cfg, err = Resolve(other, root)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, "adoc", cfg.Extension)
}
