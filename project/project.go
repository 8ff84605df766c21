// Package project detects the multi-module Java project layout
// src/<project>/<module>/module-info.java and locates its compiled output,
// so commands can find class files without explicit paths.
package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jdiagram/pom"
)

// ErrNoProject is returned when no project layout is found.
var ErrNoProject = errors.New("could not detect project: no src/<project>/<module>/module-info.java structure found")

// Project represents a Java project with multiple modules.
type Project struct {
	ID      string
	RootDir string
	SrcDir  string
	OutDir  string
	LibDir  string
	Modules []*Module
}

// Module represents a single Java module within a project.
type Module struct {
	Name       string
	SrcDir     string
	OutDir     string
	ModuleInfo string
	Project    *Project
}

// LoadFrom scans rootDir for a Java project structure. The first project
// directory under src/ with at least one module wins.
func LoadFrom(rootDir string) (*Project, error) {
	srcDir := filepath.Join(rootDir, "src")
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, errors.WithSecondaryError(ErrNoProject, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		modules, err := scanModules(filepath.Join(srcDir, entry.Name()))
		if err != nil || len(modules) == 0 {
			continue
		}

		proj := &Project{
			ID:      entry.Name(),
			RootDir: rootDir,
			SrcDir:  srcDir,
			OutDir:  filepath.Join(rootDir, "out"),
			LibDir:  filepath.Join(rootDir, "lib"),
			Modules: modules,
		}
		for _, m := range proj.Modules {
			m.Project = proj
			m.OutDir = filepath.Join(proj.OutDir, proj.ID+"."+m.Name)
		}
		return proj, nil
	}

	return nil, ErrNoProject
}

func scanModules(projectDir string) ([]*Module, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, err
	}

	var modules []*Module
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		moduleDir := filepath.Join(projectDir, entry.Name())
		moduleInfo := filepath.Join(moduleDir, "module-info.java")
		if _, err := os.Stat(moduleInfo); err != nil {
			continue
		}
		modules = append(modules, &Module{
			Name:       entry.Name(),
			SrcDir:     moduleDir,
			ModuleInfo: moduleInfo,
		})
	}
	return modules, nil
}

// IsCompiled reports whether the module's output directory exists.
func (m *Module) IsCompiled() bool {
	info, err := os.Stat(m.OutDir)
	return err == nil && info.IsDir()
}

// ClassDirs returns the output directories of the compiled modules.
func (p *Project) ClassDirs() []string {
	var dirs []string
	for _, m := range p.Modules {
		if m.IsCompiled() {
			dirs = append(dirs, m.OutDir)
		}
	}
	return dirs
}

// LibJars returns the jars in the lib directory, sorted.
func (p *Project) LibJars() []string {
	entries, err := os.ReadDir(p.LibDir)
	if err != nil {
		return nil
	}
	var jars []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), ".jar") {
			jars = append(jars, filepath.Join(p.LibDir, e.Name()))
		}
	}
	sort.Strings(jars)
	return jars
}

// DefaultInputs returns the class directories of the project at rootDir:
// the module layout first, then a Maven build, then rootDir itself when
// neither has compiled output.
func DefaultInputs(rootDir string) []string {
	if proj, err := LoadFrom(rootDir); err == nil {
		if dirs := proj.ClassDirs(); len(dirs) > 0 {
			return dirs
		}
	}
	if dirs, err := pom.ClassDirs(rootDir); err == nil && len(dirs) > 0 {
		return dirs
	}
	return []string{rootDir}
}

// DefaultClasspath returns the library jars of the project at rootDir, or
// nil when rootDir holds no project layout.
func DefaultClasspath(rootDir string) []string {
	proj, err := LoadFrom(rootDir)
	if err != nil {
		return nil
	}
	return proj.LibJars()
}
