package pom

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const FileName = "pom.xml"

// Load parses the pom.xml in dir.
func Load(dir string) (*Project, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read POM")
	}
	var project Project
	if err := xml.Unmarshal(data, &project); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	project.Dir = dir
	return &project, nil
}

// OutputDir is where Maven compiles the project's main classes,
// target/classes unless the build overrides it.
func (p *Project) OutputDir() string {
	buildDir := "target"
	if p.Build != nil && p.Build.Directory != "" {
		buildDir = p.interpolate(p.Build.Directory)
	}
	out := filepath.Join(buildDir, "classes")
	if p.Build != nil && p.Build.OutputDirectory != "" {
		out = p.interpolate(p.Build.OutputDirectory)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(p.Dir, out)
	}
	return out
}

// ClassDirs returns the existing output directories of the project at dir
// and of its modules, depth first in declaration order.
func ClassDirs(dir string) ([]string, error) {
	return classDirs(dir, make(map[string]bool))
}

func classDirs(dir string, seen map[string]bool) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolve module directory")
	}
	if seen[abs] {
		return nil, nil
	}
	seen[abs] = true

	project, err := Load(dir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	if !project.IsAggregator() {
		if info, err := os.Stat(project.OutputDir()); err == nil && info.IsDir() {
			dirs = append(dirs, project.OutputDir())
		}
	}
	for _, module := range project.Modules {
		sub, err := classDirs(filepath.Join(dir, filepath.FromSlash(module)), seen)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s", module)
		}
		dirs = append(dirs, sub...)
	}
	return dirs, nil
}
