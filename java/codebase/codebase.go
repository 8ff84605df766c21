// Package codebase collects class models from class files, directories and
// jars, keeps them current as files change, and serves diagrams over LSP.
package codebase

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jdiagram/element"
	"github.com/dhamidi/jdiagram/java"
)

// EntrySeparator joins an archive path and the name of an entry inside it.
const EntrySeparator = "!"

type Codebase struct {
	Logger *log.Logger
	// UniversalRoot is passed to the universe built by Graph.
	UniversalRoot string

	mu      sync.RWMutex
	roots   []string
	files   map[string]*FileInfo
	library map[string]*java.ClassModel
}

// FileInfo records what one class file or archive contributed. Archive
// entries are keyed as <archive>!<entry>.
type FileInfo struct {
	Path     string
	Classes  []*java.ClassModel
	ParseErr error
}

func New(roots ...string) *Codebase {
	return &Codebase{
		Logger:        log.Default(),
		UniversalRoot: element.DefaultUniversalRoot,
		roots:         roots,
		files:         make(map[string]*FileInfo),
		library:       make(map[string]*java.ClassModel),
	}
}

func (c *Codebase) Roots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.roots...)
}

// AddRoot registers another path scanned by ScanAll.
func (c *Codebase) AddRoot(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roots = append(c.roots, path)
}

// ScanAll scans every root. A root naming a file must be readable and well
// formed; problems with files found inside directories or archives are
// logged and skipped.
func (c *Codebase) ScanAll() error {
	for _, root := range c.Roots() {
		if err := c.ScanPath(root); err != nil {
			return err
		}
	}
	return nil
}

// ScanPath scans a class file, an archive or a directory.
func (c *Codebase) ScanPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	if info.IsDir() {
		return c.ScanDir(path)
	}
	switch {
	case IsClassFile(path):
		return c.ScanFile(path)
	case IsArchive(path):
		return c.ScanArchive(path)
	}
	return errors.Newf("scan %s: not a class file, jar or directory", path)
}

func (c *Codebase) ScanDir(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.Logger.Warn("skipping unreadable path", "path", path, "err", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		var scanErr error
		switch {
		case IsClassFile(path):
			scanErr = c.ScanFile(path)
		case IsArchive(path):
			scanErr = c.ScanArchive(path)
		}
		if scanErr != nil {
			c.Logger.Warn("skipping file", "path", path, "err", scanErr)
		}
		return nil
	})
}

// ScanFile reads one class file and replaces whatever the path
// contributed before.
func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	return c.UpdateFile(path, content)
}

// UpdateFile parses content as a class file stored at path. A parse failure
// is recorded for the path and returned.
func (c *Codebase) UpdateFile(path string, content []byte) error {
	model, err := java.ClassModelFromReader(bytes.NewReader(content))
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		err = errors.Wrapf(err, "parse %s", path)
		c.files[path] = &FileInfo{Path: path, ParseErr: err}
		return err
	}
	model.Source = path
	c.files[path] = &FileInfo{Path: path, Classes: []*java.ClassModel{model}}
	return nil
}

// ScanArchive reads every class file in a jar or zip, descending into
// nested jars. Malformed entries are logged and skipped.
func (c *Codebase) ScanArchive(path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return errors.Wrapf(err, "open archive %s", path)
	}
	defer r.Close()

	var models []*java.ClassModel
	c.scanZip(&r.Reader, path, &models)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = &FileInfo{Path: path, Classes: models}
	c.Logger.Debug("scanned archive", "path", path, "classes", len(models))
	return nil
}

func (c *Codebase) scanZip(r *zip.Reader, prefix string, models *[]*java.ClassModel) {
	var jars []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch {
		case IsClassFile(f.Name):
			model, err := readZipClass(f)
			if err != nil {
				c.Logger.Warn("skipping archive entry", "entry", prefix+EntrySeparator+f.Name, "err", err)
				continue
			}
			model.Source = prefix + EntrySeparator + f.Name
			*models = append(*models, model)
		case IsArchive(f.Name):
			jars = append(jars, f)
		}
	}

	for _, jar := range jars {
		name := prefix + EntrySeparator + jar.Name
		data, err := readZipEntry(jar)
		if err != nil {
			c.Logger.Warn("skipping nested archive", "entry", name, "err", err)
			continue
		}
		nested, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			c.Logger.Warn("skipping nested archive", "entry", name, "err", err)
			continue
		}
		c.scanZip(nested, name, models)
	}
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func readZipClass(f *zip.File) (*java.ClassModel, error) {
	data, err := readZipEntry(f)
	if err != nil {
		return nil, err
	}
	return java.ClassModelFromReader(bytes.NewReader(data))
}

// AddLibrary scans path for classes that resolve supertypes without being
// diagrammed. Library paths are not roots and are not watched.
func (c *Codebase) AddLibrary(path string) error {
	lib := New(path)
	lib.Logger = c.Logger
	if err := lib.ScanAll(); err != nil {
		return errors.Wrap(err, "scan library")
	}
	models := lib.AllClasses()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range models {
		c.library[m.Name] = m
	}
	c.Logger.Debug("added library", "path", path, "classes", len(models))
	return nil
}

// LibraryClasses returns the library class models sorted by name.
func (c *Codebase) LibraryClasses() []*java.ClassModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*java.ClassModel, 0, len(c.library))
	for _, m := range c.library {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the scanned file paths in sorted order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// AllClasses returns every class model sorted by name. When two files
// provide the same class, the one from the lexically later path wins.
func (c *Codebase) AllClasses() []*java.ClassModel {
	byName := make(map[string]*java.ClassModel)
	for _, p := range c.Paths() {
		f := c.GetFile(p)
		if f == nil {
			continue
		}
		for _, m := range f.Classes {
			byName[m.Name] = m
		}
	}
	result := make([]*java.ClassModel, 0, len(byName))
	for _, m := range byName {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (c *Codebase) FindClass(name string) *java.ClassModel {
	for _, cls := range c.AllClasses() {
		if cls.Name == name {
			return cls
		}
	}
	return nil
}

// Errors returns the files that failed to parse.
func (c *Codebase) Errors() []*FileInfo {
	var failed []*FileInfo
	for _, p := range c.Paths() {
		if f := c.GetFile(p); f != nil && f.ParseErr != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Universe links a snapshot of the current class models.
func (c *Codebase) Universe() *java.Universe {
	u := java.NewUniverse()
	u.Logger = c.Logger
	if c.UniversalRoot != "" {
		u.UniversalRoot = c.UniversalRoot
	}
	u.AddLibrary(c.LibraryClasses()...)
	u.Add(c.AllClasses()...)
	return u
}

// Graph builds an element graph over a snapshot of the codebase.
func (c *Codebase) Graph() *element.Graph {
	return c.Universe().Build()
}

func IsClassFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".class")
}

func IsArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jar", ".zip":
		return true
	}
	return false
}
