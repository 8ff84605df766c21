package diagram

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dhamidi/jdiagram/element"
)

// TypeDiagram is the set of distinct top-level types registered for one
// namespace.
type TypeDiagram struct {
	Namespace *element.Element
	types     map[*element.Element]bool
}

func newTypeDiagram(ns *element.Element) *TypeDiagram {
	return &TypeDiagram{Namespace: ns, types: make(map[*element.Element]bool)}
}

func (d *TypeDiagram) Add(t *element.Element) {
	d.types[t] = true
}

func (d *TypeDiagram) Len() int {
	return len(d.types)
}

// Types returns the registered types sorted by qualified name.
func (d *TypeDiagram) Types() []*element.Element {
	result := make([]*element.Element, 0, len(d.types))
	for t := range d.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].QualifiedName < result[j].QualifiedName
	})
	return result
}

// Registry groups root types by their enclosing namespace.
type Registry struct {
	Source element.Source
	Logger *log.Logger

	// Include and Exclude are namespace prefixes. An empty Include admits
	// every namespace; Exclude wins over Include.
	Include []string
	Exclude []string

	diagrams map[*element.Element]*TypeDiagram
}

func NewRegistry(src element.Source) *Registry {
	return &Registry{
		Source:   src,
		Logger:   log.Default(),
		diagrams: make(map[*element.Element]*TypeDiagram),
	}
}

// Register adds a declared type to the diagram of its namespace. Anything
// else is reported and ignored.
func (r *Registry) Register(e *element.Element) {
	if !e.Kind.IsType() {
		r.Logger.Warn("not a type", "element", e, "kind", e.Kind)
		return
	}
	ns := r.Source.PackageOf(e)
	if ns == nil {
		r.Logger.Warn("type without namespace", "type", e)
		return
	}
	if !r.admits(ns.QualifiedName) {
		r.Logger.Debug("namespace filtered", "namespace", ns, "type", e)
		return
	}
	d, ok := r.diagrams[ns]
	if !ok {
		d = newTypeDiagram(ns)
		r.diagrams[ns] = d
	}
	d.Add(e)
}

// Diagrams returns the registered diagrams sorted by namespace name.
func (r *Registry) Diagrams() []*TypeDiagram {
	result := make([]*TypeDiagram, 0, len(r.diagrams))
	for _, d := range r.diagrams {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Namespace.QualifiedName < result[j].Namespace.QualifiedName
	})
	return result
}

// Diagram returns the diagram registered for the named namespace.
func (r *Registry) Diagram(namespace string) (*TypeDiagram, bool) {
	for ns, d := range r.diagrams {
		if ns.QualifiedName == namespace {
			return d, true
		}
	}
	return nil, false
}

func (r *Registry) admits(namespace string) bool {
	for _, prefix := range r.Exclude {
		if hasNamespacePrefix(namespace, prefix) {
			return false
		}
	}
	if len(r.Include) == 0 {
		return true
	}
	for _, prefix := range r.Include {
		if hasNamespacePrefix(namespace, prefix) {
			return true
		}
	}
	return false
}

// hasNamespacePrefix matches whole name segments: "com.foo" covers
// "com.foo.bar" but not "com.foobar".
func hasNamespacePrefix(namespace, prefix string) bool {
	if namespace == prefix {
		return true
	}
	return strings.HasPrefix(namespace, prefix+".")
}
