package element

import "sort"

// DefaultUniversalRoot is the implicit supertype of every JVM class.
const DefaultUniversalRoot = "java.lang.Object"

// Source is the read-only view of a declared-type model. Any front end
// that can answer these queries can drive the diagram engine.
type Source interface {
	// Roots returns the top-level units surfaced for one processing pass.
	Roots() []*Element
	Enclosed(e *Element) []*Element
	// PackageOf returns the namespace element enclosing e, or nil.
	PackageOf(e *Element) *Element
	// Superclass returns the direct superclass of a type; the result is
	// absent for interfaces and for the top of a class chain.
	Superclass(e *Element) TypeRef
	Interfaces(e *Element) []TypeRef
	IsUniversalRoot(t TypeRef) bool
}

// Graph is an in-memory Source over linked Element values.
type Graph struct {
	roots         []*Element
	namespaces    map[string]*Element
	universalRoot string
}

func NewGraph() *Graph {
	return &Graph{
		namespaces:    make(map[string]*Element),
		universalRoot: DefaultUniversalRoot,
	}
}

// SetUniversalRoot changes the qualified name treated as the universal root.
func (g *Graph) SetUniversalRoot(name string) {
	g.universalRoot = name
}

// Namespace returns the namespace element for name, creating it on first use.
func (g *Graph) Namespace(name string) *Element {
	if ns, ok := g.namespaces[name]; ok {
		return ns
	}
	ns := NewNamespace(name)
	g.namespaces[name] = ns
	return ns
}

// Namespaces returns every namespace known to the graph, sorted by name.
func (g *Graph) Namespaces() []*Element {
	result := make([]*Element, 0, len(g.namespaces))
	for _, ns := range g.namespaces {
		result = append(result, ns)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].QualifiedName < result[j].QualifiedName
	})
	return result
}

// AddRoot places e in the namespace ns (when e is not already enclosed) and
// records it as a root element.
func (g *Graph) AddRoot(ns string, e *Element) {
	if e.Kind != KindNamespace && e.Enclosing == nil {
		g.Namespace(ns).Add(e)
	}
	g.roots = append(g.roots, e)
}

// AddType places a type in ns without making it a root.
func (g *Graph) AddType(ns string, e *Element) {
	if e.Enclosing == nil {
		g.Namespace(ns).Add(e)
	}
}

func (g *Graph) Roots() []*Element {
	return g.roots
}

func (g *Graph) Enclosed(e *Element) []*Element {
	return e.Enclosed
}

func (g *Graph) PackageOf(e *Element) *Element {
	for cur := e; cur != nil; cur = cur.Enclosing {
		if cur.Kind == KindNamespace {
			return cur
		}
	}
	return nil
}

func (g *Graph) Superclass(e *Element) TypeRef {
	return e.Superclass
}

func (g *Graph) Interfaces(e *Element) []TypeRef {
	return e.Interfaces
}

func (g *Graph) IsUniversalRoot(t TypeRef) bool {
	return t.Kind == TypeDeclared && t.Erasure() == g.universalRoot
}
