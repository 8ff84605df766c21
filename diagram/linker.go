package diagram

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dhamidi/jdiagram/element"
)

// Linker emits the inheritance edges of a type and of every ancestor
// reachable from it.
type Linker struct {
	Source element.Source
	Walker *Walker
	Logger *log.Logger
}

func NewLinker(src element.Source, w *Walker) *Linker {
	return &Linker{Source: src, Walker: w, Logger: log.Default()}
}

// Link appends the hierarchy edges of t to buf. Enums are skipped: their
// superclass is the compiler-generated java.lang.Enum instantiation.
func (l *Linker) Link(t *element.Element, buf *strings.Builder, st *TraversalState) {
	if t.Kind == element.KindEnum || !t.Kind.IsType() {
		return
	}
	l.link(t, buf, st)
}

func (l *Linker) link(t *element.Element, buf *strings.Builder, st *TraversalState) {
	super := l.Source.Superclass(t)
	if !super.IsAbsent() && !l.Source.IsUniversalRoot(super) {
		l.linkParent(t, super, buf, st)
	}
	for _, iface := range l.Source.Interfaces(t) {
		if iface.Element != nil {
			l.Walker.Render(iface.Element, buf, st)
		}
		l.linkParent(t, iface, buf, st)
	}
}

// linkParent records the edge parent<|--child and walks on from the
// parent. An edge seen before means the chain above it has already been
// walked, which also stops cycles.
func (l *Linker) linkParent(child *element.Element, parent element.TypeRef, buf *strings.Builder, st *TraversalState) {
	edge := edgeLine(displayName(parent), child.QualifiedName)
	if !st.recordEdge(edge) {
		return
	}
	buf.WriteString(edge)
	buf.WriteString("\n")

	if parent.Element == nil {
		l.Logger.Debug("unresolved ancestor", "type", child, "parent", parent.Name)
		return
	}
	l.link(parent.Element, buf, st)
}

// displayName erases type arguments: every instantiation of a generic
// parent collapses onto one edge.
func displayName(t element.TypeRef) string {
	if t.HasArguments() {
		return t.Erasure()
	}
	return t.String()
}

func edgeLine(parent, child string) string {
	return parent + "<|--" + child
}
