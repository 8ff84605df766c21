package diagram

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dhamidi/jdiagram/element"
)

// Walker renders elements into the member block of a class diagram.
type Walker struct {
	Source element.Source
	Logger *log.Logger
}

func NewWalker(src element.Source) *Walker {
	return &Walker{Source: src, Logger: log.Default()}
}

// Render appends the rendering of e to buf. Types already recorded in st
// are skipped, so rendering the same type twice with one state yields one
// block.
func (w *Walker) Render(e *element.Element, buf *strings.Builder, st *TraversalState) {
	switch e.Kind {
	case element.KindClass, element.KindInterface, element.KindEnum, element.KindAnnotation:
		w.renderType(e, buf, st)
	case element.KindField:
		w.renderField(e, buf)
	case element.KindMethod, element.KindConstructor:
		w.renderExecutable(e, false, buf)
	case element.KindNamespace, element.KindTypeParameter:
		w.Logger.Debug("visit", "kind", e.Kind, "name", e)
		w.renderEnclosed(e, buf, st)
	default:
		w.Logger.Debug("visit unknown element", "kind", e.Kind, "name", e)
		w.renderEnclosed(e, buf, st)
	}
}

func (w *Walker) renderEnclosed(e *element.Element, buf *strings.Builder, st *TraversalState) {
	for _, child := range w.Source.Enclosed(e) {
		w.Render(child, buf, st)
	}
}

// renderType writes the block of a type. Nested types are rendered after
// the closing brace so no member of the outer type follows a nested block.
func (w *Walker) renderType(e *element.Element, buf *strings.Builder, st *TraversalState) {
	if st.IsRendered(e) {
		return
	}
	buf.WriteString(string(e.Kind))
	buf.WriteString(" ")
	buf.WriteString(e.QualifiedName)
	buf.WriteString("{\n")
	st.markRendered(e)

	enclosed := w.Source.Enclosed(e)
	for _, child := range enclosed {
		if !child.Kind.IsType() {
			w.renderMember(child, e, buf, st)
		}
	}
	buf.WriteString("}\n")
	for _, child := range enclosed {
		if child.Kind.IsType() {
			w.Render(child, buf, st)
		}
	}
}

// renderMember writes a member of parent. Whether an executable belongs to
// an interface comes from parent, not from the member's own back link.
func (w *Walker) renderMember(e, parent *element.Element, buf *strings.Builder, st *TraversalState) {
	if e.Kind.IsExecutable() {
		w.renderExecutable(e, parent.Kind.IsInterface(), buf)
		return
	}
	w.Render(e, buf, st)
}

func (w *Walker) renderField(e *element.Element, buf *strings.Builder) {
	buf.WriteString("\t")
	buf.WriteString(modifierPrefix(e.Modifiers))
	buf.WriteString(e.Name)
	buf.WriteString(": ")
	buf.WriteString(e.Type.String())
	buf.WriteString("\n")
}

// renderExecutable writes a method line. Members of interfaces are
// implicitly public and abstract, so their modifiers are left out.
func (w *Walker) renderExecutable(e *element.Element, inInterface bool, buf *strings.Builder) {
	buf.WriteString("\t")
	if !inInterface {
		buf.WriteString(modifierPrefix(e.Modifiers))
	}
	buf.WriteString(e.Name)
	buf.WriteString("(")
	for i, p := range e.Parameters {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(p.Type.String())
		buf.WriteString(" ")
		buf.WriteString(p.Name)
	}
	buf.WriteString("): ")
	buf.WriteString(e.ReturnType.String())
	buf.WriteString("\n")
}
