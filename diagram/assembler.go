package diagram

import (
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dhamidi/jdiagram/element"
)

const (
	DefaultImageFormat = "svg"
	DefaultExtension   = "adoc"
)

type Options struct {
	// ImageFormat is the image token of the plantuml block header.
	ImageFormat string
	// HideMembers appends a "hide members" directive to the diagram.
	HideMembers bool
	// Extension of the written document, without the dot.
	Extension string
}

func DefaultOptions() Options {
	return Options{
		ImageFormat: DefaultImageFormat,
		HideMembers: true,
		Extension:   DefaultExtension,
	}
}

// Document is the assembled diagram of one namespace.
type Document struct {
	Name      string
	Namespace string
	Path      string
	Content   string
}

// Assembler turns one namespace's TypeDiagram into a Document.
type Assembler struct {
	Source  element.Source
	Options Options
	Logger  *log.Logger
}

func NewAssembler(src element.Source, opts Options) *Assembler {
	return &Assembler{Source: src, Options: opts, Logger: log.Default()}
}

// Assemble renders every type of d, then the hierarchy of every non-enum
// type, with a fresh traversal state.
func (a *Assembler) Assemble(d *TypeDiagram) Document {
	st := NewTraversalState()
	walker := &Walker{Source: a.Source, Logger: a.Logger}
	linker := &Linker{Source: a.Source, Walker: walker, Logger: a.Logger}

	types := d.Types()
	var classList strings.Builder
	for _, t := range types {
		walker.Render(t, &classList, st)
	}
	for _, t := range types {
		if t.Kind == element.KindEnum {
			continue
		}
		linker.Link(t, &classList, st)
	}

	namespace := d.Namespace.QualifiedName
	name := DiagramName(namespace)
	a.Logger.Debug("assembled diagram", "namespace", namespace, "types", len(types), "edges", len(st.edges))
	return Document{
		Name:      name,
		Namespace: namespace,
		Path:      DocumentPath(namespace, name, a.extension()),
		Content:   a.wrap(name, namespace, classList.String()),
	}
}

func (a *Assembler) wrap(name, namespace, classList string) string {
	format := a.Options.ImageFormat
	if format == "" {
		format = DefaultImageFormat
	}
	var sb strings.Builder
	sb.WriteString("[plantuml, " + name + ", " + format + "]\n")
	sb.WriteString("....\n")
	sb.WriteString("package " + namespace + " {\n")
	sb.WriteString(classList)
	sb.WriteString("\n")
	sb.WriteString("}\n")
	if a.Options.HideMembers {
		sb.WriteString("hide members\n")
	}
	sb.WriteString("....")
	return sb.String()
}

func (a *Assembler) extension() string {
	if a.Options.Extension == "" {
		return DefaultExtension
	}
	return strings.TrimPrefix(a.Options.Extension, ".")
}

// DiagramName derives the diagram name from a namespace: "com.foo" becomes
// "com-foo-class-diagram".
func DiagramName(namespace string) string {
	return strings.ReplaceAll(namespace, ".", "-") + "-class-diagram"
}

// DocumentPath places the document in the namespace's directory, the way
// resources are laid out next to compiled classes.
func DocumentPath(namespace, name, ext string) string {
	dir := strings.ReplaceAll(namespace, ".", "/")
	return path.Join(dir, name+"."+ext)
}
