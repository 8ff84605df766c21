package diagram

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/jdiagram/element"
)

// Generator runs the two-phase pipeline: every root element is registered
// before any document is emitted, so a namespace's diagram always reflects
// the complete root set.
type Generator struct {
	Source  element.Source
	Sink    Sink
	Options Options
	Logger  *log.Logger

	Include []string
	Exclude []string

	// Jobs bounds the number of namespaces assembled concurrently. Values
	// below 2 emit sequentially.
	Jobs int
}

func NewGenerator(src element.Source, sink Sink, opts Options) *Generator {
	return &Generator{Source: src, Sink: sink, Options: opts, Logger: log.Default()}
}

// Registry registers every root of the source.
func (g *Generator) Registry() *Registry {
	reg := NewRegistry(g.Source)
	reg.Logger = g.Logger
	reg.Include = g.Include
	reg.Exclude = g.Exclude
	for _, root := range g.Source.Roots() {
		reg.Register(root)
	}
	return reg
}

// Generate emits one document per registered namespace. The first sink
// failure aborts the run; documents written before it stay written.
func (g *Generator) Generate(ctx context.Context) ([]Document, error) {
	diagrams := g.Registry().Diagrams()
	g.Logger.Debug("registered namespaces", "count", len(diagrams))

	asm := NewAssembler(g.Source, g.Options)
	asm.Logger = g.Logger

	docs := make([]Document, len(diagrams))
	if g.Jobs < 2 {
		for i, d := range diagrams {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			doc, err := g.emit(ctx, asm, d)
			if err != nil {
				return nil, err
			}
			docs[i] = doc
		}
		return docs, nil
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Jobs)
	for i, d := range diagrams {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			doc, err := g.emit(egctx, asm, d)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (g *Generator) emit(ctx context.Context, asm *Assembler, d *TypeDiagram) (Document, error) {
	doc := asm.Assemble(d)
	if err := g.Sink.Write(ctx, doc.Path, doc.Content); err != nil {
		return Document{}, errors.Wrapf(err, "write diagram %s", doc.Path)
	}
	g.Logger.Info("wrote diagram", "namespace", doc.Namespace, "path", doc.Path)
	return doc, nil
}
