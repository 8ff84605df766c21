package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jdiagram/diagram"
)

func newListCmd() *cobra.Command {
	var flags diagramFlags

	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List the packages that get a diagram and their types",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			cb, err := loadCodebase(ctx, cfg, inputs(args, cfg))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			gen := newGenerator(ctx, cfg, cb, diagram.NewMemorySink())
			asm := diagram.NewAssembler(gen.Source, gen.Options)
			asm.Logger = gen.Logger
			for _, d := range gen.Registry().Diagrams() {
				fmt.Fprintf(out, "%s -> %s\n", d.Namespace.QualifiedName, asm.Assemble(d).Path)
				for _, t := range d.Types() {
					fmt.Fprintf(out, "  %s %s\n", t.Kind, t.QualifiedName)
				}
			}
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}
