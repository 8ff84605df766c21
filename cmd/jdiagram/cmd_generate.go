package main

import (
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		flags  diagramFlags
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Write one class diagram document per package",
		Long: `Scans class files, jars and directories of class files and writes one
AsciiDoc document with an embedded PlantUML class diagram per package.

Without paths, the inputs of jdiagram.toml are scanned, or else the class
directories of the project in the working directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			cb, err := loadCodebase(ctx, cfg, inputs(args, cfg))
			if err != nil {
				return err
			}

			p := newProgress(logger)
			sink := sinkFor(&cfg, stdout, cmd.OutOrStdout())
			docs, err := newGenerator(ctx, cfg, cb, sink).Generate(ctx)
			if err != nil {
				return err
			}
			if stdout {
				p.done("printed diagrams", "documents", len(docs))
			} else {
				p.done("generated diagrams", "documents", len(docs), "output", cfg.Output)
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the documents instead of writing files")

	return cmd
}
