package main

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jdiagram/config"
	"github.com/dhamidi/jdiagram/java/codebase"
)

func newLSPCmd() *cobra.Command {
	var (
		configPath string
		logFile    string
	)

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Long: `Serves the jdiagram.render and jdiagram.namespaces commands for the class
files under the workspace root. The inputs of jdiagram.toml are scanned as
additional roots and its classpath resolves library supertypes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verbosity := 1
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				verbosity = 2
			}
			var path *string
			if logFile != "" {
				path = &logFile
			}
			commonlog.Configure(verbosity, path)

			cfg, err := config.Resolve(configPath, ".")
			if err != nil {
				return err
			}

			server := codebase.NewLSPServer(version)
			server.Options = cfg.Options()
			server.Include = cfg.Include
			server.Exclude = cfg.Exclude
			server.UniversalRoot = cfg.UniversalRoot
			server.ExtraRoots = cfg.Inputs
			server.Classpath = classpath(cfg)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to "+config.FileName)
	cmd.Flags().StringVar(&logFile, "log-file", "", "write server logs to this file instead of stderr")

	return cmd
}
