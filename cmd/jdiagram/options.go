package main

import (
	"context"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jdiagram/config"
	"github.com/dhamidi/jdiagram/diagram"
	"github.com/dhamidi/jdiagram/java/codebase"
	"github.com/dhamidi/jdiagram/project"
)

// diagramFlags are the flags shared by the commands that render diagrams.
// A flag only overrides the configuration file when it was set.
type diagramFlags struct {
	configPath  string
	output      string
	format      string
	hideMembers bool
	extension   string
	include     []string
	exclude     []string
	classpath   []string
	jobs        int
}

func (f *diagramFlags) bind(cmd *cobra.Command) {
	defaults := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "path to "+config.FileName+" (default: nearest one above the working directory)")
	flags.StringVarP(&f.output, "out", "o", defaults.Output, "directory the documents are written to")
	flags.StringVarP(&f.format, "format", "f", defaults.ImageFormat, "image format of the generated diagrams")
	flags.BoolVar(&f.hideMembers, "hide-members", defaults.HideMembers, "hide fields and methods in the diagrams")
	flags.StringVar(&f.extension, "ext", defaults.Extension, "file extension of the generated documents")
	flags.StringSliceVar(&f.include, "include", nil, "only render these packages and their subpackages")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "skip these packages and their subpackages")
	flags.StringSliceVar(&f.classpath, "classpath", nil, "jars and directories that resolve supertypes without being diagrammed (default: the project's lib/ jars)")
	flags.IntVarP(&f.jobs, "jobs", "j", defaults.Jobs, "number of packages rendered concurrently (0: one per CPU)")
}

// resolve loads the configuration file and applies the flags that were set.
func (f *diagramFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Resolve(f.configPath, ".")
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.Output = f.output
	}
	if flags.Changed("format") {
		cfg.ImageFormat = f.format
	}
	if flags.Changed("hide-members") {
		cfg.HideMembers = f.hideMembers
	}
	if flags.Changed("ext") {
		cfg.Extension = f.extension
	}
	if flags.Changed("include") {
		cfg.Include = f.include
	}
	if flags.Changed("exclude") {
		cfg.Exclude = f.exclude
	}
	if flags.Changed("classpath") {
		cfg.Classpath = f.classpath
	}
	if flags.Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}
	return cfg, nil
}

// inputs picks the paths to scan: the arguments, then the configured
// inputs, then the class directories of the project in the working
// directory.
func inputs(args []string, cfg config.Config) []string {
	if len(args) > 0 {
		return args
	}
	if len(cfg.Inputs) > 0 {
		return cfg.Inputs
	}
	return project.DefaultInputs(".")
}

// classpath picks the library paths: the configured classpath, then the
// jars in the lib directory of the project in the working directory.
func classpath(cfg config.Config) []string {
	if len(cfg.Classpath) > 0 {
		return cfg.Classpath
	}
	return project.DefaultClasspath(".")
}

func loadCodebase(ctx context.Context, cfg config.Config, paths []string) (*codebase.Codebase, error) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	cb := codebase.New(paths...)
	cb.Logger = logger
	cb.UniversalRoot = cfg.UniversalRoot
	if err := cb.ScanAll(); err != nil {
		return nil, err
	}
	for _, lib := range classpath(cfg) {
		if err := cb.AddLibrary(lib); err != nil {
			return nil, err
		}
	}

	p.done("scanned class files", "files", len(cb.Paths()), "classes", len(cb.AllClasses()), "library", len(cb.LibraryClasses()))
	return cb, nil
}

func newGenerator(ctx context.Context, cfg config.Config, cb *codebase.Codebase, sink diagram.Sink) *diagram.Generator {
	gen := diagram.NewGenerator(cb.Graph(), sink, cfg.Options())
	gen.Logger = loggerFromContext(ctx)
	gen.Include = cfg.Include
	gen.Exclude = cfg.Exclude
	gen.Jobs = cfg.Jobs
	return gen
}

// sinkFor writes into the configured output directory, or to w when
// printing. Printed documents are emitted sequentially to keep their order.
func sinkFor(cfg *config.Config, stdout bool, w io.Writer) diagram.Sink {
	if stdout {
		cfg.Jobs = 1
		return diagram.NewWriterSink(w)
	}
	return diagram.NewFileSink(cfg.Output)
}
