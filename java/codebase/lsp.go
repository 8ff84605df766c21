package codebase

import (
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jdiagram/diagram"
)

const lsName = "jdiagram"

const (
	CommandRender     = "jdiagram.render"
	CommandNamespaces = "jdiagram.namespaces"
)

// LSPServer answers diagram requests for the class files under the
// workspace root.
type LSPServer struct {
	Options       diagram.Options
	Include       []string
	Exclude       []string
	UniversalRoot string
	// ExtraRoots are scanned in addition to the workspace root.
	ExtraRoots []string
	// Classpath lists libraries that resolve supertypes only.
	Classpath []string

	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		Options: diagram.DefaultOptions(),
		version: version,
		log:     commonlog.GetLogger(lsName),
	}

	ls.handler = protocol.Handler{
		Initialize:                     ls.initialize,
		Initialized:                    ls.initialized,
		Shutdown:                       ls.shutdown,
		SetTrace:                       ls.setTrace,
		WorkspaceDidChangeWatchedFiles: ls.workspaceDidChangeWatchedFiles,
		WorkspaceExecuteCommand:        ls.workspaceExecuteCommand,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

// Codebase returns the codebase created by initialize, or nil before it.
func (ls *LSPServer) Codebase() *Codebase {
	return ls.codebase
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir)
	for _, root := range ls.ExtraRoots {
		ls.codebase.AddRoot(root)
	}
	// stdout carries the protocol.
	ls.codebase.Logger = log.New(io.Discard)
	if ls.UniversalRoot != "" {
		ls.codebase.UniversalRoot = ls.UniversalRoot
	}

	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandRender, CommandNamespaces},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	for _, root := range ls.codebase.Roots() {
		if err := ls.codebase.ScanPath(root); err != nil {
			ls.log.Warning("scan failed", "path", root, "err", err.Error())
		}
	}
	for _, lib := range ls.Classpath {
		if err := ls.codebase.AddLibrary(lib); err != nil {
			ls.log.Warning("library scan failed", "path", lib, "err", err.Error())
		}
	}
	ls.log.Info("codebase scanned", "classes", len(ls.codebase.AllClasses()))
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) workspaceDidChangeWatchedFiles(ctx *glsp.Context, params *protocol.DidChangeWatchedFilesParams) error {
	if ls.codebase == nil {
		return nil
	}
	for _, change := range params.Changes {
		path, err := uriToPath(change.URI)
		if err != nil || (!IsClassFile(path) && !IsArchive(path)) {
			continue
		}
		if change.Type == protocol.FileChangeTypeDeleted {
			ls.codebase.RemoveFile(path)
			continue
		}
		var scanErr error
		if IsArchive(path) {
			scanErr = ls.codebase.ScanArchive(path)
		} else {
			scanErr = ls.codebase.ScanFile(path)
		}
		if scanErr != nil {
			ls.log.Warning("rescan failed", "path", path, "err", scanErr.Error())
		}
	}
	return nil
}

func (ls *LSPServer) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if ls.codebase == nil {
		return nil, errors.New("server not initialized")
	}
	switch params.Command {
	case CommandNamespaces:
		return ls.Namespaces(), nil
	case CommandRender:
		if len(params.Arguments) == 0 {
			return nil, errors.Newf("%s: missing namespace argument", CommandRender)
		}
		ns, ok := params.Arguments[0].(string)
		if !ok {
			return nil, errors.Newf("%s: namespace must be a string, got %T", CommandRender, params.Arguments[0])
		}
		return ls.Render(ns)
	}
	return nil, errors.Newf("unknown command %q", params.Command)
}

func (ls *LSPServer) registry() *diagram.Registry {
	reg := diagram.NewRegistry(ls.codebase.Graph())
	reg.Logger = ls.codebase.Logger
	reg.Include = ls.Include
	reg.Exclude = ls.Exclude
	for _, root := range reg.Source.Roots() {
		reg.Register(root)
	}
	return reg
}

// Namespaces lists the namespaces that have a diagram.
func (ls *LSPServer) Namespaces() []string {
	var names []string
	for _, d := range ls.registry().Diagrams() {
		names = append(names, d.Namespace.QualifiedName)
	}
	return names
}

// Render returns the document for one namespace.
func (ls *LSPServer) Render(namespace string) (string, error) {
	reg := ls.registry()
	d, ok := reg.Diagram(namespace)
	if !ok {
		return "", errors.Newf("no diagram for namespace %q", namespace)
	}
	asm := diagram.NewAssembler(reg.Source, ls.Options)
	asm.Logger = ls.codebase.Logger
	return asm.Assemble(d).Content, nil
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}
