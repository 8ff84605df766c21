package diagram

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/jdiagram/element"
)

var errDiskFull = errors.New("disk full")

type failingSink struct {
	failOn  string
	written []string
}

func (s *failingSink) Write(ctx context.Context, path string, content string) error {
	if path == s.failOn {
		return errDiskFull
	}
	s.written = append(s.written, path)
	return nil
}

func multiNamespaceGraph() *element.Graph {
	g := element.NewGraph()
	cls := myClass(g)
	creator := element.NewType(element.KindInterface, "com.arg.Creator", element.ModPublic)
	creator.Add(element.NewMethod("create", element.Declared(cls), nil, element.ModPublic, element.ModAbstract))
	g.AddRoot("com.arg", creator)
	chain(g, "C")
	return g
}

func TestGenerateWritesOneDocumentPerNamespace(t *testing.T) {
	g := multiNamespaceGraph()
	sink := NewMemorySink()

	docs, err := newTestGenerator(g, sink).Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, docs, 3)
	assert.Equal(t, []string{
		"com/arg/com-arg-class-diagram.adoc",
		"com/chain/com-chain-class-diagram.adoc",
		"com/foo/com-foo-class-diagram.adoc",
	}, sink.Paths())
	for _, doc := range docs {
		content, ok := sink.Get(doc.Path)
		require.True(t, ok)
		assert.Equal(t, doc.Content, content)
	}
}

func TestGenerateSkipsNonTypeRoots(t *testing.T) {
	g := multiNamespaceGraph()
	g.AddRoot("com.empty", g.Namespace("com.empty"))
	sink := NewMemorySink()

	var logs bytes.Buffer
	gen := newTestGenerator(g, sink)
	gen.Logger = bufferLogger(&logs)

	docs, err := gen.Generate(context.Background())
	require.NoError(t, err)

	assert.Len(t, docs, 3)
	assert.NotContains(t, sink.Paths(), "com/empty/com-empty-class-diagram.adoc")
	assert.Contains(t, logs.String(), "not a type")
}

func TestGenerateAbortsOnSinkFailure(t *testing.T) {
	g := multiNamespaceGraph()
	sink := &failingSink{failOn: "com/chain/com-chain-class-diagram.adoc"}

	docs, err := newTestGenerator(g, sink).Generate(context.Background())

	require.Error(t, err)
	assert.Nil(t, docs)
	assert.True(t, errors.Is(err, errDiskFull))
	assert.Contains(t, err.Error(), "com/chain/com-chain-class-diagram.adoc")
	assert.Equal(t, []string{"com/arg/com-arg-class-diagram.adoc"}, sink.written)
}

func TestGenerateParallelMatchesSequential(t *testing.T) {
	g := multiNamespaceGraph()

	sequential := NewMemorySink()
	seqDocs, err := newTestGenerator(g, sequential).Generate(context.Background())
	require.NoError(t, err)

	parallel := NewMemorySink()
	gen := newTestGenerator(g, parallel)
	gen.Jobs = 4
	parDocs, err := gen.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, seqDocs, parDocs)
	assert.Equal(t, sequential.Paths(), parallel.Paths())
}

func TestGenerateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestGenerator(multiNamespaceGraph(), NewMemorySink()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSinkWritesBelowDir(t *testing.T) {
	dir := t.TempDir()
	g := multiNamespaceGraph()

	docs, err := newTestGenerator(g, NewFileSink(dir)).Generate(context.Background())
	require.NoError(t, err)

	for _, doc := range docs {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(doc.Path)))
		require.NoError(t, err)
		assert.Equal(t, doc.Content, string(data))
	}
}

func TestFileSinkReportsWriteErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "com")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0644))

	_, err := newTestGenerator(multiNamespaceGraph(), NewFileSink(dir)).Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write diagram com/arg/com-arg-class-diagram.adoc")
}

func TestWriterSinkPrintsDocuments(t *testing.T) {
	var buf bytes.Buffer
	docs, err := newTestGenerator(multiNamespaceGraph(), NewWriterSink(&buf)).Generate(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	var want string
	for _, doc := range docs {
		want += doc.Content + "\n\n"
	}
	assert.Equal(t, want, buf.String())
}
