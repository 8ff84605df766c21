package diagram

import (
	"bytes"
	"io"

	"github.com/charmbracelet/log"

	"github.com/dhamidi/jdiagram/element"
)

var (
	stringType = element.Named("java.lang.String")
	objectType = element.Named("java.lang.Object")
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func bufferLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

// myClass is com.foo.MyClass with two fields and an accessor pair.
func myClass(g *element.Graph) *element.Element {
	cls := element.NewType(element.KindClass, "com.foo.MyClass", element.ModPublic)
	cls.Superclass = objectType
	cls.Add(
		element.NewField("id", element.Primitive("int"), element.ModPrivate),
		element.NewField("name", stringType, element.ModProtected),
		element.NewMethod("getId", element.Primitive("int"), nil, element.ModPublic),
		element.NewMethod("setId", element.Void, []element.Parameter{
			{Name: "id", Type: element.Primitive("int")},
		}, element.ModPublic),
	)
	g.AddRoot("com.foo", cls)
	return cls
}

// chain builds com.chain.A <- B <- C and returns the three classes.
func chain(g *element.Graph, roots ...string) (a, b, c *element.Element) {
	a = element.NewType(element.KindClass, "com.chain.A", element.ModPublic)
	a.Superclass = objectType
	b = element.NewType(element.KindClass, "com.chain.B", element.ModPublic)
	b.Superclass = element.Declared(a)
	c = element.NewType(element.KindClass, "com.chain.C", element.ModPublic)
	c.Superclass = element.Declared(b)

	byName := map[string]*element.Element{"A": a, "B": b, "C": c}
	isRoot := make(map[string]bool)
	for _, r := range roots {
		isRoot[r] = true
	}
	for _, name := range []string{"A", "B", "C"} {
		if isRoot[name] {
			g.AddRoot("com.chain", byName[name])
		} else {
			g.AddType("com.chain", byName[name])
		}
	}
	return a, b, c
}

func newTestGenerator(g *element.Graph, sink Sink) *Generator {
	gen := NewGenerator(g, sink, DefaultOptions())
	gen.Logger = quietLogger()
	return gen
}
