package java

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cft "github.com/dhamidi/jdiagram/classfile/classfiletest"
	"github.com/dhamidi/jdiagram/diagram"
	"github.com/dhamidi/jdiagram/element"
)

func newTestUniverse(t *testing.T, builders ...*cft.Builder) *Universe {
	t.Helper()
	u := NewUniverse()
	u.Logger = log.New(io.Discard)
	for _, b := range builders {
		u.Add(modelOf(t, b))
	}
	return u
}

func rootNames(g *element.Graph) []string {
	var names []string
	for _, r := range g.Roots() {
		names = append(names, r.QualifiedName)
	}
	return names
}

func TestUniverseTopLevelRoots(t *testing.T) {
	u := newTestUniverse(t, myClassFile(), cft.New("com/arg/Creator").
		Access(cft.Public|cft.Interface|cft.Abstract).
		Method(cft.Public|cft.Abstract, "create", "()Lcom/foo/MyClass;"))
	g := u.Build()

	assert.Equal(t, []string{"com.arg.Creator", "com.foo.MyClass"}, rootNames(g))

	creator := g.Roots()[0]
	assert.Equal(t, element.KindInterface, creator.Kind)
	assert.True(t, creator.Superclass.IsAbsent())
	require.Len(t, creator.Enclosed, 1)
	create := creator.Enclosed[0]
	assert.Same(t, g.Roots()[1], create.ReturnType.Element)
	assert.Equal(t, "com.arg", g.PackageOf(creator).QualifiedName)

	myClass := g.Roots()[1]
	assert.True(t, g.IsUniversalRoot(myClass.Superclass))
	assert.Nil(t, myClass.Superclass.Element)
}

func TestUniverseArrayTypes(t *testing.T) {
	u := newTestUniverse(t, cft.New("com/foo/Grid").
		Field(cft.Private, "cells", "[[I").
		Field(cft.Private, "peers", "[Lcom/foo/Grid;"))
	g := u.Build()

	grid := g.Roots()[0]
	require.Len(t, grid.Enclosed, 2)

	cells := grid.Enclosed[0].Type
	assert.Equal(t, element.TypeArray, cells.Kind)
	require.NotNil(t, cells.Component)
	require.NotNil(t, cells.Component.Component)
	assert.Equal(t, element.Primitive("int"), *cells.Component.Component)
	assert.Equal(t, "int[][]", cells.String())

	peers := grid.Enclosed[1].Type
	require.NotNil(t, peers.Component)
	assert.Same(t, grid, peers.Component.Element)
	assert.Equal(t, "com.foo.Grid[]", peers.String())
}

func TestUniverseMemberClasses(t *testing.T) {
	u := newTestUniverse(t,
		cft.New("com/foo/Outer").
			Field(cft.Private, "listener", "Lcom/foo/Outer$Listener;").
			InnerClass("com/foo/Outer$Listener", "com/foo/Outer", "Listener",
				cft.Public|cft.Static|cft.Interface|cft.Abstract).
			InnerClass("com/foo/Outer$1", "", "", 0),
		cft.New("com/foo/Outer$Listener").
			Access(cft.Public|cft.Interface|cft.Abstract).
			Method(cft.Public|cft.Abstract, "onEvent", "()V").
			InnerClass("com/foo/Outer$Listener", "com/foo/Outer", "Listener",
				cft.Public|cft.Static|cft.Interface|cft.Abstract),
		cft.New("com/foo/Outer$1").
			Implements("com/foo/Outer$Listener").
			InnerClass("com/foo/Outer$1", "", "", 0))
	g := u.Build()

	require.Equal(t, []string{"com.foo.Outer"}, rootNames(g))
	outer := g.Roots()[0]
	require.Len(t, outer.Enclosed, 2)

	field := outer.Enclosed[0]
	assert.Equal(t, "com.foo.Outer.Listener", field.Type.String())

	listener := outer.Enclosed[1]
	assert.Equal(t, element.KindInterface, listener.Kind)
	assert.Equal(t, "com.foo.Outer.Listener", listener.QualifiedName)
	assert.Equal(t, "Listener", listener.Name)
	assert.Same(t, outer, listener.Enclosing)
	assert.True(t, listener.HasModifier(element.ModStatic))
	assert.Same(t, g.PackageOf(outer), g.PackageOf(listener))
}

func TestUniverseStubs(t *testing.T) {
	u := newTestUniverse(t,
		cft.New("com/foo/Sorter").
			Super("com/base/Base").
			Implements("java/util/Comparator", "java/io/Serializable").
			Signature("Lcom/base/Base;Ljava/util/Comparator<Ljava/lang/Object;>;Ljava/io/Serializable;"),
		cft.New("com/foo/Other").Super("com/base/Base"))
	g := u.Build()

	sorter := g.Roots()[1]
	require.Equal(t, "com.foo.Sorter", sorter.QualifiedName)
	base := sorter.Superclass.Element
	require.NotNil(t, base)
	assert.Equal(t, element.KindClass, base.Kind)
	assert.Equal(t, "com.base.Base", base.QualifiedName)
	assert.Empty(t, base.Enclosed)
	assert.Same(t, base, g.Roots()[0].Superclass.Element, "stubs are shared")

	require.Len(t, sorter.Interfaces, 2)
	cmp := sorter.Interfaces[0]
	assert.Equal(t, element.KindInterface, cmp.Element.Kind)
	assert.Equal(t, "java.util.Comparator<java.lang.Object>", cmp.String())
	assert.Equal(t, "java.util.Comparator", cmp.Erasure())
}

func TestUniverseLibrarySupertypes(t *testing.T) {
	u := newTestUniverse(t, cft.New("com/foo/Queue").Super("com/lib/AbstractQueue"))
	u.AddLibrary(
		modelOf(t, cft.New("com/lib/AbstractQueue").
			Access(cft.Public|cft.Super|cft.Abstract).
			Implements("com/lib/Sized").
			Method(cft.Public|cft.Abstract, "size", "()I")),
		modelOf(t, cft.New("com/lib/Sized").
			Access(cft.Public|cft.Interface|cft.Abstract).
			Method(cft.Public|cft.Abstract, "size", "()I")),
		modelOf(t, cft.New("com/foo/Queue").Super("com/lib/Other")))
	g := u.Build()

	require.Equal(t, []string{"com.foo.Queue"}, rootNames(g))
	queue := g.Roots()[0]
	base := queue.Superclass.Element
	require.NotNil(t, base, "the project class wins over the library copy")
	assert.Equal(t, "com.lib.AbstractQueue", base.QualifiedName)
	assert.True(t, base.HasModifier(element.ModAbstract))
	require.Len(t, base.Enclosed, 1)
	assert.Equal(t, "size", base.Enclosed[0].Name)
	assert.Nil(t, g.PackageOf(base))

	require.Len(t, base.Interfaces, 1)
	sized := base.Interfaces[0].Element
	require.NotNil(t, sized)
	assert.Equal(t, element.KindInterface, sized.Kind)
	assert.Len(t, sized.Enclosed, 1)
	assert.True(t, g.IsUniversalRoot(base.Superclass))
}

func TestGenerateRendersLibraryInterfaceMembers(t *testing.T) {
	u := newTestUniverse(t, cft.New("com/foo/Sorter").Implements("java/util/Comparator"))
	u.AddLibrary(modelOf(t, cft.New("java/util/Comparator").
		Access(cft.Public|cft.Interface|cft.Abstract).
		Method(cft.Public, "reversed", "()Ljava/util/Comparator;")))
	sink := generate(t, u)

	content, ok := sink.Get("com/foo/com-foo-class-diagram.adoc")
	require.True(t, ok)
	assert.Contains(t, content, "interface java.util.Comparator{\n\treversed(): java.util.Comparator\n}\n")
	assert.Contains(t, content, "java.util.Comparator<|--com.foo.Sorter\n")
}

func TestUniverseEnumAndAnnotation(t *testing.T) {
	u := newTestUniverse(t,
		cft.New("com/foo/Color").
			Access(cft.Public|cft.Final|cft.Super|cft.Enum).
			Super("java/lang/Enum").
			Signature("Ljava/lang/Enum<Lcom/foo/Color;>;").
			Field(cft.Public|cft.Static|cft.Final|cft.Enum, "RED", "Lcom/foo/Color;"),
		cft.New("com/foo/Marker").
			Access(cft.Public|cft.Interface|cft.Abstract|cft.Annotation).
			Implements("java/lang/annotation/Annotation").
			Method(cft.Public|cft.Abstract, "value", "()Ljava/lang/String;"))
	g := u.Build()

	color := g.Roots()[0]
	assert.Equal(t, element.KindEnum, color.Kind)
	assert.Equal(t, "java.lang.Enum<com.foo.Color>", color.Superclass.String())
	assert.False(t, color.HasModifier(element.ModFinal))
	field := color.Enclosed[0]
	assert.Equal(t, []element.Modifier{element.ModPublic, element.ModStatic, element.ModFinal}, field.Modifiers)

	marker := g.Roots()[1]
	assert.Equal(t, element.KindAnnotation, marker.Kind)
	assert.True(t, marker.Superclass.IsAbsent())
}

func TestUniversePackageInfo(t *testing.T) {
	u := newTestUniverse(t,
		cft.New("com/foo/package-info").Access(cft.Interface|cft.Abstract|cft.Synthetic),
		myClassFile())
	g := u.Build()

	// Roots follow binary name order: MyClass sorts before package-info.
	require.Len(t, g.Roots(), 2)
	ns := g.Roots()[1]
	assert.Equal(t, element.KindNamespace, ns.Kind)
	assert.Equal(t, "com.foo", ns.QualifiedName)
	assert.Same(t, ns, g.PackageOf(g.Roots()[0]))
}

func TestUniverseReplaceAndRemove(t *testing.T) {
	u := newTestUniverse(t, myClassFile())
	assert.Equal(t, 1, u.Len())

	u.Add(modelOf(t, cft.New("com/foo/MyClass").Field(cft.Public, "only", "J")))
	assert.Equal(t, 1, u.Len())
	g := u.Build()
	require.Len(t, g.Roots()[0].Enclosed, 1)
	assert.Equal(t, "only", g.Roots()[0].Enclosed[0].Name)

	assert.True(t, u.Remove("com.foo.MyClass"))
	assert.False(t, u.Remove("com.foo.MyClass"))
	assert.Empty(t, u.Build().Roots())
}

func TestUniverseCustomRoot(t *testing.T) {
	u := newTestUniverse(t, cft.New("com/foo/Thing").Super("com/base/Entity"))
	u.UniversalRoot = "com.base.Entity"
	g := u.Build()

	thing := g.Roots()[0]
	assert.True(t, g.IsUniversalRoot(thing.Superclass))
	assert.Nil(t, thing.Superclass.Element)
}

func generate(t *testing.T, u *Universe) *diagram.MemorySink {
	t.Helper()
	sink := diagram.NewMemorySink()
	gen := diagram.NewGenerator(u.Build(), sink, diagram.DefaultOptions())
	gen.Logger = log.New(io.Discard)
	_, err := gen.Generate(t.Context())
	require.NoError(t, err)
	return sink
}

func TestGenerateFromClassFiles(t *testing.T) {
	u := newTestUniverse(t, myClassFile())
	sink := generate(t, u)

	content, ok := sink.Get("com/foo/com-foo-class-diagram.adoc")
	require.True(t, ok)
	want := "[plantuml, com-foo-class-diagram, svg]\n" +
		"....\n" +
		"package com.foo {\n" +
		"class com.foo.MyClass{\n" +
		"\t-id: int\n" +
		"\t#name: java.lang.String\n" +
		"\t+<init>(): void\n" +
		"\t+getId(): int\n" +
		"\t+setId(int id): void\n" +
		"}\n" +
		"\n" +
		"}\n" +
		"hide members\n" +
		"...."
	assert.Equal(t, want, content)
}

func TestGenerateErasesGenericParents(t *testing.T) {
	u := newTestUniverse(t, cft.New("com/foo/Sorter").
		Implements("java/util/Comparator").
		Signature("Ljava/lang/Object;Ljava/util/Comparator<Ljava/lang/Object;>;").
		Method(cft.Public, "compare", "(Ljava/lang/Object;Ljava/lang/Object;)I",
			cft.WithParameters("a", "b")))
	sink := generate(t, u)

	content, ok := sink.Get("com/foo/com-foo-class-diagram.adoc")
	require.True(t, ok)
	assert.Contains(t, content, "interface java.util.Comparator{\n}\n")
	assert.Contains(t, content, "java.util.Comparator<|--com.foo.Sorter\n")
	assert.Contains(t, content, "\t+compare(java.lang.Object a,java.lang.Object b): int\n")
	assert.NotContains(t, content, "Comparator<java.lang.Object><|--")
}
