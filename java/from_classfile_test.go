package java

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cft "github.com/dhamidi/jdiagram/classfile/classfiletest"
)

func modelOf(t *testing.T, b *cft.Builder) *ClassModel {
	t.Helper()
	m, err := ClassModelFromReader(bytes.NewReader(b.Bytes()))
	require.NoError(t, err)
	return m
}

// myClassFile is com.foo.MyClass as javac compiles it with -parameters.
func myClassFile() *cft.Builder {
	return cft.New("com/foo/MyClass").
		Field(cft.Private, "id", "I").
		Field(cft.Protected, "name", "Ljava/lang/String;").
		Method(cft.Public, "<init>", "()V").
		Method(cft.Public, "getId", "()I").
		Method(cft.Public, "setId", "(I)V", cft.WithParameters("id"))
}

func TestClassModelFromClassFile(t *testing.T) {
	m := modelOf(t, myClassFile())

	assert.Equal(t, "com.foo.MyClass", m.Name)
	assert.Equal(t, "MyClass", m.SimpleName)
	assert.Equal(t, "com.foo", m.Package)
	assert.Equal(t, ClassKindClass, m.Kind)
	assert.Equal(t, VisibilityPublic, m.Visibility)
	require.NotNil(t, m.SuperClass)
	assert.Equal(t, "java.lang.Object", m.SuperClass.Name)
	assert.Empty(t, m.Interfaces)

	require.Len(t, m.Fields, 2)
	assert.Equal(t, FieldModel{Name: "id", Type: TypeModel{Name: "int"}, Visibility: VisibilityPrivate}, m.Fields[0])
	assert.Equal(t, "java.lang.String", m.Fields[1].Type.Name)
	assert.Equal(t, VisibilityProtected, m.Fields[1].Visibility)

	require.Len(t, m.Methods, 3)
	assert.True(t, m.Methods[0].IsConstructor())
	assert.Equal(t, "int", m.Methods[1].ReturnType.Name)
	require.Len(t, m.Methods[2].Parameters, 1)
	assert.Equal(t, ParameterModel{Name: "id", Type: TypeModel{Name: "int"}}, m.Methods[2].Parameters[0])
	assert.True(t, m.Methods[2].ReturnType.IsVoid())
}

func TestClassModelSkipsSyntheticMembers(t *testing.T) {
	m := modelOf(t, cft.New("com/foo/Color").
		Access(cft.Public|cft.Final|cft.Super|cft.Enum).
		Super("java/lang/Enum").
		Signature("Ljava/lang/Enum<Lcom/foo/Color;>;").
		Field(cft.Public|cft.Static|cft.Final|cft.Enum, "RED", "Lcom/foo/Color;").
		Field(cft.Private|cft.Static|cft.Final|cft.Synthetic, "$VALUES", "[Lcom/foo/Color;").
		Method(cft.Public|cft.Static, "values", "()[Lcom/foo/Color;").
		Method(cft.Public|cft.Volatile|cft.Synthetic, "compareTo", "(Ljava/lang/Object;)I").
		Method(cft.Static, "<clinit>", "()V"))

	assert.Equal(t, ClassKindEnum, m.Kind)
	require.NotNil(t, m.SuperClass)
	assert.Equal(t, "java.lang.Enum", m.SuperClass.Name)
	require.Len(t, m.SuperClass.TypeArguments, 1)
	assert.Equal(t, "com.foo.Color", m.SuperClass.TypeArguments[0].Type.Name)

	require.Len(t, m.Fields, 1)
	assert.Equal(t, "RED", m.Fields[0].Name)
	require.Len(t, m.Methods, 1)
	assert.Equal(t, "values", m.Methods[0].Name)
	assert.Equal(t, TypeModel{Name: "com.foo.Color", ArrayDepth: 1}, m.Methods[0].ReturnType)
}

func TestClassModelGenericSignatures(t *testing.T) {
	m := modelOf(t, cft.New("com/foo/Sorter").
		Implements("java/util/Comparator").
		Signature("Ljava/lang/Object;Ljava/util/Comparator<Ljava/lang/Object;>;").
		Field(cft.Private, "cache", "Ljava/util/Map;",
			cft.WithSignature("Ljava/util/Map<Ljava/lang/String;Ljava/util/List<+Ljava/lang/Number;>;>;")).
		Method(cft.Public, "compare", "(Ljava/lang/Object;Ljava/lang/Object;)I",
			cft.WithParameters("left", "right")).
		Method(cft.Public, "first", "(Ljava/util/List;)Ljava/lang/Object;",
			cft.WithSignature("<T:Ljava/lang/Object;>(Ljava/util/List<TT;>;)TT;"),
			cft.WithParameters("items")))

	require.Len(t, m.Interfaces, 1)
	iface := m.Interfaces[0]
	assert.Equal(t, "java.util.Comparator", iface.Name)
	require.Len(t, iface.TypeArguments, 1)
	assert.Equal(t, "java.lang.Object", iface.TypeArguments[0].Type.Name)

	cache := m.Fields[0].Type
	require.Len(t, cache.TypeArguments, 2)
	list := cache.TypeArguments[1].Type
	require.NotNil(t, list)
	require.Len(t, list.TypeArguments, 1)
	assert.True(t, list.TypeArguments[0].IsWildcard)
	assert.Equal(t, "extends", list.TypeArguments[0].BoundKind)
	assert.Equal(t, "java.lang.Number", list.TypeArguments[0].Bound.Name)

	first := m.Methods[1]
	require.Len(t, first.TypeParameters, 1)
	assert.Equal(t, "T", first.TypeParameters[0].Name)
	assert.True(t, first.ReturnType.IsTypeVariable)
	assert.Equal(t, "items", first.Parameters[0].Name)
	assert.Equal(t, "T", first.Parameters[0].Type.TypeArguments[0].Type.Name)
}

func TestClassModelMalformedSignatureFallsBack(t *testing.T) {
	m := modelOf(t, cft.New("com/foo/Broken").
		Implements("java/lang/Runnable").
		Signature("Ljava/lang/Object;Ljava/lang/Runnable").
		Field(cft.Public, "f", "Ljava/util/List;", cft.WithSignature("Ljava/util/List<")))

	require.Len(t, m.Interfaces, 1)
	assert.Equal(t, "java.lang.Runnable", m.Interfaces[0].Name)
	assert.Equal(t, TypeModel{Name: "java.util.List"}, m.Fields[0].Type)
}

func TestParameterNameFallbacks(t *testing.T) {
	m := modelOf(t, cft.New("com/foo/Calc").
		Method(cft.Public, "add", "(JI)J", cft.WithLocals("this", "total", "", "step")).
		Method(cft.Public|cft.Static, "scale", "(D)D", cft.WithLocals("factor")).
		Method(cft.Public|cft.Abstract, "apply", "(ILjava/lang/String;)V"))

	add := m.Methods[0]
	require.Len(t, add.Parameters, 2)
	// long takes two local slots: total is slot 1, step is slot 3.
	assert.Equal(t, "total", add.Parameters[0].Name)
	assert.Equal(t, "step", add.Parameters[1].Name)

	scale := m.Methods[1]
	require.Len(t, scale.Parameters, 1)
	assert.Equal(t, "factor", scale.Parameters[0].Name)

	apply := m.Methods[2]
	require.Len(t, apply.Parameters, 2)
	assert.Equal(t, "arg0", apply.Parameters[0].Name)
	assert.Equal(t, "arg1", apply.Parameters[1].Name)
}

func TestInnerClassModel(t *testing.T) {
	outer := modelOf(t, cft.New("com/foo/Outer").
		InnerClass("com/foo/Outer$Listener", "com/foo/Outer", "Listener",
			cft.Public|cft.Static|cft.Interface|cft.Abstract))
	require.Len(t, outer.InnerClasses, 1)
	assert.Equal(t, InnerClassModel{
		InnerClass: "com.foo.Outer$Listener",
		OuterClass: "com.foo.Outer",
		InnerName:  "Listener",
		Visibility: VisibilityPublic,
		IsStatic:   true,
	}, outer.InnerClasses[0])
	assert.False(t, outer.IsNested())

	inner := modelOf(t, cft.New("com/foo/Outer$Listener").
		Access(cft.Interface|cft.Abstract).
		InnerClass("com/foo/Outer$Listener", "com/foo/Outer", "Listener",
			cft.Protected|cft.Static|cft.Interface|cft.Abstract))
	assert.Equal(t, "com.foo.Outer", inner.EnclosingClass)
	assert.Equal(t, "Listener", inner.SimpleName)
	assert.Equal(t, VisibilityProtected, inner.Visibility)
	assert.True(t, inner.IsStatic)
	assert.True(t, inner.IsNested())

	anon := modelOf(t, cft.New("com/foo/Outer$1").
		InnerClass("com/foo/Outer$1", "", "", 0))
	assert.True(t, anon.IsLocal)
}

func TestInterfaceMethodsDefault(t *testing.T) {
	m := modelOf(t, cft.New("com/foo/Shape").
		Access(cft.Public|cft.Interface|cft.Abstract).
		Method(cft.Public|cft.Abstract, "area", "()D").
		Method(cft.Public, "describe", "()Ljava/lang/String;").
		Method(cft.Public|cft.Static, "unit", "()Lcom/foo/Shape;"))

	assert.Equal(t, ClassKindInterface, m.Kind)
	assert.False(t, m.Methods[0].IsDefault)
	assert.True(t, m.Methods[1].IsDefault)
	assert.False(t, m.Methods[2].IsDefault)
}

func TestPackageAndModuleInfo(t *testing.T) {
	pkg := modelOf(t, cft.New("com/foo/package-info").
		Access(cft.Interface|cft.Abstract|cft.Synthetic))
	assert.Equal(t, ClassKindPackage, pkg.Kind)
	assert.Equal(t, "com.foo", pkg.Package)

	mod := modelOf(t, cft.New("module-info").Access(0x8000).Super(""))
	assert.Equal(t, ClassKindModule, mod.Kind)
}

func TestClassModelFromFile(t *testing.T) {
	dir := t.TempDir()
	path, err := myClassFile().WriteFile(dir, "com/foo/MyClass")
	require.NoError(t, err)

	m, err := ClassModelFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "com.foo.MyClass", m.Name)
	assert.Equal(t, path, m.Source)

	_, err = ClassModelFromReader(bytes.NewReader([]byte("not a class")))
	assert.Error(t, err)
}
