// Package java builds a declared-type model of compiled Java classes and
// links it into the element graph the diagram engine walks.
package java

import "strings"

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

type ClassKind string

const (
	ClassKindClass      ClassKind = "class"
	ClassKindInterface  ClassKind = "interface"
	ClassKindEnum       ClassKind = "enum"
	ClassKindAnnotation ClassKind = "annotation"
	// ClassKindPackage marks a compiled package-info; it declares no type.
	ClassKindPackage ClassKind = "package"
	ClassKindModule  ClassKind = "module"
)

// ClassModel describes one class file. Name is the binary name with dots
// as package separators, e.g. "com.foo.Outer$Inner".
type ClassModel struct {
	Name           string
	SimpleName     string
	Package        string
	Kind           ClassKind
	Visibility     Visibility
	IsFinal        bool
	IsAbstract     bool
	IsStatic       bool
	IsSealed       bool
	SuperClass     *TypeModel
	Interfaces     []TypeModel
	TypeParameters []TypeParameterModel

	// EnclosingClass is the binary name of the declaring class of a member
	// class. IsLocal marks local and anonymous classes.
	EnclosingClass string
	IsLocal        bool
	InnerClasses   []InnerClassModel

	Fields  []FieldModel
	Methods []MethodModel

	// Source is where the class was loaded from, for diagnostics.
	Source string
}

// IsNested reports whether the class is declared inside another class.
func (c *ClassModel) IsNested() bool {
	return c.EnclosingClass != "" || c.IsLocal
}

type FieldModel struct {
	Name        string
	Type        TypeModel
	Visibility  Visibility
	IsStatic    bool
	IsFinal     bool
	IsVolatile  bool
	IsTransient bool
}

type MethodModel struct {
	Name           string
	ReturnType     TypeModel
	Parameters     []ParameterModel
	TypeParameters []TypeParameterModel
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsSynchronized bool
	IsNative       bool
	IsStrict       bool
	IsDefault      bool
}

func (m MethodModel) IsConstructor() bool {
	return m.Name == "<init>"
}

type ParameterModel struct {
	Name string
	Type TypeModel
}

// TypeModel is a type use. Name is a primitive keyword, "void", a type
// variable name, or the binary name of a class.
type TypeModel struct {
	Name           string
	ArrayDepth     int
	IsTypeVariable bool
	TypeArguments  []TypeArgumentModel
}

func (t TypeModel) IsPrimitive() bool {
	if t.IsArray() {
		return false
	}
	switch t.Name {
	case "boolean", "byte", "char", "short", "int", "long", "float", "double":
		return true
	}
	return false
}

func (t TypeModel) IsArray() bool {
	return t.ArrayDepth > 0
}

func (t TypeModel) IsVoid() bool {
	return t.Name == "void" && t.ArrayDepth == 0
}

type TypeArgumentModel struct {
	Type       *TypeModel
	IsWildcard bool
	BoundKind  string // "extends", "super", or "" for unbounded
	Bound      *TypeModel
}

type TypeParameterModel struct {
	Name   string
	Bounds []TypeModel
}

type InnerClassModel struct {
	InnerClass string
	OuterClass string
	InnerName  string
	Visibility Visibility
	IsStatic   bool
}

func splitClassName(fullName string) (pkg, simpleName string) {
	lastDot := strings.LastIndex(fullName, ".")
	if lastDot == -1 {
		return "", fullName
	}
	return fullName[:lastDot], fullName[lastDot+1:]
}
