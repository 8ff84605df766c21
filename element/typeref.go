package element

import "strings"

type TypeKind string

const (
	TypeNone      TypeKind = ""
	TypeVoid      TypeKind = "void"
	TypePrimitive TypeKind = "primitive"
	TypeDeclared  TypeKind = "declared"
	TypeArray     TypeKind = "array"
	TypeVariable  TypeKind = "variable"
	TypeWildcard  TypeKind = "wildcard"
)

// TypeRef is a reference to a type as it appears in a declaration.
//
// For declared types Name is the qualified name of the declaring type and
// Element points to it when the model knows it. Arguments holds the type
// arguments. Arrays keep their component in Component, wildcards keep their
// bound in Component with BoundKind "extends" or "super".
type TypeRef struct {
	Kind      TypeKind
	Name      string
	Arguments []TypeRef
	Component *TypeRef
	BoundKind string
	Element   *Element
}

var Void = TypeRef{Kind: TypeVoid, Name: "void"}

func Primitive(name string) TypeRef {
	return TypeRef{Kind: TypePrimitive, Name: name}
}

// Declared returns a reference to decl with the given type arguments.
func Declared(decl *Element, args ...TypeRef) TypeRef {
	return TypeRef{Kind: TypeDeclared, Name: decl.QualifiedName, Element: decl, Arguments: args}
}

// Named returns a reference to a declared type the model does not resolve.
func Named(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: TypeDeclared, Name: name, Arguments: args}
}

func ArrayOf(component TypeRef) TypeRef {
	return TypeRef{Kind: TypeArray, Component: &component}
}

func Variable(name string) TypeRef {
	return TypeRef{Kind: TypeVariable, Name: name}
}

// Wildcard returns "?" when bound is nil, otherwise "? <boundKind> <bound>".
func Wildcard(boundKind string, bound *TypeRef) TypeRef {
	return TypeRef{Kind: TypeWildcard, BoundKind: boundKind, Component: bound}
}

// IsAbsent reports whether the reference denotes no type at all, the way a
// root class or an interface has no superclass.
func (t TypeRef) IsAbsent() bool {
	return t.Kind == TypeNone
}

func (t TypeRef) HasArguments() bool {
	return len(t.Arguments) > 0
}

// Erasure returns the name of the declaring type without type arguments.
func (t TypeRef) Erasure() string {
	if t.Element != nil {
		return t.Element.QualifiedName
	}
	return t.Name
}

// String renders t the way javac prints a type mirror: type arguments are
// separated by a bare comma.
func (t TypeRef) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t TypeRef) write(sb *strings.Builder) {
	switch t.Kind {
	case TypeNone:
		sb.WriteString("none")
	case TypeArray:
		if t.Component != nil {
			t.Component.write(sb)
		}
		sb.WriteString("[]")
	case TypeWildcard:
		sb.WriteString("?")
		if t.Component != nil {
			sb.WriteString(" ")
			sb.WriteString(t.BoundKind)
			sb.WriteString(" ")
			t.Component.write(sb)
		}
	case TypeDeclared:
		sb.WriteString(t.Erasure())
		if len(t.Arguments) > 0 {
			sb.WriteString("<")
			for i, arg := range t.Arguments {
				if i > 0 {
					sb.WriteString(",")
				}
				arg.write(sb)
			}
			sb.WriteString(">")
		}
	default:
		sb.WriteString(t.Name)
	}
}
