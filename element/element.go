// Package element defines the read-only declared-type model the diagram
// engine walks.
//
// An Element is a closed tagged variant: Kind selects which of the payload
// fields are meaningful. Namespaces and types carry a QualifiedName, fields
// carry a Type, methods and constructors carry Parameters and a ReturnType,
// and types additionally carry their Superclass, Interfaces and
// TypeParameters. Enclosed holds the directly enclosed elements in
// declaration order.
//
// Elements are owned by whatever front end built them. Consumers hold
// transient references only and never mutate the graph.
package element

import "strings"

type Kind string

const (
	KindNamespace     Kind = "namespace"
	KindClass         Kind = "class"
	KindInterface     Kind = "interface"
	KindEnum          Kind = "enum"
	KindAnnotation    Kind = "annotation"
	KindField         Kind = "field"
	KindMethod        Kind = "method"
	KindConstructor   Kind = "constructor"
	KindTypeParameter Kind = "type-parameter"
)

// IsType reports whether k is one of the declared type kinds.
func (k Kind) IsType() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindAnnotation:
		return true
	}
	return false
}

// IsInterface follows javac: annotation types are interfaces too.
func (k Kind) IsInterface() bool {
	return k == KindInterface || k == KindAnnotation
}

func (k Kind) IsExecutable() bool {
	return k == KindMethod || k == KindConstructor
}

type Modifier string

const (
	ModPublic       Modifier = "public"
	ModProtected    Modifier = "protected"
	ModPrivate      Modifier = "private"
	ModAbstract     Modifier = "abstract"
	ModDefault      Modifier = "default"
	ModStatic       Modifier = "static"
	ModSealed       Modifier = "sealed"
	ModNonSealed    Modifier = "non-sealed"
	ModFinal        Modifier = "final"
	ModTransient    Modifier = "transient"
	ModVolatile     Modifier = "volatile"
	ModSynchronized Modifier = "synchronized"
	ModNative       Modifier = "native"
	ModStrictfp     Modifier = "strictfp"
)

type Parameter struct {
	Name string
	Type TypeRef
}

type Element struct {
	Kind          Kind
	Modifiers     []Modifier
	Name          string
	QualifiedName string

	// Type is the declared type of a field or type parameter.
	Type TypeRef

	Parameters []Parameter
	ReturnType TypeRef

	Superclass     TypeRef
	Interfaces     []TypeRef
	TypeParameters []*Element

	Enclosing *Element
	Enclosed  []*Element
}

// HasModifier reports whether m is among the element's modifiers.
func (e *Element) HasModifier(m Modifier) bool {
	for _, mod := range e.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// Add appends child to the enclosed elements and sets its enclosing element.
func (e *Element) Add(children ...*Element) *Element {
	for _, child := range children {
		child.Enclosing = e
		e.Enclosed = append(e.Enclosed, child)
	}
	return e
}

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.QualifiedName != "" {
		return e.QualifiedName
	}
	return e.Name
}

// NewNamespace returns a namespace element named by its dotted name.
func NewNamespace(name string) *Element {
	simple := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		simple = name[i+1:]
	}
	return &Element{Kind: KindNamespace, Name: simple, QualifiedName: name}
}

// NewType returns a type element of the given kind. The simple name is
// derived from the qualified name.
func NewType(kind Kind, qualifiedName string, modifiers ...Modifier) *Element {
	simple := qualifiedName
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		simple = qualifiedName[i+1:]
	}
	return &Element{
		Kind:          kind,
		Modifiers:     modifiers,
		Name:          simple,
		QualifiedName: qualifiedName,
	}
}

func NewField(name string, typ TypeRef, modifiers ...Modifier) *Element {
	return &Element{Kind: KindField, Name: name, Type: typ, Modifiers: modifiers}
}

func NewMethod(name string, ret TypeRef, params []Parameter, modifiers ...Modifier) *Element {
	return &Element{
		Kind:       KindMethod,
		Name:       name,
		ReturnType: ret,
		Parameters: params,
		Modifiers:  modifiers,
	}
}
