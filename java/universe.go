package java

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dhamidi/jdiagram/element"
)

// Universe is a set of class models keyed by binary name. Build links the
// set into an element graph.
type Universe struct {
	Logger *log.Logger
	// UniversalRoot is the qualified name of the implicit superclass that
	// never produces an inheritance edge.
	UniversalRoot string

	classes   map[string]*ClassModel
	libraries map[string]*ClassModel
}

func NewUniverse() *Universe {
	return &Universe{
		Logger:        log.Default(),
		UniversalRoot: element.DefaultUniversalRoot,
		classes:       make(map[string]*ClassModel),
		libraries:     make(map[string]*ClassModel),
	}
}

// Add inserts models, replacing earlier models with the same name.
func (u *Universe) Add(models ...*ClassModel) {
	for _, m := range models {
		u.classes[m.Name] = m
	}
}

// AddLibrary inserts models that only resolve supertypes. A library class
// never becomes a root, and a class added with Add takes precedence.
func (u *Universe) AddLibrary(models ...*ClassModel) {
	for _, m := range models {
		u.libraries[m.Name] = m
	}
}

func (u *Universe) Remove(name string) bool {
	_, ok := u.classes[name]
	delete(u.classes, name)
	return ok
}

func (u *Universe) Class(name string) *ClassModel {
	return u.classes[name]
}

func (u *Universe) Len() int {
	return len(u.classes)
}

// Names returns the binary names of all classes in sorted order.
func (u *Universe) Names() []string {
	names := make([]string, 0, len(u.classes))
	for name := range u.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build links the models into a fresh graph. Top-level types become roots,
// member classes are enclosed by their declaring type and compiled
// package-info classes surface as namespace roots. Supertypes found in a
// library are linked with their members and own supertypes; other missing
// supertypes are represented by member-less stub elements.
// Local and anonymous classes are left out.
func (u *Universe) Build() *element.Graph {
	b := &graphBuilder{
		u:        u,
		graph:    element.NewGraph(),
		elements: make(map[string]*element.Element),
		stubs:    make(map[string]*element.Element),
		names:    make(map[string]string),
	}
	b.graph.SetUniversalRoot(u.UniversalRoot)
	names := u.Names()

	for _, name := range names {
		m := u.classes[name]
		kind, ok := elementKind(m.Kind)
		if !ok {
			continue
		}
		if m.IsLocal {
			u.Logger.Debug("skipping local class", "class", name)
			continue
		}
		b.elements[name] = &element.Element{Kind: kind, Modifiers: classModifiers(m)}
	}
	for name, e := range b.elements {
		e.QualifiedName = b.qualifiedName(name)
		e.Name = u.classes[name].SimpleName
	}

	for _, name := range names {
		m := u.classes[name]
		switch m.Kind {
		case ClassKindPackage:
			b.graph.AddRoot(m.Package, b.graph.Namespace(m.Package))
			continue
		case ClassKindModule:
			u.Logger.Debug("skipping module descriptor", "class", name)
			continue
		}
		e, ok := b.elements[name]
		if !ok {
			continue
		}
		b.populate(m, e)
		if !b.isMember(m) {
			b.graph.AddRoot(m.Package, e)
		}
	}
	return b.graph
}

type graphBuilder struct {
	u        *Universe
	graph    *element.Graph
	elements map[string]*element.Element
	stubs    map[string]*element.Element
	names    map[string]string
}

// isMember reports whether m is enclosed by a type present in the universe.
func (b *graphBuilder) isMember(m *ClassModel) bool {
	if m.EnclosingClass == "" {
		return false
	}
	_, ok := b.elements[m.EnclosingClass]
	return ok
}

// qualifiedName returns the canonical name of a known class: member classes
// are named through their declaring class, so Outer$Inner becomes
// Outer.Inner.
func (b *graphBuilder) qualifiedName(name string) string {
	if q, ok := b.names[name]; ok {
		return q
	}
	m := b.u.classes[name]
	q := strings.ReplaceAll(name, "$", ".")
	if m != nil && b.isMember(m) {
		q = b.qualifiedName(m.EnclosingClass) + "." + m.SimpleName
	}
	b.names[name] = q
	return q
}

func (b *graphBuilder) populate(m *ClassModel, e *element.Element) {
	e.TypeParameters = b.typeParameters(m.TypeParameters)

	switch {
	case e.Kind.IsInterface():
		// Interfaces have no superclass even though the class file names
		// java.lang.Object.
	case m.SuperClass != nil:
		e.Superclass = b.typeRef(*m.SuperClass, element.KindClass)
	}
	for _, iface := range m.Interfaces {
		e.Interfaces = append(e.Interfaces, b.typeRef(iface, element.KindInterface))
	}

	for _, f := range m.Fields {
		e.Add(element.NewField(f.Name, b.typeRef(f.Type, ""), fieldModifiers(f)...))
	}
	for _, mm := range m.Methods {
		method := element.NewMethod(mm.Name, b.typeRef(mm.ReturnType, ""), nil, methodModifiers(mm)...)
		if mm.IsConstructor() {
			method.Kind = element.KindConstructor
			method.ReturnType = element.Void
		}
		for _, p := range mm.Parameters {
			method.Parameters = append(method.Parameters, element.Parameter{
				Name: p.Name,
				Type: b.typeRef(p.Type, ""),
			})
		}
		method.TypeParameters = b.typeParameters(mm.TypeParameters)
		e.Add(method)
	}

	for _, ic := range m.InnerClasses {
		if ic.OuterClass != m.Name || ic.InnerName == "" {
			continue
		}
		inner := b.u.classes[ic.InnerClass]
		child, ok := b.elements[ic.InnerClass]
		if !ok || inner.EnclosingClass != m.Name || child.Enclosing != nil {
			continue
		}
		e.Add(child)
	}
}

func (b *graphBuilder) typeParameters(params []TypeParameterModel) []*element.Element {
	var result []*element.Element
	for _, p := range params {
		tp := &element.Element{Kind: element.KindTypeParameter, Name: p.Name}
		if len(p.Bounds) > 0 {
			tp.Type = b.typeRef(p.Bounds[0], "")
		}
		result = append(result, tp)
	}
	return result
}

// typeRef converts a type use. When stubKind is set, a class missing from
// the universe is represented by a stub element of that kind.
func (b *graphBuilder) typeRef(t TypeModel, stubKind element.Kind) element.TypeRef {
	if t.Name == "" {
		return element.TypeRef{}
	}
	if t.IsArray() {
		component := t
		component.ArrayDepth--
		return element.ArrayOf(b.typeRef(component, stubKind))
	}
	switch {
	case t.IsVoid():
		return element.Void
	case t.IsTypeVariable:
		return element.Variable(t.Name)
	case t.IsPrimitive():
		return element.Primitive(t.Name)
	}
	args := make([]element.TypeRef, 0, len(t.TypeArguments))
	for _, a := range t.TypeArguments {
		args = append(args, b.typeArgument(a))
	}
	if decl := b.resolve(t.Name, stubKind); decl != nil {
		return element.Declared(decl, args...)
	}
	return element.Named(b.displayName(t.Name), args...)
}

func (b *graphBuilder) typeArgument(a TypeArgumentModel) element.TypeRef {
	if !a.IsWildcard {
		if a.Type == nil {
			return element.Wildcard("", nil)
		}
		return b.typeRef(*a.Type, "")
	}
	if a.Bound == nil {
		return element.Wildcard("", nil)
	}
	bound := b.typeRef(*a.Bound, "")
	return element.Wildcard(a.BoundKind, &bound)
}

func (b *graphBuilder) resolve(name string, stubKind element.Kind) *element.Element {
	if e, ok := b.elements[name]; ok {
		return e
	}
	if stubKind == "" || name == b.u.UniversalRoot {
		return nil
	}
	if stub, ok := b.stubs[name]; ok {
		return stub
	}
	if lib, ok := b.u.libraries[name]; ok {
		if kind, ok := elementKind(lib.Kind); ok {
			return b.libraryElement(lib, kind)
		}
	}
	stub := element.NewType(stubKind, b.displayName(name))
	b.stubs[name] = stub
	b.u.Logger.Debug("stub for unknown type", "type", stub.QualifiedName, "kind", stubKind)
	return stub
}

// libraryElement links a library class outside the graph's roots. It is
// recorded before its supertypes are resolved so a cycle ends at it.
func (b *graphBuilder) libraryElement(m *ClassModel, kind element.Kind) *element.Element {
	e := element.NewType(kind, b.displayName(m.Name), classModifiers(m)...)
	b.stubs[m.Name] = e
	b.populate(m, e)
	b.u.Logger.Debug("resolved library type", "type", e.QualifiedName, "kind", kind)
	return e
}

func (b *graphBuilder) displayName(name string) string {
	if _, ok := b.elements[name]; ok {
		return b.qualifiedName(name)
	}
	return strings.ReplaceAll(name, "$", ".")
}

func elementKind(k ClassKind) (element.Kind, bool) {
	switch k {
	case ClassKindClass:
		return element.KindClass, true
	case ClassKindInterface:
		return element.KindInterface, true
	case ClassKindEnum:
		return element.KindEnum, true
	case ClassKindAnnotation:
		return element.KindAnnotation, true
	}
	return "", false
}

func visibilityModifier(v Visibility) (element.Modifier, bool) {
	switch v {
	case VisibilityPublic:
		return element.ModPublic, true
	case VisibilityProtected:
		return element.ModProtected, true
	case VisibilityPrivate:
		return element.ModPrivate, true
	}
	return "", false
}

// The helpers below list modifiers in the canonical Java order.

func classModifiers(m *ClassModel) []element.Modifier {
	var mods []element.Modifier
	if v, ok := visibilityModifier(m.Visibility); ok {
		mods = append(mods, v)
	}
	if m.IsAbstract && m.Kind != ClassKindEnum {
		mods = append(mods, element.ModAbstract)
	}
	if m.IsStatic {
		mods = append(mods, element.ModStatic)
	}
	if m.IsSealed {
		mods = append(mods, element.ModSealed)
	}
	if m.IsFinal && m.Kind != ClassKindEnum {
		mods = append(mods, element.ModFinal)
	}
	return mods
}

func fieldModifiers(f FieldModel) []element.Modifier {
	var mods []element.Modifier
	if v, ok := visibilityModifier(f.Visibility); ok {
		mods = append(mods, v)
	}
	if f.IsStatic {
		mods = append(mods, element.ModStatic)
	}
	if f.IsFinal {
		mods = append(mods, element.ModFinal)
	}
	if f.IsTransient {
		mods = append(mods, element.ModTransient)
	}
	if f.IsVolatile {
		mods = append(mods, element.ModVolatile)
	}
	return mods
}

func methodModifiers(m MethodModel) []element.Modifier {
	var mods []element.Modifier
	if v, ok := visibilityModifier(m.Visibility); ok {
		mods = append(mods, v)
	}
	if m.IsAbstract {
		mods = append(mods, element.ModAbstract)
	}
	if m.IsDefault {
		mods = append(mods, element.ModDefault)
	}
	if m.IsStatic {
		mods = append(mods, element.ModStatic)
	}
	if m.IsFinal {
		mods = append(mods, element.ModFinal)
	}
	if m.IsSynchronized {
		mods = append(mods, element.ModSynchronized)
	}
	if m.IsNative {
		mods = append(mods, element.ModNative)
	}
	if m.IsStrict {
		mods = append(mods, element.ModStrictfp)
	}
	return mods
}
