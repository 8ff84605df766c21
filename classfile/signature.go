package classfile

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// TypeSignature is a decoded field descriptor or generic type signature.
//
// Exactly one of BaseType, ClassName and TypeVariable is set for the
// element type. ArrayDepth counts the leading dimensions. For nested
// parameterized types such as Outer<T>.Inner<U> the segments are joined
// into the binary name Outer$Inner and only the innermost arguments are
// retained.
type TypeSignature struct {
	BaseType      string
	ClassName     string
	TypeVariable  string
	TypeArguments []TypeArgument
	ArrayDepth    int
}

type WildcardKind byte

const (
	WildcardNone    WildcardKind = 0
	WildcardAny     WildcardKind = '*'
	WildcardExtends WildcardKind = '+'
	WildcardSuper   WildcardKind = '-'
)

// TypeArgument is one argument of a parameterized type. Type is nil for the
// unbounded wildcard.
type TypeArgument struct {
	Wildcard WildcardKind
	Type     *TypeSignature
}

type TypeParameter struct {
	Name   string
	Bounds []TypeSignature
}

type ClassSignature struct {
	TypeParameters []TypeParameter
	Superclass     TypeSignature
	Interfaces     []TypeSignature
}

type MethodSignature struct {
	TypeParameters []TypeParameter
	Parameters     []TypeSignature
	Return         TypeSignature
	Throws         []TypeSignature
}

func (t TypeSignature) IsVoid() bool {
	return t.BaseType == "void" && t.ArrayDepth == 0
}

// String renders the signature in Java source syntax with binary class
// names converted to dotted form.
func (t TypeSignature) String() string {
	var sb strings.Builder
	switch {
	case t.BaseType != "":
		sb.WriteString(t.BaseType)
	case t.TypeVariable != "":
		sb.WriteString(t.TypeVariable)
	default:
		sb.WriteString(InternalToSourceName(t.ClassName))
	}
	if len(t.TypeArguments) > 0 {
		sb.WriteString("<")
		for i, arg := range t.TypeArguments {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteString(">")
	}
	for i := 0; i < t.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (a TypeArgument) String() string {
	switch a.Wildcard {
	case WildcardAny:
		return "?"
	case WildcardExtends:
		return "? extends " + a.Type.String()
	case WildcardSuper:
		return "? super " + a.Type.String()
	}
	return a.Type.String()
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
	'V': "void",
}

// ErrMalformedSignature wraps every signature and descriptor parse failure.
var ErrMalformedSignature = errors.New("malformed signature")

type sigParser struct {
	s   string
	pos int
}

func (p *sigParser) fail(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedSignature, "%q at %d: "+format, append([]interface{}{p.s, p.pos}, args...)...)
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) eof() bool { return p.pos >= len(p.s) }

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return p.fail("expected %q", c)
	}
	p.pos++
	return nil
}

// identifier reads up to one of the signature delimiters.
func (p *sigParser) identifier() (string, error) {
	start := p.pos
	for !p.eof() {
		switch p.s[p.pos] {
		case '.', ';', '[', '/', '<', '>', ':':
			if p.pos == start {
				return "", p.fail("expected identifier")
			}
			return p.s[start:p.pos], nil
		}
		p.pos++
	}
	return "", p.fail("unterminated identifier")
}

func (p *sigParser) typeParameters() ([]TypeParameter, error) {
	if p.peek() != '<' {
		return nil, nil
	}
	p.pos++
	var params []TypeParameter
	for p.peek() != '>' {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}
		tp := TypeParameter{Name: name}
		// The class bound may be empty when only interface bounds follow.
		for p.peek() == ':' {
			p.pos++
			if p.peek() == ':' {
				continue
			}
			bound, err := p.referenceType()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, bound)
		}
		params = append(params, tp)
		if p.eof() {
			return nil, p.fail("unterminated type parameters")
		}
	}
	p.pos++
	return params, nil
}

func (p *sigParser) javaType() (TypeSignature, error) {
	if name, ok := baseTypes[p.peek()]; ok {
		p.pos++
		return TypeSignature{BaseType: name}, nil
	}
	return p.referenceType()
}

func (p *sigParser) referenceType() (TypeSignature, error) {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		p.pos++
		name, err := p.identifier()
		if err != nil {
			return TypeSignature{}, err
		}
		if err := p.expect(';'); err != nil {
			return TypeSignature{}, err
		}
		return TypeSignature{TypeVariable: name}, nil
	case '[':
		p.pos++
		component, err := p.javaType()
		if err != nil {
			return TypeSignature{}, err
		}
		if component.IsVoid() {
			return TypeSignature{}, p.fail("array of void")
		}
		component.ArrayDepth++
		return component, nil
	}
	return TypeSignature{}, p.fail("expected reference type")
}

func (p *sigParser) classType() (TypeSignature, error) {
	if err := p.expect('L'); err != nil {
		return TypeSignature{}, err
	}
	var name strings.Builder
	var args []TypeArgument
	for {
		part, err := p.identifier()
		if err != nil {
			return TypeSignature{}, err
		}
		name.WriteString(part)
		switch p.peek() {
		case '/':
			p.pos++
			name.WriteByte('/')
			continue
		case '<':
			if args, err = p.typeArguments(); err != nil {
				return TypeSignature{}, err
			}
		}
		switch p.peek() {
		case '.':
			p.pos++
			name.WriteByte('$')
			args = nil
		case ';':
			p.pos++
			return TypeSignature{ClassName: name.String(), TypeArguments: args}, nil
		default:
			return TypeSignature{}, p.fail("expected ';'")
		}
	}
}

func (p *sigParser) typeArguments() ([]TypeArgument, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}
	var args []TypeArgument
	for p.peek() != '>' {
		if p.eof() {
			return nil, p.fail("unterminated type arguments")
		}
		arg := TypeArgument{}
		switch p.peek() {
		case '*':
			p.pos++
			args = append(args, TypeArgument{Wildcard: WildcardAny})
			continue
		case '+', '-':
			arg.Wildcard = WildcardKind(p.peek())
			p.pos++
		}
		t, err := p.referenceType()
		if err != nil {
			return nil, err
		}
		arg.Type = &t
		args = append(args, arg)
	}
	p.pos++
	return args, nil
}

func (p *sigParser) done() error {
	if !p.eof() {
		return p.fail("trailing characters")
	}
	return nil
}

// ParseFieldSignature parses a field descriptor or a field's generic
// signature; descriptors are a subset of the signature grammar.
func ParseFieldSignature(s string) (TypeSignature, error) {
	p := &sigParser{s: s}
	t, err := p.javaType()
	if err != nil {
		return TypeSignature{}, err
	}
	if t.IsVoid() {
		return TypeSignature{}, p.fail("field of type void")
	}
	return t, p.done()
}

// ParseMethodSignature parses a method descriptor or generic method signature.
func ParseMethodSignature(s string) (MethodSignature, error) {
	p := &sigParser{s: s}
	var m MethodSignature
	var err error
	if m.TypeParameters, err = p.typeParameters(); err != nil {
		return m, err
	}
	if err := p.expect('('); err != nil {
		return m, err
	}
	for p.peek() != ')' {
		if p.eof() {
			return m, p.fail("unterminated parameter list")
		}
		t, err := p.javaType()
		if err != nil {
			return m, err
		}
		if t.IsVoid() {
			return m, p.fail("parameter of type void")
		}
		m.Parameters = append(m.Parameters, t)
	}
	p.pos++
	if m.Return, err = p.javaType(); err != nil {
		return m, err
	}
	for p.peek() == '^' {
		p.pos++
		t, err := p.referenceType()
		if err != nil {
			return m, err
		}
		m.Throws = append(m.Throws, t)
	}
	return m, p.done()
}

// ParseClassSignature parses the Signature attribute of a class.
func ParseClassSignature(s string) (ClassSignature, error) {
	p := &sigParser{s: s}
	var c ClassSignature
	var err error
	if c.TypeParameters, err = p.typeParameters(); err != nil {
		return c, err
	}
	if c.Superclass, err = p.classType(); err != nil {
		return c, err
	}
	for !p.eof() {
		t, err := p.classType()
		if err != nil {
			return c, err
		}
		c.Interfaces = append(c.Interfaces, t)
	}
	return c, nil
}
