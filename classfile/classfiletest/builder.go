// Package classfiletest assembles minimal class files in memory for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
)

const (
	Public     = 0x0001
	Private    = 0x0002
	Protected  = 0x0004
	Static     = 0x0008
	Final      = 0x0010
	Super      = 0x0020
	Volatile   = 0x0040
	Bridge     = 0x0040
	Transient  = 0x0080
	Native     = 0x0100
	Interface  = 0x0200
	Abstract   = 0x0400
	Synthetic  = 0x1000
	Annotation = 0x2000
	Enum       = 0x4000
)

// Builder accumulates one class. Constants are interned as they are used.
type Builder struct {
	pool     bytes.Buffer
	poolSize uint16
	utf8     map[string]uint16
	classes  map[string]uint16

	access     uint16
	this       uint16
	super      uint16
	interfaces []uint16
	fields     [][]byte
	methods    [][]byte
	attrs      [][]byte
	inner      [][]byte
}

type member struct {
	b     *Builder
	attrs [][]byte
}

// MemberOption adds an attribute to a field or method.
type MemberOption func(*member)

// New starts a public class with the given internal name extending
// java/lang/Object.
func New(name string) *Builder {
	b := &Builder{
		poolSize: 1,
		utf8:     make(map[string]uint16),
		classes:  make(map[string]uint16),
		access:   Public | Super,
	}
	b.this = b.Class(name)
	b.super = b.Class("java/lang/Object")
	return b
}

func (b *Builder) Utf8(s string) uint16 {
	if idx, ok := b.utf8[s]; ok {
		return idx
	}
	b.pool.WriteByte(1)
	writeU2(&b.pool, uint16(len(s)))
	b.pool.WriteString(s)
	idx := b.poolSize
	b.poolSize++
	b.utf8[s] = idx
	return idx
}

func (b *Builder) Class(name string) uint16 {
	if idx, ok := b.classes[name]; ok {
		return idx
	}
	nameIdx := b.Utf8(name)
	b.pool.WriteByte(7)
	writeU2(&b.pool, nameIdx)
	idx := b.poolSize
	b.poolSize++
	b.classes[name] = idx
	return idx
}

// Long adds a long constant, which occupies two pool slots.
func (b *Builder) Long(v int64) uint16 {
	b.pool.WriteByte(5)
	_ = binary.Write(&b.pool, binary.BigEndian, v)
	idx := b.poolSize
	b.poolSize += 2
	return idx
}

func (b *Builder) Access(flags uint16) *Builder {
	b.access = flags
	return b
}

// Super sets the superclass; an empty name clears it.
func (b *Builder) Super(name string) *Builder {
	if name == "" {
		b.super = 0
		return b
	}
	b.super = b.Class(name)
	return b
}

func (b *Builder) Implements(names ...string) *Builder {
	for _, n := range names {
		b.interfaces = append(b.interfaces, b.Class(n))
	}
	return b
}

func (b *Builder) Signature(sig string) *Builder {
	b.attrs = append(b.attrs, b.attribute("Signature", u2(b.Utf8(sig))))
	return b
}

// InnerClass adds an InnerClasses entry. Empty outer or name write index 0.
func (b *Builder) InnerClass(inner, outer, name string, flags uint16) *Builder {
	var entry bytes.Buffer
	writeU2(&entry, b.Class(inner))
	if outer != "" {
		writeU2(&entry, b.Class(outer))
	} else {
		writeU2(&entry, 0)
	}
	if name != "" {
		writeU2(&entry, b.Utf8(name))
	} else {
		writeU2(&entry, 0)
	}
	writeU2(&entry, flags)
	b.inner = append(b.inner, entry.Bytes())
	return b
}

func (b *Builder) Field(flags uint16, name, descriptor string, opts ...MemberOption) *Builder {
	b.fields = append(b.fields, b.member(flags, name, descriptor, opts))
	return b
}

func (b *Builder) Method(flags uint16, name, descriptor string, opts ...MemberOption) *Builder {
	b.methods = append(b.methods, b.member(flags, name, descriptor, opts))
	return b
}

func WithSignature(sig string) MemberOption {
	return func(m *member) {
		m.attrs = append(m.attrs, m.b.attribute("Signature", u2(m.b.Utf8(sig))))
	}
}

// WithParameters records a MethodParameters attribute.
func WithParameters(names ...string) MemberOption {
	return func(m *member) {
		var buf bytes.Buffer
		buf.WriteByte(byte(len(names)))
		for _, n := range names {
			writeU2(&buf, m.b.Utf8(n))
			writeU2(&buf, 0)
		}
		m.attrs = append(m.attrs, m.b.attribute("MethodParameters", buf.Bytes()))
	}
}

// WithLocals records a Code attribute whose LocalVariableTable lists the
// given names in slot order, all starting at pc 0.
func WithLocals(names ...string) MemberOption {
	return func(m *member) {
		var lvt bytes.Buffer
		writeU2(&lvt, uint16(len(names)))
		for i, n := range names {
			writeU2(&lvt, 0)
			writeU2(&lvt, 1)
			writeU2(&lvt, m.b.Utf8(n))
			writeU2(&lvt, m.b.Utf8("Ljava/lang/Object;"))
			writeU2(&lvt, uint16(i))
		}
		var code bytes.Buffer
		writeU2(&code, 1)
		writeU2(&code, uint16(len(names)))
		writeU4(&code, 1)
		code.WriteByte(0xb1) // return
		writeU2(&code, 0)
		writeU2(&code, 1)
		code.Write(m.b.attribute("LocalVariableTable", lvt.Bytes()))
		m.attrs = append(m.attrs, m.b.attribute("Code", code.Bytes()))
	}
}

func (b *Builder) member(flags uint16, name, descriptor string, opts []MemberOption) []byte {
	m := &member{b: b}
	for _, opt := range opts {
		opt(m)
	}
	var buf bytes.Buffer
	writeU2(&buf, flags)
	writeU2(&buf, b.Utf8(name))
	writeU2(&buf, b.Utf8(descriptor))
	writeU2(&buf, uint16(len(m.attrs)))
	for _, a := range m.attrs {
		buf.Write(a)
	}
	return buf.Bytes()
}

func (b *Builder) attribute(name string, info []byte) []byte {
	var buf bytes.Buffer
	writeU2(&buf, b.Utf8(name))
	writeU4(&buf, uint32(len(info)))
	buf.Write(info)
	return buf.Bytes()
}

// Bytes serializes the class file.
func (b *Builder) Bytes() []byte {
	attrs := b.attrs
	if len(b.inner) > 0 {
		var ic bytes.Buffer
		writeU2(&ic, uint16(len(b.inner)))
		for _, e := range b.inner {
			ic.Write(e)
		}
		attrs = append(attrs, b.attribute("InnerClasses", ic.Bytes()))
	}

	var out bytes.Buffer
	writeU4(&out, 0xCAFEBABE)
	writeU2(&out, 0)
	writeU2(&out, 61)
	writeU2(&out, b.poolSize)
	out.Write(b.pool.Bytes())
	writeU2(&out, b.access)
	writeU2(&out, b.this)
	writeU2(&out, b.super)
	writeU2(&out, uint16(len(b.interfaces)))
	for _, i := range b.interfaces {
		writeU2(&out, i)
	}
	for _, group := range [][][]byte{b.fields, b.methods} {
		writeU2(&out, uint16(len(group)))
		for _, m := range group {
			out.Write(m)
		}
	}
	writeU2(&out, uint16(len(attrs)))
	for _, a := range attrs {
		out.Write(a)
	}
	return out.Bytes()
}

// WriteFile writes the class file under dir at <internal name>.class and
// returns the path.
func (b *Builder) WriteFile(dir, internalName string) (string, error) {
	path := filepath.Join(dir, filepath.FromSlash(internalName)+".class")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b.Bytes(), 0o644)
}

func u2(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func writeU2(buf *bytes.Buffer, v uint16) {
	buf.Write(u2(v))
}

func writeU4(buf *bytes.Buffer, v uint32) {
	buf.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
