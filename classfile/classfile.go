// Package classfile decodes the parts of JVM class files that describe a
// type's declaration: names, access flags, supertypes, fields, methods and
// the attributes carrying generic signatures, nesting and parameter names.
// Method bodies are kept as raw attribute bytes and never interpreted.
package classfile

import "strings"

const Magic = 0xCAFEBABE

type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag != 0 }

func (f AccessFlags) IsPublic() bool     { return f.Has(AccPublic) }
func (f AccessFlags) IsPrivate() bool    { return f.Has(AccPrivate) }
func (f AccessFlags) IsProtected() bool  { return f.Has(AccProtected) }
func (f AccessFlags) IsStatic() bool     { return f.Has(AccStatic) }
func (f AccessFlags) IsFinal() bool      { return f.Has(AccFinal) }
func (f AccessFlags) IsAbstract() bool   { return f.Has(AccAbstract) }
func (f AccessFlags) IsInterface() bool  { return f.Has(AccInterface) }
func (f AccessFlags) IsSynthetic() bool  { return f.Has(AccSynthetic) }
func (f AccessFlags) IsAnnotation() bool { return f.Has(AccAnnotation) }
func (f AccessFlags) IsEnum() bool       { return f.Has(AccEnum) }
func (f AccessFlags) IsModule() bool     { return f.Has(AccModule) }

type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []MemberInfo
	Methods      []MemberInfo
	Attributes   Attributes
}

// MemberInfo is a field_info or method_info structure; both share a layout.
type MemberInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      Attributes
}

func (m *MemberInfo) Name(cp ConstantPool) string {
	return cp.Utf8(m.NameIndex)
}

func (m *MemberInfo) Descriptor(cp ConstantPool) string {
	return cp.Utf8(m.DescriptorIndex)
}

// Signature returns the generic signature of the member, or "".
func (m *MemberInfo) Signature(cp ConstantPool) string {
	return m.Attributes.Signature(cp)
}

func (m *MemberInfo) IsConstructor(cp ConstantPool) bool {
	return m.Name(cp) == "<init>"
}

func (m *MemberInfo) IsStaticInitializer(cp ConstantPool) bool {
	return m.Name(cp) == "<clinit>"
}

// IsBridge is only meaningful for methods; the bit means volatile on fields.
func (m *MemberInfo) IsBridge() bool {
	return m.AccessFlags.Has(AccBridge)
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.ClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.ClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.ClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.AccessFlags.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.AccessFlags.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.AccessFlags.IsModule() }

// IsPackageInfo reports whether the class file was compiled from a
// package-info.java file.
func (cf *ClassFile) IsPackageInfo() bool {
	name := cf.ClassName()
	return name == "package-info" || strings.HasSuffix(name, "/package-info")
}

// Signature returns the generic class signature, or "".
func (cf *ClassFile) Signature() string {
	return cf.Attributes.Signature(cf.ConstantPool)
}

// InnerClasses returns the entries of the InnerClasses attribute.
func (cf *ClassFile) InnerClasses() []InnerClass {
	attr := cf.Attributes.Find(cf.ConstantPool, AttrInnerClasses)
	if attr == nil {
		return nil
	}
	return attr.InnerClasses(cf.ConstantPool)
}

func (cf *ClassFile) Field(name string) *MemberInfo {
	for i := range cf.Fields {
		if cf.Fields[i].Name(cf.ConstantPool) == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

// Method finds a method by name and, when descriptor is non-empty, by
// descriptor.
func (cf *ClassFile) Method(name, descriptor string) *MemberInfo {
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Name(cf.ConstantPool) != name {
			continue
		}
		if descriptor == "" || m.Descriptor(cf.ConstantPool) == descriptor {
			return m
		}
	}
	return nil
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
