package classfile

const (
	AttrCode                = "Code"
	AttrSignature           = "Signature"
	AttrInnerClasses        = "InnerClasses"
	AttrMethodParameters    = "MethodParameters"
	AttrLocalVariableTable  = "LocalVariableTable"
	AttrPermittedSubclasses = "PermittedSubclasses"
)

// Attribute is an undecoded attribute_info structure. The attributes the
// diagram front end needs are decoded on demand by the accessor methods.
type Attribute struct {
	NameIndex uint16
	Info      []byte
}

type Attributes []Attribute

func (a *Attribute) Name(cp ConstantPool) string {
	return cp.Utf8(a.NameIndex)
}

func (as Attributes) Find(cp ConstantPool, name string) *Attribute {
	for i := range as {
		if as[i].Name(cp) == name {
			return &as[i]
		}
	}
	return nil
}

// Signature returns the text of the Signature attribute, or "".
func (as Attributes) Signature(cp ConstantPool) string {
	attr := as.Find(cp, AttrSignature)
	if attr == nil {
		return ""
	}
	r := newBytesReader(attr.Info)
	idx := r.readU2()
	if r.err != nil {
		return ""
	}
	return cp.Utf8(idx)
}

// InnerClass is one resolved InnerClasses entry. OuterName is empty for
// local and anonymous classes, InnerName is empty for anonymous classes.
type InnerClass struct {
	Name        string
	OuterName   string
	InnerName   string
	AccessFlags AccessFlags
}

// IsMember reports whether the entry describes a member class, that is one
// declared directly in the body of another class.
func (ic InnerClass) IsMember() bool {
	return ic.OuterName != "" && ic.InnerName != ""
}

func (a *Attribute) InnerClasses(cp ConstantPool) []InnerClass {
	r := newBytesReader(a.Info)
	count := r.readU2()
	result := make([]InnerClass, 0, count)
	for i := uint16(0); i < count; i++ {
		inner, outer, name := r.readU2(), r.readU2(), r.readU2()
		flags := AccessFlags(r.readU2())
		if r.err != nil {
			break
		}
		result = append(result, InnerClass{
			Name:        cp.ClassName(inner),
			OuterName:   cp.ClassName(outer),
			InnerName:   cp.Utf8(name),
			AccessFlags: flags,
		})
	}
	return result
}

// ParameterNames returns the names recorded in the MethodParameters
// attribute. Unnamed entries yield "".
func (as Attributes) ParameterNames(cp ConstantPool) []string {
	attr := as.Find(cp, AttrMethodParameters)
	if attr == nil {
		return nil
	}
	r := newBytesReader(attr.Info)
	count := r.readU1()
	names := make([]string, 0, count)
	for i := uint8(0); i < count; i++ {
		idx := r.readU2()
		r.skip(2)
		if r.err != nil {
			return nil
		}
		names = append(names, cp.Utf8(idx))
	}
	return names
}

type LocalVariable struct {
	StartPC uint16
	Name    string
	Slot    uint16
}

// LocalVariables decodes the LocalVariableTable nested in the Code attribute.
// Method arguments are the entries with StartPC 0.
func (as Attributes) LocalVariables(cp ConstantPool) []LocalVariable {
	code := as.Find(cp, AttrCode)
	if code == nil {
		return nil
	}
	r := newBytesReader(code.Info)
	r.skip(4) // max_stack, max_locals
	r.skip(int(r.readU4()))
	r.skip(int(r.readU2()) * 8)
	nested, err := readAttributes(r, cp)
	if err != nil {
		return nil
	}
	lvt := nested.Find(cp, AttrLocalVariableTable)
	if lvt == nil {
		return nil
	}
	r = newBytesReader(lvt.Info)
	count := r.readU2()
	vars := make([]LocalVariable, 0, count)
	for i := uint16(0); i < count; i++ {
		start := r.readU2()
		r.skip(2)
		name := r.readU2()
		r.skip(2)
		slot := r.readU2()
		if r.err != nil {
			return nil
		}
		vars = append(vars, LocalVariable{StartPC: start, Name: cp.Utf8(name), Slot: slot})
	}
	return vars
}
