package classfile

type ConstantTag uint8

const (
	ConstantUtf8               ConstantTag = 1
	ConstantInteger            ConstantTag = 3
	ConstantFloat              ConstantTag = 4
	ConstantLong               ConstantTag = 5
	ConstantDouble             ConstantTag = 6
	ConstantClass              ConstantTag = 7
	ConstantString             ConstantTag = 8
	ConstantFieldref           ConstantTag = 9
	ConstantMethodref          ConstantTag = 10
	ConstantInterfaceMethodref ConstantTag = 11
	ConstantNameAndType        ConstantTag = 12
	ConstantMethodHandle       ConstantTag = 15
	ConstantMethodType         ConstantTag = 16
	ConstantDynamic            ConstantTag = 17
	ConstantInvokeDynamic      ConstantTag = 18
	ConstantModule             ConstantTag = 19
	ConstantPackage            ConstantTag = 20
)

// Constant is one constant pool slot. Only the parts needed to resolve
// names are retained: Text for Utf8 entries and Ref for entries that point
// at a Utf8 name (Class, String, MethodType, Module, Package). Numeric and
// member-reference entries keep only their tag.
type Constant struct {
	Tag  ConstantTag
	Text string
	Ref  uint16
}

// ConstantPool is indexed the way the class file indexes it: slot 0 is
// unused and the slot after a Long or Double is left empty.
type ConstantPool []Constant

func (cp ConstantPool) entry(index uint16) (Constant, bool) {
	if index == 0 || int(index) >= len(cp) {
		return Constant{}, false
	}
	return cp[index], true
}

// Utf8 returns the text of a Utf8 entry, or "" when index does not name one.
func (cp ConstantPool) Utf8(index uint16) string {
	c, ok := cp.entry(index)
	if !ok || c.Tag != ConstantUtf8 {
		return ""
	}
	return c.Text
}

// ClassName returns the internal name referenced by a Class entry.
func (cp ConstantPool) ClassName(index uint16) string {
	c, ok := cp.entry(index)
	if !ok || c.Tag != ConstantClass {
		return ""
	}
	return cp.Utf8(c.Ref)
}

// takesTwoSlots reports whether an entry occupies two pool indices.
func (t ConstantTag) takesTwoSlots() bool {
	return t == ConstantLong || t == ConstantDouble
}
