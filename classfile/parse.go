package classfile

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// ErrNotClassFile is returned when the input does not start with the
// class-file magic number.
var ErrNotClassFile = errors.New("not a class file")

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) skip(n int) {
	if r.err != nil {
		return
	}
	if _, err := io.CopyN(io.Discard, r.r, int64(n)); err != nil {
		r.err = err
	}
}

// readBytes reads exactly n bytes. The buffer grows with the data actually
// read, so a corrupt length cannot force a large allocation up front.
func (r *reader) readBytes(n uint32) []byte {
	if r.err != nil {
		return nil
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r.r, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		r.err = err
		return nil
	}
	return buf.Bytes()
}

func newBytesReader(b []byte) *reader {
	return &reader{r: bytes.NewReader(b)}
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open class file")
	}
	defer f.Close()
	cf, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return cf, nil
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, errors.Wrap(r.err, "read magic")
	}
	if magic != Magic {
		return nil, errors.Wrapf(ErrNotClassFile, "magic 0x%X", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}

	count := r.readU2()
	if r.err != nil {
		return nil, errors.Wrap(r.err, "read header")
	}
	if count == 0 {
		return nil, errors.New("constant pool count is zero")
	}

	cf.ConstantPool = make(ConstantPool, count)
	for i := uint16(1); i < count; i++ {
		c, err := readConstant(r)
		if err != nil {
			return nil, errors.Wrapf(err, "read constant pool entry %d", i)
		}
		cf.ConstantPool[i] = c
		if c.Tag.takesTwoSlots() {
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, errors.Wrap(r.err, "read class info")
	}

	var err error
	if cf.Fields, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, errors.Wrap(err, "read fields")
	}
	if cf.Methods, err = readMembers(r, cf.ConstantPool); err != nil {
		return nil, errors.Wrap(err, "read methods")
	}
	if cf.Attributes, err = readAttributes(r, cf.ConstantPool); err != nil {
		return nil, errors.Wrap(err, "read class attributes")
	}

	return cf, nil
}

func readConstant(r *reader) (Constant, error) {
	tag := ConstantTag(r.readU1())
	c := Constant{Tag: tag}

	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		c.Text = decodeModifiedUtf8(r.readBytes(uint32(length)))
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		c.Ref = r.readU2()
	case ConstantInteger, ConstantFloat:
		r.skip(4)
	case ConstantLong, ConstantDouble:
		r.skip(8)
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		r.skip(4)
	case ConstantMethodHandle:
		r.skip(3)
	default:
		if r.err == nil {
			return c, errors.Newf("unknown constant pool tag %d", tag)
		}
	}
	return c, r.err
}

func readMembers(r *reader, cp ConstantPool) ([]MemberInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	members := make([]MemberInfo, count)
	for i := range members {
		m := &members[i]
		m.AccessFlags = AccessFlags(r.readU2())
		m.NameIndex = r.readU2()
		m.DescriptorIndex = r.readU2()
		attrs, err := readAttributes(r, cp)
		if err != nil {
			return nil, errors.Wrapf(err, "member %d", i)
		}
		m.Attributes = attrs
	}
	return members, nil
}

func readAttributes(r *reader, cp ConstantPool) (Attributes, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make(Attributes, count)
	for i := range attrs {
		attrs[i].NameIndex = r.readU2()
		length := r.readU4()
		attrs[i].Info = r.readBytes(length)
		if r.err != nil {
			return nil, errors.Wrapf(r.err, "attribute %q", cp.Utf8(attrs[i].NameIndex))
		}
	}
	return attrs, nil
}

// decodeModifiedUtf8 decodes the JVM's modified UTF-8, including the
// six-byte surrogate pair encoding of supplementary characters.
func decodeModifiedUtf8(b []byte) string {
	runes := make([]rune, 0, len(b))
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c&0x80 == 0:
			runes = append(runes, rune(c))
			i++
		case c&0xE0 == 0xC0 && i+1 < len(b):
			runes = append(runes, rune(c&0x1F)<<6|rune(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0 && i+2 < len(b):
			r := rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(b) && b[i+3] == 0xED {
				low := rune(b[i+3]&0x0F)<<12 | rune(b[i+4]&0x3F)<<6 | rune(b[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(c))
			i++
		}
	}
	return string(runes)
}
