// The package used for locating and describing the metadata the Kotlin
// compiler embeds in compiled JVM class files.
package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
)

// Raised when the input bytes do not parse as a well-formed class file.
var ErrInvalidClassFile = errors.New("invalid class file")

// The type descriptor of the annotation the Kotlin compiler places on every
// class file it produces.
const metadataAnnotationDescriptor = "Lkotlin/Metadata;"

const classFileMagic = 0xCAFEBABE

const runtimeVisibleAnnotations = "RuntimeVisibleAnnotations"

// Constant pool entry tags.
const (
	constantUtf8               = 1
	constantInteger            = 3
	constantFloat              = 4
	constantLong               = 5
	constantDouble             = 6
	constantClass              = 7
	constantString             = 8
	constantFieldRef           = 9
	constantMethodRef          = 10
	constantInterfaceMethodRef = 11
	constantNameAndType        = 12
	constantMethodHandle       = 15
	constantMethodType         = 16
	constantDynamic            = 17
	constantInvokeDynamic      = 18
	constantModule             = 19
	constantPackage            = 20
)

// Tries to find the Kotlin metadata annotation among the runtime visible
// annotations declared on the class itself. Annotations on fields or methods
// are never considered. `found` is false for well-formed class files without
// the annotation; structurally broken input raises ErrInvalidClassFile. The
// given buffer is only read and never retained.
func FindMetadataAnnotation(classFileBytes []byte) (annotation Annotation, found bool, err error) {
	reader := &classFileReader{data: classFileBytes}

	if magic := reader.u4(); reader.err == nil && magic != classFileMagic {
		return Annotation{}, false, fmt.Errorf("%w: bad magic 0x%08X", ErrInvalidClassFile, magic)
	}
	reader.skip(4) // minor and major version
	pool := reader.readConstantPool()
	reader.skip(6)                    // access flags, this class, super class
	reader.skip(2 * int(reader.u2())) // interfaces
	reader.skipMembers()              // fields
	reader.skipMembers()              // methods
	annotations := reader.readClassAnnotations(pool)

	if reader.err != nil {
		return Annotation{}, false, reader.err
	}
	for _, candidate := range annotations {
		if candidate.Descriptor == metadataAnnotationDescriptor {
			return candidate, true, nil
		}
	}
	return Annotation{}, false, nil
}

// classFileReader walks the class file structure with a sticky error: after
// the first failure every read degrades to a no-op, so callers only check
// `err` at the end.
type classFileReader struct {
	data []byte
	pos  int
	err  error
}

func (reader *classFileReader) fail(message string) {
	if reader.err == nil {
		reader.err = fmt.Errorf("%w: %s (offset %d)", ErrInvalidClassFile, message, reader.pos)
	}
}

func (reader *classFileReader) u1() uint8 {
	if reader.err != nil {
		return 0
	}
	if len(reader.data)-reader.pos < 1 {
		reader.fail("unexpected end of file")
		return 0
	}
	value := reader.data[reader.pos]
	reader.pos++
	return value
}

func (reader *classFileReader) u2() uint16 {
	if reader.err != nil {
		return 0
	}
	if len(reader.data)-reader.pos < 2 {
		reader.fail("unexpected end of file")
		return 0
	}
	value := binary.BigEndian.Uint16(reader.data[reader.pos:])
	reader.pos += 2
	return value
}

func (reader *classFileReader) u4() uint32 {
	if reader.err != nil {
		return 0
	}
	if len(reader.data)-reader.pos < 4 {
		reader.fail("unexpected end of file")
		return 0
	}
	value := binary.BigEndian.Uint32(reader.data[reader.pos:])
	reader.pos += 4
	return value
}

func (reader *classFileReader) bytes(count int) []byte {
	if reader.err != nil {
		return nil
	}
	if count < 0 || len(reader.data)-reader.pos < count {
		reader.fail("unexpected end of file")
		return nil
	}
	value := reader.data[reader.pos : reader.pos+count]
	reader.pos += count
	return value
}

func (reader *classFileReader) skip(count int) {
	reader.bytes(count)
}

// constantPool keeps only the entries the annotation table can point at:
// UTF-8 strings and integers. Everything else is skipped structurally.
type constantPool struct {
	utf8s map[uint16]string
	ints  map[uint16]int32
}

func (reader *classFileReader) readConstantPool() constantPool {
	pool := constantPool{utf8s: map[uint16]string{}, ints: map[uint16]int32{}}
	count := reader.u2()
	for index := uint16(1); index < count && reader.err == nil; index++ {
		tag := reader.u1()
		switch tag {
		case constantUtf8:
			length := int(reader.u2())
			decoded, err := decodeModifiedUtf8(reader.bytes(length))
			if err != nil {
				reader.fail(err.Error())
				break
			}
			pool.utf8s[index] = decoded
		case constantInteger:
			pool.ints[index] = int32(reader.u4())
		case constantFloat:
			reader.skip(4)
		case constantLong, constantDouble:
			reader.skip(8)
			index++ // takes two constant pool slots
		case constantClass, constantString, constantMethodType, constantModule, constantPackage:
			reader.skip(2)
		case constantMethodHandle:
			reader.skip(3)
		case constantFieldRef, constantMethodRef, constantInterfaceMethodRef,
			constantNameAndType, constantDynamic, constantInvokeDynamic:
			reader.skip(4)
		default:
			reader.fail(fmt.Sprintf("unknown constant pool tag %d", tag))
		}
	}
	return pool
}

func (reader *classFileReader) lookupUtf8(pool constantPool, index uint16) string {
	value, found := pool.utf8s[index]
	if !found {
		reader.fail(fmt.Sprintf("constant %d is not a UTF-8 entry", index))
	}
	return value
}

// Skips one field or method table including the attributes of every member.
func (reader *classFileReader) skipMembers() {
	count := int(reader.u2())
	for i := 0; i < count && reader.err == nil; i++ {
		reader.skip(6) // access flags, name index, descriptor index
		reader.skipAttributes()
	}
}

func (reader *classFileReader) skipAttributes() {
	count := int(reader.u2())
	for i := 0; i < count && reader.err == nil; i++ {
		reader.skip(2) // attribute name index
		reader.skip(int(reader.u4()))
	}
}

// Reads the runtime visible annotations out of the class attribute table.
// All other attributes, including runtime invisible annotations, are skipped.
func (reader *classFileReader) readClassAnnotations(pool constantPool) []Annotation {
	annotations := make([]Annotation, 0)
	count := int(reader.u2())
	for i := 0; i < count && reader.err == nil; i++ {
		nameIndex := reader.u2()
		length := int(reader.u4())
		if pool.utf8s[nameIndex] != runtimeVisibleAnnotations {
			reader.skip(length)
			continue
		}
		annotationCount := int(reader.u2())
		for j := 0; j < annotationCount && reader.err == nil; j++ {
			annotations = append(annotations, reader.readAnnotation(pool))
		}
	}
	return annotations
}

func (reader *classFileReader) readAnnotation(pool constantPool) Annotation {
	annotation := Annotation{Descriptor: reader.lookupUtf8(pool, reader.u2())}
	pairCount := int(reader.u2())
	annotation.Values = make([]NamedValue, 0, pairCount)
	for i := 0; i < pairCount && reader.err == nil; i++ {
		name := reader.lookupUtf8(pool, reader.u2())
		annotation.Values = append(annotation.Values, NamedValue{
			Name:  name,
			Value: reader.readElementValue(pool),
		})
	}
	return annotation
}

// Reads one element value. Every tag must be consumed structurally to keep
// the stream aligned, but only the shapes the metadata annotation uses are
// materialized; the rest come back as ValueOther.
func (reader *classFileReader) readElementValue(pool constantPool) Value {
	tag := reader.u1()
	switch tag {
	case 'B', 'C', 'I', 'S', 'Z':
		index := reader.u2()
		number, found := pool.ints[index]
		if !found {
			reader.fail(fmt.Sprintf("constant %d is not an integer entry", index))
			return Value{}
		}
		return Value{Kind: ValueInt, Int: number}
	case 's':
		return Value{Kind: ValueString, String: reader.lookupUtf8(pool, reader.u2())}
	case 'D', 'F', 'J', 'c':
		reader.skip(2)
		return Value{Kind: ValueOther}
	case 'e':
		reader.skip(4) // type name index and constant name index
		return Value{Kind: ValueOther}
	case '@':
		reader.readAnnotation(pool)
		return Value{Kind: ValueOther}
	case '[':
		return reader.readArrayValue(pool)
	default:
		reader.fail(fmt.Sprintf("unknown element value tag %q", tag))
		return Value{}
	}
}

func (reader *classFileReader) readArrayValue(pool constantPool) Value {
	count := int(reader.u2())
	if count == 0 {
		return Value{Kind: ValueEmptyList}
	}
	elements := make([]Value, 0, count)
	for i := 0; i < count && reader.err == nil; i++ {
		elements = append(elements, reader.readElementValue(pool))
	}

	ints := make([]int32, 0, count)
	strings := make([]string, 0, count)
	for _, element := range elements {
		switch element.Kind {
		case ValueInt:
			ints = append(ints, element.Int)
		case ValueString:
			strings = append(strings, element.String)
		}
	}
	switch {
	case len(ints) == count:
		return Value{Kind: ValueIntList, Ints: ints}
	case len(strings) == count:
		return Value{Kind: ValueStringList, Strings: strings}
	default:
		return Value{Kind: ValueOther}
	}
}

// Decodes the modified UTF-8 used by class file constants: NUL is stored as
// the two-byte sequence 0xC0 0x80 and supplementary characters as pairs of
// three-byte encoded UTF-16 surrogates.
func decodeModifiedUtf8(encoded []byte) (string, error) {
	units := make([]uint16, 0, len(encoded))
	for i := 0; i < len(encoded); {
		first := encoded[i]
		switch {
		case first&0x80 == 0:
			units = append(units, uint16(first))
			i++
		case first&0xE0 == 0xC0:
			if len(encoded)-i < 2 || encoded[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("truncated two-byte sequence in modified UTF-8")
			}
			units = append(units, uint16(first&0x1F)<<6|uint16(encoded[i+1]&0x3F))
			i += 2
		case first&0xF0 == 0xE0:
			if len(encoded)-i < 3 || encoded[i+1]&0xC0 != 0x80 || encoded[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("truncated three-byte sequence in modified UTF-8")
			}
			units = append(units,
				uint16(first&0x0F)<<12|uint16(encoded[i+1]&0x3F)<<6|uint16(encoded[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("bad byte 0x%02X in modified UTF-8", first)
		}
	}
	return string(utf16.Decode(units)), nil
}
