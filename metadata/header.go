package metadata

import (
	"errors"
	"fmt"
)

// Raised when a recognized metadata annotation element holds a value of an
// unexpected shape, which means the class file was produced by a compiler
// version this package does not understand.
var ErrMalformedAnnotation = errors.New("malformed metadata annotation")

// Annotation is one class-level annotation: its type descriptor and the
// declared element values in declaration order.
type Annotation struct {
	Descriptor string
	Values     []NamedValue
}

type NamedValue struct {
	Name  string
	Value Value
}

type ValueKind int

const (
	// ValueOther covers element shapes the metadata annotation never uses
	// (enums, classes, nested annotations, floating point constants). They
	// are parsed structurally but carry no payload.
	ValueOther ValueKind = iota
	ValueInt
	ValueString
	ValueIntList
	ValueStringList
	// An empty array carries no element tag, so it satisfies either list
	// shape.
	ValueEmptyList
)

// Value is one annotation element value, tagged with the shape it was
// declared with.
type Value struct {
	Kind    ValueKind
	Int     int32
	String  string
	Ints    []int32
	Strings []string
}

// Header carries the raw fields of the metadata annotation with their format
// names spelled out. A nil pointer or nil slice means the element was absent
// from the annotation, which is not the same as present-and-empty; decoders
// treat the two differently.
type Header struct {
	Kind            *int32
	MetadataVersion []int32
	BytecodeVersion []int32
	Data1           []string
	Data2           []string
	ExtraString     *string
	PackageName     *string
	ExtraInt        *int32
}

// Converts the located metadata annotation into a typed header. Recognized
// element names map to header fields; unrecognized names are skipped so that
// class files from newer compilers stay readable. When a name repeats, the
// last occurrence wins.
func NewHeader(annotation Annotation) (Header, error) {
	header := Header{}
	for _, pair := range annotation.Values {
		var err error
		switch pair.Name {
		case "k":
			header.Kind, err = expectInt(pair)
		case "mv":
			header.MetadataVersion, err = expectIntList(pair)
		case "bv":
			header.BytecodeVersion, err = expectIntList(pair)
		case "d1":
			header.Data1, err = expectStringList(pair)
		case "d2":
			header.Data2, err = expectStringList(pair)
		case "xs":
			header.ExtraString, err = expectString(pair)
		case "pn":
			header.PackageName, err = expectString(pair)
		case "xi":
			header.ExtraInt, err = expectInt(pair)
		}
		if err != nil {
			return Header{}, err
		}
	}
	return header, nil
}

func expectInt(pair NamedValue) (*int32, error) {
	if pair.Value.Kind != ValueInt {
		return nil, fmt.Errorf("%w: element '%s' is not an int", ErrMalformedAnnotation, pair.Name)
	}
	value := pair.Value.Int
	return &value, nil
}

func expectString(pair NamedValue) (*string, error) {
	if pair.Value.Kind != ValueString {
		return nil, fmt.Errorf("%w: element '%s' is not a string", ErrMalformedAnnotation, pair.Name)
	}
	value := pair.Value.String
	return &value, nil
}

func expectIntList(pair NamedValue) ([]int32, error) {
	switch pair.Value.Kind {
	case ValueIntList:
		return pair.Value.Ints, nil
	case ValueEmptyList:
		return make([]int32, 0), nil
	}
	return nil, fmt.Errorf("%w: element '%s' is not an int array", ErrMalformedAnnotation, pair.Name)
}

func expectStringList(pair NamedValue) ([]string, error) {
	switch pair.Value.Kind {
	case ValueStringList:
		return pair.Value.Strings, nil
	case ValueEmptyList:
		return make([]string, 0), nil
	}
	return nil, fmt.Errorf("%w: element '%s' is not a string array", ErrMalformedAnnotation, pair.Name)
}
