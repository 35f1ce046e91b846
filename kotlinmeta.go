// Package kotlinmeta reports which methods in a compiled Kotlin class file
// were generated by the compiler rather than written in source. Such methods
// have no line number table, so code coverage tools flag them as uncovered
// no matter what runs; the list returned here lets those tools exclude them.
package kotlinmeta

import (
	"errors"

	"kotlinmeta/metadata"
)

// Raised for well-formed class files that carry no Kotlin metadata
// annotation, meaning the Kotlin compiler did not produce them. Distinct
// from a Kotlin class file in which nothing was generated, which is an
// empty-result success.
var ErrNotAnnotated = errors.New("not a Kotlin class file: no metadata annotation found")

// Runs the whole pipeline over the bytes of one compiled class file and
// returns the JVM signatures of the methods the Kotlin compiler generated,
// for example `equals(Ljava/lang/Object;)Z`. The decoder supplies the
// compact metadata payload decompression.
//
// Synthesized functions come first in container order, followed by each
// property's default accessors in container order, getter before setter.
// Metadata kinds that hold no declarations yield an empty result, not an
// error.
func Run(classFileBytes []byte, decoder metadata.Decoder) ([]string, error) {
	annotation, found, err := metadata.FindMetadataAnnotation(classFileBytes)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotAnnotated
	}

	header, err := metadata.NewHeader(annotation)
	if err != nil {
		return nil, err
	}
	if err := metadata.CheckSupportedVersion(header); err != nil {
		return nil, err
	}

	decoded, err := decoder.Decode(header)
	if err != nil {
		return nil, err
	}
	container, found := decoded.DeclarationContainer()
	if !found {
		return make([]string, 0), nil
	}

	signatures := generatedMethods(container)
	result := make([]string, 0, len(signatures))
	for _, signature := range signatures {
		result = append(result, signature.String())
	}
	return result, nil
}

// Collects the signatures of generated methods in the given declaration
// container.
//
// A function counts as generated when the compiler synthesized it and it has
// a bytecode signature. Synthesized functions cover componentN/copy/equals/
// hashCode/toString for data classes, values/valueOf for enum classes and
// box/unbox for inline classes. A property accessor counts as generated when
// it has no custom body in source, which makes it a plain compiler-emitted
// field accessor; accessors with written bodies are user code and stay out.
// Getter and setter are judged independently.
func generatedMethods(container *metadata.DeclarationContainer) []metadata.Signature {
	result := make([]metadata.Signature, 0)
	for _, function := range container.Functions {
		if metadata.FunctionIsSynthesized.Test(function.Flags) && function.Signature != nil {
			result = append(result, *function.Signature)
		}
	}
	for _, property := range container.Properties {
		if !metadata.AccessorIsNotDefault.Test(property.GetterFlags) && property.GetterSignature != nil {
			result = append(result, *property.GetterSignature)
		}
		if !metadata.AccessorIsNotDefault.Test(property.SetterFlags) && property.SetterSignature != nil {
			result = append(result, *property.SetterSignature)
		}
	}
	return result
}
