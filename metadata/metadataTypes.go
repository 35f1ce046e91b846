package metadata

// Kind of class file, as recorded in the metadata payload.
type Kind int32

const (
	KindClass                Kind = 1
	KindFileFacade           Kind = 2
	KindSyntheticClass       Kind = 3
	KindMultiFileClassFacade Kind = 4
	KindMultiFileClassPart   Kind = 5
)

// Decoder decompresses the compact metadata payload referenced by a header
// into the declaration model. Implementations own the payload format; this
// package only defines the shape of what comes out.
type Decoder interface {
	Decode(header Header) (Decoded, error)
}

// Decoded is the outcome of decoding one metadata payload. Container is nil
// for kinds that hold no direct declarations, such as a multi-file class
// facade or a synthetic class. That is a recognized outcome, not an error.
type Decoded struct {
	Kind      Kind
	Container *DeclarationContainer
}

// Tries to get the declaration container of the decoded metadata.
func (decoded Decoded) DeclarationContainer() (container *DeclarationContainer, found bool) {
	if decoded.Container == nil {
		return nil, false
	}
	return decoded.Container, true
}

// DeclarationContainer lists the declarations of one class or file facade in
// the order the metadata payload records them.
type DeclarationContainer struct {
	Functions  []Function
	Properties []Property
}

// A Function's Signature is nil when the function has no direct bytecode
// representation, for example an interface declaration without a body.
type Function struct {
	Flags     uint32
	Signature *Signature
}

// A Property's accessor signatures are nil for accessors that do not exist
// in bytecode; a val property has no setter at all.
type Property struct {
	GetterFlags     uint32
	SetterFlags     uint32
	GetterSignature *Signature
	SetterSignature *Signature
}

// Signature identifies one JVM method overload: its name and the raw
// parameter/return type descriptor.
type Signature struct {
	Name       string
	Descriptor string
}

// Renders the signature the way coverage tooling expects it, for example
// `equals(Ljava/lang/Object;)Z`. The descriptor is passed through verbatim.
func (signature Signature) String() string {
	return signature.Name + signature.Descriptor
}
