package metadata

// Flag is a predicate over a declaration's packed flag set: the bit field of
// `width` bits at `offset` must hold `value`. Boolean flags use width 1 and
// value 1.
type Flag struct {
	offset uint32
	width  uint32
	value  uint32
}

func (flag Flag) Test(flags uint32) bool {
	return flags>>flag.offset&(1<<flag.width-1) == flag.value
}

// The member-kind values a function's flags can carry in their two-bit kind
// field. Only "synthesized" matters here; the others are listed to pin the
// field layout.
const (
	memberKindDeclaration  = 0
	memberKindFakeOverride = 1
	memberKindDelegation   = 2
	memberKindSynthesized  = 3
)

var (
	// FunctionIsSynthesized holds for functions the compiler emitted without
	// any source declaration. The member-kind field sits after the
	// has-annotations bit (1), visibility (3) and modality (2).
	FunctionIsSynthesized = Flag{offset: 6, width: 2, value: memberKindSynthesized}

	// AccessorIsNotDefault holds for property accessors with a non-trivial
	// body in source. Accessor flags pack has-annotations (1), visibility (3)
	// and modality (2) before this bit.
	AccessorIsNotDefault = Flag{offset: 6, width: 1, value: 1}
)
