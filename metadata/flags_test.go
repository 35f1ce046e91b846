package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	// Visibility "public" occupies the three bits after has-annotations.
	publicBits = 3 << 1
	// The member-kind field of function flags.
	synthesizedBits = memberKindSynthesized << 6
	delegationBits  = memberKindDelegation << 6
	notDefaultBit   = 1 << 6
)

func TestFunctionIsSynthesized(t *testing.T) {
	assert.True(t, FunctionIsSynthesized.Test(synthesizedBits))
	assert.True(t, FunctionIsSynthesized.Test(publicBits|synthesizedBits))
	assert.True(t, FunctionIsSynthesized.Test(publicBits|synthesizedBits|1<<8))

	assert.False(t, FunctionIsSynthesized.Test(0))
	assert.False(t, FunctionIsSynthesized.Test(publicBits))
	assert.False(t, FunctionIsSynthesized.Test(delegationBits))
	// A declaration with every surrounding bit set is still not synthesized.
	assert.False(t, FunctionIsSynthesized.Test(^uint32(synthesizedBits)))
}

func TestAccessorIsNotDefault(t *testing.T) {
	assert.True(t, AccessorIsNotDefault.Test(notDefaultBit))
	assert.True(t, AccessorIsNotDefault.Test(publicBits|notDefaultBit))

	assert.False(t, AccessorIsNotDefault.Test(0))
	assert.False(t, AccessorIsNotDefault.Test(publicBits))
	assert.False(t, AccessorIsNotDefault.Test(1<<7))
}

func TestFlagTestIsolatesItsBitField(t *testing.T) {
	flag := Flag{offset: 2, width: 3, value: 5}

	assert.True(t, flag.Test(5<<2))
	assert.True(t, flag.Test(5<<2|1))
	assert.True(t, flag.Test(5<<2|1<<5))
	assert.False(t, flag.Test(4<<2))
	assert.False(t, flag.Test(5))
}
