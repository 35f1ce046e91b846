package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSupportedVersion(t *testing.T) {
	supported := [][]int32{
		{1, 1, 16},
		{1, 4, 0},
		{1, 9, 0},
		{2, 0, 0},
	}
	for _, metadataVersion := range supported {
		assert.NoError(t, CheckSupportedVersion(Header{MetadataVersion: metadataVersion}),
			"version %v", metadataVersion)
	}

	unsupported := [][]int32{
		{1, 0, 3},
		{0, 9, 0},
		{1},
		{},
	}
	for _, metadataVersion := range unsupported {
		assert.ErrorIs(t, CheckSupportedVersion(Header{MetadataVersion: metadataVersion}),
			ErrUnsupportedVersion, "version %v", metadataVersion)
	}
}

// An absent version is not the same as an unsupported one; it is left for
// the decoder to judge.
func TestCheckSupportedVersionSkipsAbsentVersion(t *testing.T) {
	assert.NoError(t, CheckSupportedVersion(Header{}))
}
