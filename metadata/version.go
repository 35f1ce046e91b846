package metadata

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
)

// Raised for class files whose metadata format predates the oldest version
// with the stable layout this package understands.
var ErrUnsupportedVersion = errors.New("unsupported metadata version")

const minSupportedVersion = "1.1"

// Checks that the header's metadata version, when present, is one a decoder
// can be expected to understand. An absent version is not judged here; it is
// handed to the decoder as-is.
func CheckSupportedVersion(header Header) error {
	if header.MetadataVersion == nil {
		return nil
	}
	if len(header.MetadataVersion) < 2 {
		return fmt.Errorf("%w: %v", ErrUnsupportedVersion, header.MetadataVersion)
	}

	declared, err := version.NewVersion(
		fmt.Sprintf("%d.%d", header.MetadataVersion[0], header.MetadataVersion[1]))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedVersion, header.MetadataVersion)
	}
	if declared.LessThan(version.Must(version.NewVersion(minSupportedVersion))) {
		return fmt.Errorf("%w: %v", ErrUnsupportedVersion, header.MetadataVersion)
	}
	return nil
}
