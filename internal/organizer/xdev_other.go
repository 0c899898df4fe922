//go:build !unix

package organizer

import (
	"errors"
	"os"
)

// isCrossDevice treats any link error other than a missing source or denied
// permission as a possible cross-volume rename.
func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return !os.IsNotExist(err) && !os.IsPermission(err)
}
