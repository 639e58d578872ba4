//go:build !windows

package store

import (
	"fmt"
	"runtime"
)

func nativeStore() (Store, error) {
	return nil, fmt.Errorf("%w: no registry on %s", ErrUnavailable, runtime.GOOS)
}
