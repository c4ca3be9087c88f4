package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bamsammich/dockercp/internal/config"
	"github.com/bamsammich/dockercp/internal/platform"
)

// sizeFlag is a pflag.Value accepting human-readable sizes such as 4K or 1M.
type sizeFlag struct {
	n   int64
	raw string
	set bool
}

var _ pflag.Value = (*sizeFlag)(nil)

func (f *sizeFlag) String() string {
	if f.raw == "" && f.n != 0 {
		return strconv.FormatInt(f.n, 10)
	}
	return f.raw
}

func (*sizeFlag) Type() string { return "SIZE" }

func (f *sizeFlag) Set(val string) error {
	n, err := config.ParseSize(val)
	if err != nil {
		return err
	}
	f.n = n
	f.raw = val
	f.set = true
	return nil
}

// validateBufferLength rejects an explicit buffer length that is zero or
// larger than the copier accepts.
func validateBufferLength(f sizeFlag) error {
	if !f.set {
		return nil
	}
	if f.n <= 0 || f.n > platform.MaxBufferSize {
		return fmt.Errorf("invalid --buffer-length %q: must be between 1 and %d bytes", f.raw, platform.MaxBufferSize)
	}
	return nil
}
