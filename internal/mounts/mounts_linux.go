package mounts

import (
	"fmt"
	"os"

	"github.com/moby/sys/mountinfo"
)

// Find returns the first mount whose source names device. path is a table in
// /proc/<pid>/mountinfo format; empty reads the kernel's table for this
// process.
func Find(path, device string) (Entry, bool, error) {
	infos, err := read(path, SourceFilter(device))
	if err != nil {
		return Entry{}, false, err
	}
	if len(infos) == 0 {
		return Entry{}, false, nil
	}
	return fromInfo(infos[0]), true, nil
}

func read(path string, filter mountinfo.FilterFunc) ([]*mountinfo.Info, error) {
	if path == "" {
		infos, err := mountinfo.GetMounts(filter)
		if err != nil {
			return nil, fmt.Errorf("read mount table: %w", err)
		}
		return infos, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mount table: %w", err)
	}
	defer f.Close()

	infos, err := mountinfo.GetMountsFromReader(f, filter)
	if err != nil {
		return nil, fmt.Errorf("read mount table %s: %w", path, err)
	}
	return infos, nil
}
