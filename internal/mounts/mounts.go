// Package mounts finds a device's mount point in the host's live mount table.
package mounts

import "github.com/moby/sys/mountinfo"

// DefaultPath is the calling process's view of mounted filesystems.
const DefaultPath = "/proc/self/mountinfo"

// mapperDir is where device-mapper volumes appear as block devices.
const mapperDir = "/dev/mapper/"

// Entry is one mounted filesystem.
type Entry struct {
	Source     string
	MountPoint string
	FSType     string
	Options    string
}

func fromInfo(info *mountinfo.Info) Entry {
	return Entry{
		Source:     info.Source,
		MountPoint: info.Mountpoint,
		FSType:     info.FSType,
		Options:    info.Options,
	}
}

// MatchesSource reports whether a mount source names device, either bare or
// as its /dev/mapper node.
func MatchesSource(source, device string) bool {
	return device != "" && (source == device || source == mapperDir+device)
}

// SourceFilter keeps only the first mount whose source names device.
func SourceFilter(device string) mountinfo.FilterFunc {
	return func(info *mountinfo.Info) (skip, stop bool) {
		if MatchesSource(info.Source, device) {
			return false, true
		}
		return true, false
	}
}
