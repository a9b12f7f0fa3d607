// Package version reports the build version, preferring an ldflags
// override and falling back to the VCS revision baked into the binary.
package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/tracklet/tracklet/version.Version=$(git describe --dirty)"
var Version string

var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	modified := false
	for _, setting := range info.Settings {
		if setting.Key == "vcs.modified" && setting.Value == "true" {
			modified = true
			break
		}
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			shortHash := setting.Value[:7]
			if modified {
				return shortHash + "-dirty"
			}
			return shortHash
		}
	}
	return ""
}()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()
