// Package version holds the release version, set at link time with
//
//	-ldflags "-X github.com/gimlet-io/hookcast/pkg/version.Version=v0.1.0"
package version

var Version = "dev"

func String() string {
	return Version
}
