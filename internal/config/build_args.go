package config

import "fmt"

// The following vars are automatically injected via -ldflags.
// See Makefile target "make go-build" and make var $(LDFLAGS).
// No need to change them here.
// https://www.digitalocean.com/community/tutorials/using-ldflags-to-set-version-information-for-go-applications
var (
	ModuleName = "build.local/misses/ldflags" // e.g. "github/chapool/testnet-tokens"
	Commit     = "< 40 chars git commit hash via ldflags >"
	BuildDate  = "1970-01-01-00:00:00"
)

// GetFormattedBuildArgs returns string representation of buildsargs set via ldflags "<ModuleName> @ <Commit> (<BuildDate>)"
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
