// Package consts holds the handful of build-time constants the CLI prints:
// the module version and its startup banner.
package consts

import "fmt"

// Version is the semantic version of this module, bumped on release.
const Version = "0.1.0"

// VersionDetails is set via -ldflags at build time (commit hash, build
// date); left blank in a plain `go build`.
var VersionDetails = ""

// FullVersion returns Version, plus VersionDetails in parentheses when set.
func FullVersion() string {
	if VersionDetails == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, VersionDetails)
}

// Banner is the ASCII-art banner printed above the root command's help text.
func Banner() string {
	return `
          /\      |‾‾|  /‾‾/  /‾/
     /\  /  \     |  |_/  /  / /
    /  \/    \    |      |  /  ‾‾\
   /          \   |  |‾\  \ | (_) |
  / __________ \  |__|  \__\ \___/ .dev

     hammer - an ES5 parser and host sandbox
`
}
