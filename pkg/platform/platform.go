// Package platform detects the host OS and CPU architecture for release
// asset selection.
package platform

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Platform is an (OS, architecture) pair in release asset naming terms.
type Platform struct {
	OS   string
	Arch string
}

// archAliases normalizes raw architecture identifiers into the codes used by
// release asset names. Values outside this table are unsupported.
var archAliases = map[string]string{
	"x86_64":  "amd64",
	"amd64":   "amd64",
	"arm64":   "arm64",
	"aarch64": "arm64",
	"i386":    "i386",
	"i686":    "i386",
	"386":     "i386",
}

// Detect returns the host platform. The architecture may be overridden with
// TARGETARCH, or ARCH when TARGETARCH is unset; override values are taken
// as-is before normalization.
func Detect() (Platform, error) {
	arch, err := NormalizeArch(rawArch())
	if err != nil {
		return Platform{}, err
	}
	return Platform{
		OS:   DetectOS(),
		Arch: arch,
	}, nil
}

// DetectOS returns the lower-cased host operating system name.
func DetectOS() string {
	return strings.ToLower(runtime.GOOS)
}

// NormalizeArch maps a raw architecture identifier to its release asset code.
func NormalizeArch(raw string) (string, error) {
	arch, ok := archAliases[strings.ToLower(raw)]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", raw)
	}
	return arch, nil
}

// rawArch returns the architecture identifier before normalization,
// honoring the override environment variables in priority order.
func rawArch() string {
	if arch := os.Getenv("TARGETARCH"); arch != "" {
		return arch
	}
	if arch := os.Getenv("ARCH"); arch != "" {
		return arch
	}
	return runtime.GOARCH
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}
