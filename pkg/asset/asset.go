package asset

import (
	"fmt"
	"strings"

	"github.com/buildkite/interpolate"
	"github.com/syncforge/forgeup/pkg/spec"
)

// Locator computes release asset file names and download URLs for one
// resolved (binary, tag) pair.
type Locator struct {
	Spec *spec.InstallSpec

	// BinaryName is the resolved name the release publishes, current or
	// legacy depending on the tag.
	BinaryName string

	// Tag is "latest" or a "v"-prefixed release tag.
	Tag string
}

// NewLocator creates a locator for the given spec, binary name and tag.
func NewLocator(installSpec *spec.InstallSpec, binaryName, tag string) *Locator {
	return &Locator{
		Spec:       installSpec,
		BinaryName: binaryName,
		Tag:        tag,
	}
}

// ArchiveFilename returns the release archive file name for the given OS and
// architecture, e.g. "forgectl-linux-amd64.tar.gz".
func (l *Locator) ArchiveFilename(osName, arch string) (string, error) {
	template := spec.StringValue(l.Spec.Asset.Template)
	if template == "" {
		return "", fmt.Errorf("asset template not defined in spec")
	}

	filename, err := l.interpolateTemplate(template, map[string]string{
		"OS":   strings.ToLower(osName),
		"ARCH": strings.ToLower(arch),
		"EXT":  spec.StringValue(l.Spec.Asset.DefaultExtension),
	})
	if err != nil {
		return "", fmt.Errorf("failed to interpolate asset template: %w", err)
	}
	return filename, nil
}

// ChecksumsFilename returns the checksum manifest file name, e.g.
// "forgectl-checksums.txt".
func (l *Locator) ChecksumsFilename() (string, error) {
	template := spec.StringValue(l.Spec.Checksums.Template)
	if template == "" {
		return "", fmt.Errorf("checksum template not defined in spec")
	}

	filename, err := l.interpolateTemplate(template, nil)
	if err != nil {
		return "", fmt.Errorf("failed to interpolate checksum template: %w", err)
	}
	return filename, nil
}

// DownloadURL returns the release download URL for the given file. The
// "latest" tag uses the latest-release endpoint; any other tag uses the
// tagged-release endpoint.
func (l *Locator) DownloadURL(filename string) string {
	host := strings.TrimSuffix(spec.StringValue(l.Spec.SourceHost), "/")
	repo := spec.StringValue(l.Spec.Repo)
	if l.Tag == "latest" {
		return fmt.Sprintf("%s/%s/releases/latest/download/%s", host, repo, filename)
	}
	return fmt.Sprintf("%s/%s/releases/download/%s/%s", host, repo, l.Tag, filename)
}

// interpolateTemplate performs variable substitution in a template string
func (l *Locator) interpolateTemplate(template string, additionalVars map[string]string) (string, error) {
	envMap := map[string]string{
		"NAME": l.BinaryName,
		"TAG":  l.Tag,
		// VERSION is the tag without the 'v' prefix
		"VERSION": strings.TrimPrefix(l.Tag, "v"),
	}
	for k, v := range additionalVars {
		envMap[k] = v
	}

	env := interpolate.NewMapEnv(envMap)
	return interpolate.Interpolate(env, template)
}
