package spec

// InstallSpec describes where forgectl releases live and how their assets are
// named. All fields are optional in the manifest; SetDefaults fills in the
// values for the official syncforge/forgectl releases.
type InstallSpec struct {
	Schema     *string `yaml:"schema,omitempty"`
	SourceHost *string `yaml:"source_host,omitempty"`
	Repo       *string `yaml:"repo,omitempty"`
	Name       *string `yaml:"name,omitempty"`
	LegacyName *string `yaml:"legacy_name,omitempty"`
	// RenameVersion is the first release published under Name rather than
	// LegacyName.
	RenameVersion *string         `yaml:"rename_version,omitempty"`
	Asset         *AssetConfig    `yaml:"asset,omitempty"`
	Checksums     *ChecksumConfig `yaml:"checksums,omitempty"`
	Install       *InstallConfig  `yaml:"install,omitempty"`
}

// AssetConfig controls release asset file naming.
type AssetConfig struct {
	// Template supports ${NAME}, ${OS}, ${ARCH} and ${EXT} variables.
	Template         *string `yaml:"template,omitempty"`
	DefaultExtension *string `yaml:"default_extension,omitempty"`
}

// ChecksumConfig controls checksum manifest naming and the digest algorithm.
type ChecksumConfig struct {
	// Template supports ${NAME} and ${TAG} variables.
	Template  *string    `yaml:"template,omitempty"`
	Algorithm *Algorithm `yaml:"algorithm,omitempty"`
}

// InstallConfig controls where the binary is placed.
type InstallConfig struct {
	BinDir *string `yaml:"bin_dir,omitempty"`
}

// Algorithm is a checksum digest algorithm
type Algorithm string

const (
	Sha256 Algorithm = "sha256"
	Sha512 Algorithm = "sha512"
	Sha1   Algorithm = "sha1"
	Md5    Algorithm = "md5"
)

// Defaults for the official forgectl distribution.
const (
	DefaultSourceHost    = "https://github.com"
	DefaultRepo          = "syncforge/forgectl"
	DefaultName          = "forgectl"
	DefaultLegacyName    = "forge-cli"
	DefaultRenameVersion = "1.5.0"
)

// SetDefaults sets default values for the InstallSpec
func (s *InstallSpec) SetDefaults() {
	if s.Schema == nil || *s.Schema == "" {
		schema := "v1"
		s.Schema = &schema
	}
	if s.SourceHost == nil || *s.SourceHost == "" {
		host := DefaultSourceHost
		s.SourceHost = &host
	}
	if s.Repo == nil || *s.Repo == "" {
		repo := DefaultRepo
		s.Repo = &repo
	}
	if s.Name == nil || *s.Name == "" {
		name := DefaultName
		s.Name = &name
	}
	if s.LegacyName == nil || *s.LegacyName == "" {
		legacy := DefaultLegacyName
		s.LegacyName = &legacy
	}
	if s.RenameVersion == nil || *s.RenameVersion == "" {
		rename := DefaultRenameVersion
		s.RenameVersion = &rename
	}
	if s.Asset == nil {
		s.Asset = &AssetConfig{}
	}
	if s.Asset.Template == nil || *s.Asset.Template == "" {
		tmpl := "${NAME}-${OS}-${ARCH}.${EXT}"
		s.Asset.Template = &tmpl
	}
	if s.Asset.DefaultExtension == nil || *s.Asset.DefaultExtension == "" {
		ext := "tar.gz"
		s.Asset.DefaultExtension = &ext
	}
	if s.Checksums == nil {
		s.Checksums = &ChecksumConfig{}
	}
	if s.Checksums.Template == nil || *s.Checksums.Template == "" {
		tmpl := "${NAME}-checksums.txt"
		s.Checksums.Template = &tmpl
	}
	if s.Checksums.Algorithm == nil || *s.Checksums.Algorithm == "" {
		algo := Sha256
		s.Checksums.Algorithm = &algo
	}
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// StringValue safely dereferences a string pointer
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// AlgorithmString converts Algorithm to string
func AlgorithmString(a *Algorithm) string {
	if a == nil {
		return ""
	}
	return string(*a)
}
