package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/syncforge/forgeup/pkg/archive"
	"github.com/syncforge/forgeup/pkg/asset"
	"github.com/syncforge/forgeup/pkg/checksums"
	"github.com/syncforge/forgeup/pkg/config"
	"github.com/syncforge/forgeup/pkg/fetch"
	"github.com/syncforge/forgeup/pkg/install"
	"github.com/syncforge/forgeup/pkg/platform"
	"github.com/syncforge/forgeup/pkg/spec"
	"github.com/syncforge/forgeup/pkg/version"
)

// installPlan is the resolved state printed in dry-run mode.
type installPlan struct {
	Tag          string `yaml:"tag"`
	Binary       string `yaml:"binary"`
	Platform     string `yaml:"platform"`
	AssetURL     string `yaml:"asset_url"`
	ChecksumsURL string `yaml:"checksums_url"`
	InstallDir   string `yaml:"install_dir"`
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if versionSpec == "" {
		return fmt.Errorf("--version requires a non-empty value")
	}

	// 1. Load the install manifest, or built-in forgectl defaults.
	cfg, err := config.Resolve(configFile)
	if err != nil {
		return err
	}

	// 2. Normalize the version spec into a release tag.
	tag := version.NormalizeTag(versionSpec)
	log.Debugf("resolved tag: %s", tag)

	// 3. Resolve the published binary name for that tag.
	binaryName, err := version.ResolveBinaryName(
		tag,
		spec.StringValue(cfg.Name),
		spec.StringValue(cfg.LegacyName),
		spec.StringValue(cfg.RenameVersion),
	)
	if err != nil {
		return err
	}
	log.Debugf("resolved binary name: %s", binaryName)

	// 4. Detect the host platform.
	plat, err := platform.Detect()
	if err != nil {
		return err
	}
	log.Infof("installing %s %s for %s", binaryName, tag, plat)

	// 5. Compute asset names and download URLs.
	locator := asset.NewLocator(cfg, binaryName, tag)
	archiveName, err := locator.ArchiveFilename(plat.OS, plat.Arch)
	if err != nil {
		return err
	}
	checksumsName, err := locator.ChecksumsFilename()
	if err != nil {
		return err
	}
	archiveURL := locator.DownloadURL(archiveName)
	checksumsURL := locator.DownloadURL(checksumsName)

	installDir, err := install.ResolveInstallDir(resolveBinDir(cfg))
	if err != nil {
		return err
	}

	if dryRun {
		plan, err := yaml.Marshal(installPlan{
			Tag:          tag,
			Binary:       binaryName,
			Platform:     plat.String(),
			AssetURL:     archiveURL,
			ChecksumsURL: checksumsURL,
			InstallDir:   installDir,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(plan))
		return nil
	}

	// 6. Bind a download mechanism.
	fetcher, err := fetch.Select(fetch.Default()...)
	if err != nil {
		return err
	}

	// 7. Download archive and checksum manifest into a fresh temp dir,
	// removed on every exit path.
	tmpDir, err := os.MkdirTemp("", "forgeup-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, archiveName)
	log.Infof("downloading %s", archiveURL)
	if err := fetcher.Fetch(ctx, archiveURL, archivePath); err != nil {
		return fmt.Errorf("failed to download %s: %w", archiveName, err)
	}

	checksumsPath := filepath.Join(tmpDir, checksumsName)
	log.Infof("downloading %s", checksumsURL)
	if err := fetcher.Fetch(ctx, checksumsURL, checksumsPath); err != nil {
		return fmt.Errorf("failed to download %s: %w", checksumsName, err)
	}

	// 8. Verify the archive against the manifest.
	manifest, err := os.ReadFile(checksumsPath)
	if err != nil {
		return fmt.Errorf("failed to read checksum manifest: %w", err)
	}
	if err := checksums.VerifyFile(string(manifest), archivePath, archiveName, *cfg.Checksums.Algorithm); err != nil {
		return err
	}

	// 9. Extract and locate the binary.
	binaryPath := archivePath
	if archive.DetectFormat(archiveName) != archive.FormatRaw {
		extractDir := filepath.Join(tmpDir, "extracted")
		if err := archive.Extract(archivePath, extractDir); err != nil {
			return fmt.Errorf("failed to extract %s: %w", archiveName, err)
		}
		binaryPath, err = archive.FindBinary(extractDir, binaryName)
		if err != nil {
			return err
		}
	}

	// 10. Move into the install directory.
	if !install.DirInPath(installDir) {
		log.Warnf("%s is not in your PATH", installDir)
	}
	installedPath, err := install.Move(binaryPath, installDir, binaryName)
	if err != nil {
		return err
	}

	log.Infof("installed %s", installedPath)
	return nil
}

// resolveBinDir picks the explicit install dir, flag over manifest.
func resolveBinDir(cfg *spec.InstallSpec) string {
	if binDir != "" {
		return binDir
	}
	if cfg.Install != nil {
		return spec.StringValue(cfg.Install.BinDir)
	}
	return ""
}
