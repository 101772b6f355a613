package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// SystemBinDir is the system-wide install directory used when the process is
// privileged or the directory is writable.
const SystemBinDir = "/usr/local/bin"

// ResolveInstallDir resolves the installation directory. An explicit value
// (flag or manifest) wins, then the FORGEUP_BIN environment variable. With
// neither set, the system directory is used when the process runs as root or
// the directory is writable; otherwise the per-user directory under HOME.
func ResolveInstallDir(binDir string) (string, error) {
	if binDir == "" {
		binDir = os.Getenv("FORGEUP_BIN")
	}
	if binDir == "" {
		if systemDirUsable() {
			binDir = SystemBinDir
		} else if home := os.Getenv("HOME"); home != "" {
			binDir = filepath.Join(home, ".local", "bin")
		} else {
			return "", fmt.Errorf("could not determine install directory: no HOME environment variable")
		}
	}

	binDir = expandPath(binDir)

	absPath, err := filepath.Abs(binDir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve install directory")
	}

	return absPath, nil
}

// Move moves a binary into the target directory under the target name,
// overwriting any prior installation there. The file is made executable
// before the move. The target directory is created if absent.
func Move(sourcePath, targetDir, targetName string) (string, error) {
	if runtime.GOOS == "windows" && !strings.HasSuffix(targetName, ".exe") {
		targetName += ".exe"
	}

	targetPath := filepath.Join(targetDir, targetName)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create install directory")
	}

	if err := os.Chmod(sourcePath, 0755); err != nil {
		return "", errors.Wrap(err, "failed to set permissions")
	}

	if err := os.Rename(sourcePath, targetPath); err != nil {
		// Rename fails across filesystems; fall back to copy and remove.
		if err := copyFile(sourcePath, targetPath); err != nil {
			return "", errors.Wrap(err, "failed to install binary")
		}
		if err := os.Remove(sourcePath); err != nil {
			return "", errors.Wrap(err, "failed to remove source file")
		}
	}

	return targetPath, nil
}

// DirInPath reports whether dir is one of the entries of the PATH
// environment variable.
func DirInPath(dir string) bool {
	for _, entry := range filepath.SplitList(os.Getenv("PATH")) {
		if entry == "" {
			continue
		}
		if abs, err := filepath.Abs(entry); err == nil && abs == dir {
			return true
		}
	}
	return false
}

// systemDirUsable reports whether the system bin directory can be written:
// either the process is privileged or the directory accepts new files.
func systemDirUsable() bool {
	if os.Geteuid() == 0 {
		return true
	}
	probe, err := os.CreateTemp(SystemBinDir, ".forgeup-*")
	if err != nil {
		return false
	}
	probe.Close()
	os.Remove(probe.Name())
	return true
}

func copyFile(sourcePath, targetPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return err
	}

	// Write via a temporary name so a failed copy never clobbers an
	// existing installation.
	tmpFile, err := os.CreateTemp(filepath.Dir(targetPath), "."+filepath.Base(targetPath)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, source); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Chmod(info.Mode()); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, targetPath); err != nil {
		return err
	}

	success = true
	return nil
}

// expandPath expands ~ and environment variables in a path
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home := os.Getenv("HOME"); home != "" {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
