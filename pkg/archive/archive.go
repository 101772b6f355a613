package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format represents the archive format
type Format string

const (
	FormatTarGz Format = "tar.gz"
	FormatTar   Format = "tar"
	FormatZip   Format = "zip"
	FormatRaw   Format = "raw"
)

// DetectFormat detects the archive format based on the filename
func DetectFormat(filename string) Format {
	lower := strings.ToLower(filename)

	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return FormatTarGz
	}
	if strings.HasSuffix(lower, ".tar") {
		return FormatTar
	}
	if strings.HasSuffix(lower, ".zip") {
		return FormatZip
	}

	return FormatRaw
}

// Extract extracts an archive into the destination directory. Raw files need
// no extraction and are left where they are.
func Extract(archivePath, destDir string) error {
	switch format := DetectFormat(archivePath); format {
	case FormatTarGz:
		return extractTarGz(archivePath, destDir)
	case FormatTar:
		return extractTar(archivePath, destDir)
	case FormatZip:
		return extractZip(archivePath, destDir)
	case FormatRaw:
		return nil
	default:
		return fmt.Errorf("unsupported archive format: %s", format)
	}
}

// FindBinary locates the named binary in the extracted directory. The exact
// name is tried first, then a case-insensitive match in the same directory.
func FindBinary(destDir, name string) (string, error) {
	fullPath := filepath.Join(destDir, name)
	if _, err := os.Stat(fullPath); err == nil {
		return fullPath, nil
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", fmt.Errorf("binary %s not found in archive", name)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), name) {
			return filepath.Join(destDir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("binary %s not found in archive", name)
}

func extractTarGz(archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to open archive")
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return errors.Wrap(err, "failed to create gzip reader")
	}
	defer gzReader.Close()

	return extractTarReader(gzReader, destDir)
}

func extractTar(archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to open archive")
	}
	defer file.Close()

	return extractTarReader(file, destDir)
}

func extractTarReader(r io.Reader, destDir string) error {
	tarReader := tar.NewReader(r)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to read tar header")
		}

		target := filepath.Join(destDir, header.Name)

		// Ensure the target path is within destDir
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("invalid path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return errors.Wrap(err, "failed to create directory")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrap(err, "failed to create parent directory")
			}

			file, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return errors.Wrap(err, "failed to create file")
			}

			if _, err := io.Copy(file, tarReader); err != nil {
				file.Close()
				return errors.Wrap(err, "failed to extract file")
			}

			file.Close()
		}
	}

	return nil
}

func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to open zip archive")
	}
	defer reader.Close()

	for _, file := range reader.File {
		target := filepath.Join(destDir, file.Name)

		// Ensure the target path is within destDir
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("invalid path in archive: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, file.Mode()); err != nil {
				return errors.Wrap(err, "failed to create directory")
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.Wrap(err, "failed to create parent directory")
		}

		if err := extractZipFile(file, target); err != nil {
			return err
		}
	}

	return nil
}

func extractZipFile(file *zip.File, target string) error {
	fileReader, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open file in archive")
	}
	defer fileReader.Close()

	targetFile, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, file.Mode())
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer targetFile.Close()

	if _, err := io.Copy(targetFile, fileReader); err != nil {
		return errors.Wrap(err, "failed to extract file")
	}

	return nil
}
