package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"forgectl-linux-amd64.tar.gz", FormatTarGz},
		{"forgectl-linux-amd64.tgz", FormatTarGz},
		{"forgectl-linux-amd64.tar", FormatTar},
		{"forgectl-windows-amd64.zip", FormatZip},
		{"forgectl-linux-amd64", FormatRaw},
		{"FORGECTL-LINUX-AMD64.TAR.GZ", FormatTarGz},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.want {
				t.Errorf("DetectFormat(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestExtract_TarGz(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "forgectl-linux-amd64.tar.gz")
	writeTestTarGz(t, archivePath, map[string]string{
		"forgectl":   "binary content",
		"LICENSE":    "license text",
		"docs/USAGE": "usage text",
	})

	destDir := filepath.Join(tmpDir, "extracted")
	if err := Extract(archivePath, destDir); err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	for _, name := range []string{"forgectl", "LICENSE", "docs/USAGE"} {
		if _, err := os.Stat(filepath.Join(destDir, name)); err != nil {
			t.Errorf("expected file %s not found: %v", name, err)
		}
	}
}

func TestExtract_Zip(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "forgectl-windows-amd64.zip")
	writeTestZip(t, archivePath, map[string]string{
		"forgectl.exe": "binary content",
	})

	destDir := filepath.Join(tmpDir, "extracted")
	if err := Extract(archivePath, destDir); err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(destDir, "forgectl.exe")); err != nil {
		t.Errorf("expected file not found: %v", err)
	}
}

func TestExtract_PathTraversal(t *testing.T) {
	tmpDir := t.TempDir()
	archivePath := filepath.Join(tmpDir, "evil.tar.gz")
	writeTestTarGz(t, archivePath, map[string]string{
		"../escape": "should not be written",
	})

	destDir := filepath.Join(tmpDir, "extracted")
	if err := Extract(archivePath, destDir); err == nil {
		t.Fatal("expected error for path traversal entry")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "escape")); !os.IsNotExist(err) {
		t.Error("traversal entry was written outside destination")
	}
}

func TestFindBinary(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "forgectl"), []byte("bin"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := FindBinary(tmpDir, "forgectl")
	if err != nil {
		t.Fatalf("FindBinary() failed: %v", err)
	}
	if path != filepath.Join(tmpDir, "forgectl") {
		t.Errorf("FindBinary() = %q", path)
	}

	// Case-insensitive fallback
	path, err = FindBinary(tmpDir, "Forgectl")
	if err != nil {
		t.Fatalf("FindBinary() case-insensitive failed: %v", err)
	}
	if filepath.Base(path) != "forgectl" {
		t.Errorf("FindBinary() = %q", path)
	}

	// Archive without the expected binary
	if _, err := FindBinary(tmpDir, "forge-cli"); err == nil {
		t.Error("expected error for missing binary")
	}
}

func writeTestTarGz(t *testing.T, path string, files map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)

	for name, content := range files {
		header := &tar.Header{
			Name: name,
			Mode: 0755,
			Size: int64(len(content)),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write tar header: %v", err)
		}
		if _, err := tarWriter.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write tar content: %v", err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gzWriter.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	zipWriter := zip.NewWriter(&buf)

	for name, content := range files {
		w, err := zipWriter.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip content: %v", err)
		}
	}

	if err := zipWriter.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}
