package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveInstallDir(t *testing.T) {
	tests := []struct {
		name     string
		binDir   string
		setupEnv map[string]string
		want     string
		wantErr  bool
	}{
		{
			name:   "explicit directory",
			binDir: "/opt/tools/bin",
			want:   "/opt/tools/bin",
		},
		{
			name:   "expand home directory",
			binDir: "~/bin",
			setupEnv: map[string]string{
				"HOME": "/home/user",
			},
			want: "/home/user/bin",
		},
		{
			name:   "expand environment variable",
			binDir: "${CUSTOM_BIN}/tools",
			setupEnv: map[string]string{
				"CUSTOM_BIN": "/opt/bin",
			},
			want: "/opt/bin/tools",
		},
		{
			name:   "FORGEUP_BIN override",
			binDir: "",
			setupEnv: map[string]string{
				"FORGEUP_BIN": "/custom/bin",
			},
			want: "/custom/bin",
		},
		{
			name:   "explicit wins over FORGEUP_BIN",
			binDir: "/explicit/bin",
			setupEnv: map[string]string{
				"FORGEUP_BIN": "/custom/bin",
			},
			want: "/explicit/bin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FORGEUP_BIN", "")
			for k, v := range tt.setupEnv {
				t.Setenv(k, v)
			}

			got, err := ResolveInstallDir(tt.binDir)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveInstallDir_UserFallback(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, system dir always usable")
	}

	t.Setenv("FORGEUP_BIN", "")
	t.Setenv("HOME", "/home/user")

	got, err := ResolveInstallDir("")
	require.NoError(t, err)

	// Either the system dir was writable or we fall back to the per-user dir.
	if got != SystemBinDir {
		assert.Equal(t, "/home/user/.local/bin", got)
	}
}

func TestMove(t *testing.T) {
	tmpDir := t.TempDir()
	sourcePath := filepath.Join(tmpDir, "forgectl")
	require.NoError(t, os.WriteFile(sourcePath, []byte("binary content"), 0644))

	targetDir := filepath.Join(tmpDir, "bin")
	targetPath, err := Move(sourcePath, targetDir, "forgectl")
	require.NoError(t, err)

	// Moved, not copied
	_, err = os.Stat(sourcePath)
	assert.True(t, os.IsNotExist(err), "source should be gone after move")

	info, err := os.Stat(targetPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	content, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, "binary content", string(content))
}

func TestMove_OverwritesExisting(t *testing.T) {
	tmpDir := t.TempDir()
	targetDir := filepath.Join(tmpDir, "bin")
	require.NoError(t, os.MkdirAll(targetDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(targetDir, "forgectl"), []byte("old version"), 0755))

	sourcePath := filepath.Join(tmpDir, "forgectl")
	require.NoError(t, os.WriteFile(sourcePath, []byte("new version"), 0644))

	targetPath, err := Move(sourcePath, targetDir, "forgectl")
	require.NoError(t, err)

	content, err := os.ReadFile(targetPath)
	require.NoError(t, err)
	assert.Equal(t, "new version", string(content))
}

func TestDirInPath(t *testing.T) {
	t.Setenv("PATH", "/usr/bin:/home/user/.local/bin:/usr/local/bin")

	assert.True(t, DirInPath("/home/user/.local/bin"))
	assert.True(t, DirInPath("/usr/local/bin"))
	assert.False(t, DirInPath("/opt/forgeup/bin"))
}
