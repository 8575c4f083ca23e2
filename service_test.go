package filerepo

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "valid", cfg: &Config{RootDir: "/tmp/x"}},
		{name: "valid with checksum", cfg: &Config{RootDir: "/tmp/x", Checksum: "sha256"}},
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "missing root", cfg: &Config{}, wantErr: true},
		{name: "blank root", cfg: &Config{RootDir: "   "}, wantErr: true},
		{name: "unknown checksum", cfg: &Config{RootDir: "/tmp/x", Checksum: "blake9"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParsePerm(t *testing.T) {
	perm, err := parsePerm("0750")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), perm)

	_, err = parsePerm("0999")
	assert.Error(t, err)

	_, err = parsePerm("1777")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"pdf", "png"}, splitList(" pdf, ,png ,"))
	assert.Nil(t, splitList(""))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("builtin types", func(t *testing.T) {
		repo, err := New(&Config{RootDir: t.TempDir(), CreateRoot: true, BuiltinTypes: "pdf, png"})
		require.NoError(t, err)

		_, err = repo.Save(ctx, "a.pdf", "application/pdf", bytes.NewReader(pdfContent))
		require.NoError(t, err)

		_, err = repo.Save(ctx, "a.gif", "image/gif", bytes.NewReader([]byte("GIF89a")))
		assert.True(t, IsUnsupportedType(err))
	})

	t.Run("types file", func(t *testing.T) {
		dir := t.TempDir()
		typesFile := filepath.Join(dir, "types.yaml")
		yaml := "types:\n" +
			"  - extensions: [\".bin\"]\n" +
			"    mime_type: application/x-test\n" +
			"    magic: \"CA FE\"\n"
		require.NoError(t, os.WriteFile(typesFile, []byte(yaml), 0o644))

		repo, err := New(&Config{RootDir: filepath.Join(dir, "root"), CreateRoot: true, TypesFile: typesFile})
		require.NoError(t, err)

		_, err = repo.Save(ctx, "blob.bin", "application/x-test", bytes.NewReader([]byte{0xCA, 0xFE, 0x01}))
		require.NoError(t, err)

		_, err = repo.Save(ctx, "blob.bin", "application/x-test", bytes.NewReader([]byte{0x00, 0x00, 0x01}))
		assert.True(t, IsInvalidFormat(err))
	})

	t.Run("duplicate between builtins and types file", func(t *testing.T) {
		dir := t.TempDir()
		typesFile := filepath.Join(dir, "types.yaml")
		yaml := "types:\n  - extensions: [\".pdf\"]\n    mime_type: application/pdf\n"
		require.NoError(t, os.WriteFile(typesFile, []byte(yaml), 0o644))

		_, err := New(&Config{RootDir: dir, BuiltinTypes: "pdf", TypesFile: typesFile})
		assert.Error(t, err)
	})

	t.Run("unknown builtin", func(t *testing.T) {
		_, err := New(&Config{RootDir: t.TempDir(), BuiltinTypes: "exe"})
		assert.Error(t, err)
	})

	t.Run("no types registered by default", func(t *testing.T) {
		t.Setenv("BEAVER_FILEREPO_ROOT_DIR", t.TempDir())

		repo, err := NewFromEnv()
		require.NoError(t, err)

		_, err = repo.Save(ctx, "a.pdf", "application/pdf", bytes.NewReader(pdfContent))
		assert.True(t, IsUnsupportedType(err))
	})

	t.Run("allow unknown", func(t *testing.T) {
		repo, err := New(&Config{RootDir: t.TempDir(), AllowUnknownTypes: true})
		require.NoError(t, err)

		_, err = repo.Save(ctx, "notes.txt", "text/plain", bytes.NewReader([]byte("hi")))
		assert.NoError(t, err)
	})

	t.Run("default checksum", func(t *testing.T) {
		repo, err := New(&Config{RootDir: t.TempDir(), BuiltinTypes: "pdf", Checksum: "md5"})
		require.NoError(t, err)

		result, err := repo.Save(ctx, "a.pdf", "application/pdf", bytes.NewReader(pdfContent))
		require.NoError(t, err)
		assert.Equal(t, ChecksumMD5, result.ChecksumAlgorithm)
		assert.Len(t, result.Checksum, 32)
	})

	t.Run("bad permission", func(t *testing.T) {
		_, err := New(&Config{RootDir: t.TempDir(), DirPerm: "rwx"})
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := New(&Config{})
		assert.Error(t, err)
	})
}

func TestGlobalInstance(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("BEAVER_FILEREPO_ROOT_DIR", t.TempDir())
	t.Setenv("BEAVER_FILEREPO_BUILTIN_TYPES", "pdf")

	repo1, err := Default()
	require.NoError(t, err)
	require.NotNil(t, repo1)

	repo2, err := Default()
	require.NoError(t, err)
	assert.Same(t, repo1, repo2)

	Reset()
	require.NoError(t, Init(&Config{RootDir: t.TempDir()}))
	repo3, err := Default()
	require.NoError(t, err)
	assert.NotSame(t, repo1, repo3)
}
