package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-pepper")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
			require.Len(t, strings.Split(hash, "$"), 6)

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.ErrorIs(t, VerifyPassword(tt.password+"x", hash), ErrPasswordMismatch)
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("samepassword")
	require.NoError(t, err)
	h2, err := HashPassword("samepassword")
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestVerifyPassword_InvalidFormats(t *testing.T) {
	valid, err := HashPassword("pw")
	require.NoError(t, err)
	parts := strings.Split(valid, "$")

	tests := map[string]string{
		"empty":          "",
		"bcrypt":         "$2a$10$abcdefghijklmnopqrstuv",
		"wrong version":  strings.Join([]string{"", "argon2id", "v=16", parts[3], parts[4], parts[5]}, "$"),
		"bad params":     strings.Join([]string{"", "argon2id", "v=19", "m=x", parts[4], parts[5]}, "$"),
		"bad salt":       strings.Join([]string{"", "argon2id", "v=19", parts[3], "!!!", parts[5]}, "$"),
		"empty hash":     strings.Join([]string{"", "argon2id", "v=19", parts[3], parts[4], ""}, "$"),
		"too many parts": valid + "$extra",
	}

	for name, encoded := range tests {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, VerifyPassword("pw", encoded), ErrInvalidHash)
		})
	}
}

func TestVerifyPassword_PepperMatters(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	original, err := Pepper()
	require.NoError(t, err)
	t.Cleanup(func() { SetPepper(original) })

	SetPepper("a-different-pepper")
	require.ErrorIs(t, VerifyPassword("pw", hash), ErrPasswordMismatch)
}

func TestPepper_PersistsToFile(t *testing.T) {
	original, err := Pepper()
	require.NoError(t, err)
	t.Cleanup(func() { SetPepper(original) })

	path := filepath.Join(t.TempDir(), "nested", "pepper")
	SetPepperPath(path)

	p1, err := Pepper()
	require.NoError(t, err)
	require.NotEmpty(t, p1)

	SetPepperPath(path)
	p2, err := Pepper()
	require.NoError(t, err)
	require.Equal(t, p1, p2, "second load must read the same file")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNeedsRehash(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	require.False(t, NeedsRehash(hash))

	weaker := strings.Replace(hash, "t=2", "t=1", 1)
	require.True(t, NeedsRehash(weaker))
	require.True(t, NeedsRehash("garbage"))
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(16)
	require.NoError(t, err)
	require.Len(t, pw, 16)
	for _, r := range pw {
		require.Contains(t, passwordCharset, string(r))
	}

	short, err := GeneratePassword(3)
	require.NoError(t, err)
	require.Len(t, short, 8)
}
