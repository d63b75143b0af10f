package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"veilchat/internal/store"
)

func TestSecureFileStore_SetGetDelete(t *testing.T) {
	s := store.NewSecureFileStore(t.TempDir(), "correct horse battery staple")

	_, ok, err := s.Get("e2ee_public_key")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set("e2ee_public_key", "AAAA"))
	v, ok, err := s.Get("e2ee_public_key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "AAAA", v)

	require.NoError(t, s.Delete("e2ee_public_key"))
	_, ok, err = s.Get("e2ee_public_key")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSecureFileStore_DeleteMissingIsNoError(t *testing.T) {
	s := store.NewSecureFileStore(t.TempDir(), "pass")
	require.NoError(t, s.Delete("never_set"))
}

func TestSecureFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := store.NewSecureFileStore(dir, "pass")
	require.NoError(t, first.Set("e2ee_secret_key", "c2VjcmV0"))

	second := store.NewSecureFileStore(dir, "pass")
	v, ok, err := second.Get("e2ee_secret_key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "c2VjcmV0", v)
}

func TestSecureFileStore_WrongPassphraseFails(t *testing.T) {
	dir := t.TempDir()

	first := store.NewSecureFileStore(dir, "correct")
	require.NoError(t, first.Set("e2ee_secret_key", "c2VjcmV0"))

	second := store.NewSecureFileStore(dir, "wrong")
	_, _, err := second.Get("e2ee_secret_key")
	require.Error(t, err)
}

func TestSecureFileStore_CorruptedBlobFails(t *testing.T) {
	dir := t.TempDir()

	s := store.NewSecureFileStore(dir, "pass")
	require.NoError(t, s.Set("e2ee_secret_key", "c2VjcmV0"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "keystore.enc"), []byte("not json"), 0o600))
	_, _, err := s.Get("e2ee_secret_key")
	require.Error(t, err)
}

func TestSecureFileStore_FileIsOwnerOnly(t *testing.T) {
	dir := t.TempDir()

	s := store.NewSecureFileStore(dir, "pass")
	require.NoError(t, s.Set("e2ee_secret_key", "c2VjcmV0"))

	info, err := os.Stat(filepath.Join(dir, "keystore.enc"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
