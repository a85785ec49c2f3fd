package keyring_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hambosto/cryptkeeper/internal/cryptoerr"
	"github.com/hambosto/cryptkeeper/internal/keyring"
)

func TestCreateUnlockRoundtrip(t *testing.T) {
	kp, err := keyring.Create([]byte("correct horse battery staple"))
	require.NoError(t, err)

	k, err := kp.Unlock([]byte("correct horse battery staple"))
	require.NoError(t, err)
	require.Len(t, k.RawBytes(), 32)
}

func TestUnlockWithWrongPasswordFails(t *testing.T) {
	kp, err := keyring.Create([]byte("right password"))
	require.NoError(t, err)

	_, err = kp.Unlock([]byte("wrong password"))
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
}

// property 13: rotation.
func TestChangePasswordRotation(t *testing.T) {
	kp, err := keyring.Create([]byte("old password"))
	require.NoError(t, err)

	original, err := kp.Unlock([]byte("old password"))
	require.NoError(t, err)

	rotated, err := kp.ChangePassword([]byte("old password"), []byte("new password"))
	require.NoError(t, err)

	unlockedWithNew, err := rotated.Unlock([]byte("new password"))
	require.NoError(t, err)
	require.Equal(t, original.RawBytes(), unlockedWithNew.RawBytes())

	_, err = rotated.Unlock([]byte("old password"))
	require.ErrorIs(t, err, cryptoerr.WrongKeyOrModifiedCiphertext)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	kp, err := keyring.Create([]byte("password"))
	require.NoError(t, err)

	saved, err := kp.Save()
	require.NoError(t, err)

	loaded, err := keyring.Load(saved)
	require.NoError(t, err)

	k, err := loaded.Unlock([]byte("password"))
	require.NoError(t, err)
	require.Len(t, k.RawBytes(), 32)
}
