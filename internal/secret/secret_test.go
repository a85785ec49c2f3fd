package secret_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hambosto/cryptkeeper/internal/key"
	"github.com/hambosto/cryptkeeper/internal/kdf"
	"github.com/hambosto/cryptkeeper/internal/secret"
)

func TestFromKeyDerivesSameAsDeriveFromRaw(t *testing.T) {
	k, err := key.Random()
	require.NoError(t, err)
	salt := make([]byte, kdf.SaltSize)

	viaSecret, err := secret.FromKey(k).DeriveKeys(salt)
	require.NoError(t, err)

	viaKdf, err := kdf.DeriveFromRaw(k.RawBytes(), salt)
	require.NoError(t, err)

	require.Equal(t, viaKdf.Auth, viaSecret.Auth)
	require.Equal(t, viaKdf.Enc, viaSecret.Enc)
}

func TestFromPasswordDerivesSameAsDeriveFromPassword(t *testing.T) {
	salt := make([]byte, kdf.SaltSize)
	password := []byte("hunter2")

	viaSecret, err := secret.FromPassword(password).DeriveKeys(salt)
	require.NoError(t, err)

	viaKdf, err := kdf.DeriveFromPassword(password, salt)
	require.NoError(t, err)

	require.Equal(t, viaKdf.Auth, viaSecret.Auth)
	require.Equal(t, viaKdf.Enc, viaSecret.Enc)
}
