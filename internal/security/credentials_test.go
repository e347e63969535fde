package security

import (
	"crypto/rand"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gerritkit/pkg/errors"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, keySize)
	_, err := io.ReadFull(rand.Reader, key)
	require.NoError(t, err)
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)

	sealed, err := encrypt(key, []byte("http-password-123"))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "http-password-123")

	plain, err := decrypt(key, sealed)
	require.NoError(t, err)
	assert.Equal(t, "http-password-123", string(plain))
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	sealed, err := encrypt(testKey(t), []byte("secret"))
	require.NoError(t, err)

	_, err = decrypt(testKey(t), sealed)
	assert.Error(t, err)
}

func TestDecryptTruncatedCiphertext(t *testing.T) {
	_, err := decrypt(testKey(t), []byte("short"))
	assert.Error(t, err)
}

func TestFileStoreRoundTrip(t *testing.T) {
	cm := &CredentialManager{storeDir: t.TempDir()}
	key, err := cm.loadMasterKey()
	require.NoError(t, err)
	cm.masterKey = key

	require.NoError(t, cm.storeEncrypted("jdoe", "hunter2"))

	got, err := cm.getEncrypted("jdoe")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	_, err = cm.getEncrypted("nobody")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCredentialNotFound))
}

func TestMasterKeyIsStableAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	cm1 := &CredentialManager{storeDir: dir}
	key1, err := cm1.loadMasterKey()
	require.NoError(t, err)

	cm2 := &CredentialManager{storeDir: dir}
	key2, err := cm2.loadMasterKey()
	require.NoError(t, err)

	assert.Equal(t, key1, key2)
}
