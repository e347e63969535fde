package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/pbkdf2"

	"gerritkit/pkg/errors"
)

const (
	// Keyring service name
	keyringService = "gerritkit"
	// Salt for key derivation
	saltSize = 32
	// Number of iterations for PBKDF2
	pbkdf2Iterations = 100000
	// Key size for AES-256
	keySize = 32

	credentialFile = "credentials.enc"
	saltFile       = ".salt"
)

// CredentialManager stores the Gerrit HTTP password, preferring the
// system keyring and falling back to an encrypted file
type CredentialManager struct {
	useKeyring bool
	storeDir   string
	masterKey  []byte
}

// NewCredentialManager creates a credential manager rooted at dir
// (usually the config directory)
func NewCredentialManager(dir string) (*CredentialManager, error) {
	cm := &CredentialManager{
		useKeyring: isKeyringAvailable(),
		storeDir:   dir,
	}

	if !cm.useKeyring {
		key, err := cm.loadMasterKey()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeEncryptionFailed, "failed to initialize master key")
		}
		cm.masterKey = key
	}

	return cm, nil
}

// StorePassword saves the HTTP password for a Gerrit account
func (cm *CredentialManager) StorePassword(username, password string) error {
	if cm.useKeyring {
		if err := keyring.Set(keyringService, username, password); err != nil {
			return errors.Wrap(err, errors.ErrCodeEncryptionFailed, "failed to store password in keyring")
		}
		return nil
	}
	return cm.storeEncrypted(username, password)
}

// GetPassword retrieves the HTTP password for a Gerrit account
func (cm *CredentialManager) GetPassword(username string) (string, error) {
	if cm.useKeyring {
		secret, err := keyring.Get(keyringService, username)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeCredentialNotFound,
				fmt.Sprintf("no stored password for %s", username)).
				WithSuggestions("Run 'gerritkit setup' to store credentials")
		}
		return secret, nil
	}
	return cm.getEncrypted(username)
}

// DeletePassword removes the stored password for a Gerrit account
func (cm *CredentialManager) DeletePassword(username string) error {
	if cm.useKeyring {
		if err := keyring.Delete(keyringService, username); err != nil {
			return errors.Wrap(err, errors.ErrCodeCredentialNotFound,
				fmt.Sprintf("no stored password for %s", username))
		}
		return nil
	}

	store, err := cm.readStore()
	if err != nil {
		return err
	}
	delete(store, username)
	return cm.writeStore(store)
}

func isKeyringAvailable() bool {
	probe := "gerritkit-probe"
	if err := keyring.Set(keyringService, probe, "ok"); err != nil {
		return false
	}
	_ = keyring.Delete(keyringService, probe)
	return true
}

// loadMasterKey derives the file-store key from a per-machine salt,
// creating the salt on first use
func (cm *CredentialManager) loadMasterKey() ([]byte, error) {
	if err := os.MkdirAll(cm.storeDir, 0700); err != nil {
		return nil, err
	}

	saltPath := filepath.Join(cm.storeDir, saltFile)
	salt, err := os.ReadFile(saltPath) // #nosec G304 - fixed name under the config dir
	if os.IsNotExist(err) {
		salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
		if err := os.WriteFile(saltPath, salt, 0600); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	seed := fmt.Sprintf("%s:%d", hostname, os.Getuid())
	return pbkdf2.Key([]byte(seed), salt, pbkdf2Iterations, keySize, sha256.New), nil
}

func (cm *CredentialManager) storeEncrypted(username, password string) error {
	store, err := cm.readStore()
	if err != nil {
		return err
	}

	sealed, err := encrypt(cm.masterKey, []byte(password))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeEncryptionFailed, "failed to encrypt password")
	}
	store[username] = base64.StdEncoding.EncodeToString(sealed)
	return cm.writeStore(store)
}

func (cm *CredentialManager) getEncrypted(username string) (string, error) {
	store, err := cm.readStore()
	if err != nil {
		return "", err
	}

	encoded, ok := store[username]
	if !ok {
		return "", errors.New(errors.ErrCodeCredentialNotFound,
			fmt.Sprintf("no stored password for %s", username)).
			WithSuggestions("Run 'gerritkit setup' to store credentials")
	}

	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeEncryptionFailed, "corrupted credential store")
	}

	plain, err := decrypt(cm.masterKey, sealed)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeEncryptionFailed, "failed to decrypt password")
	}
	return string(plain), nil
}

func (cm *CredentialManager) readStore() (map[string]string, error) {
	path := filepath.Join(cm.storeDir, credentialFile)
	data, err := os.ReadFile(path) // #nosec G304 - fixed name under the config dir
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var store map[string]string
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeEncryptionFailed, "corrupted credential store")
	}
	return store, nil
}

func (cm *CredentialManager) writeStore(store map[string]string) error {
	if err := os.MkdirAll(cm.storeDir, 0700); err != nil {
		return err
	}
	data, err := json.Marshal(store)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cm.storeDir, credentialFile), data, 0600)
}

// encrypt seals plaintext with AES-256-GCM, nonce prepended
func encrypt(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt opens a nonce-prefixed AES-256-GCM ciphertext
func decrypt(key, sealed []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
