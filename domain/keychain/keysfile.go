package keychain

import (
	"bufio"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hathornetwork/htrsignd/domain/netparams"
	"github.com/hathornetwork/htrsignd/util"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var defaultAppDir = util.AppDataDir("htrsignd", false)

// DefaultKeysFile returns the per-network default location of the keys file.
func DefaultKeysFile(params *netparams.Params) string {
	return filepath.Join(defaultAppDir, params.Name, "keys.json")
}

type keysFileJSON struct {
	Cipher string `json:"cipher"`
	Salt   string `json:"salt"`
}

// EncryptedMnemonic is the encrypted form of the seed phrase as it sits on
// disk.
type EncryptedMnemonic struct {
	cipher []byte
	salt   []byte
}

func (em *EncryptedMnemonic) toJSON() *keysFileJSON {
	return &keysFileJSON{
		Cipher: hex.EncodeToString(em.cipher),
		Salt:   hex.EncodeToString(em.salt),
	}
}

func (em *EncryptedMnemonic) fromJSON(fileJSON *keysFileJSON) error {
	var err error
	em.cipher, err = hex.DecodeString(fileJSON.Cipher)
	if err != nil {
		return err
	}

	em.salt, err = hex.DecodeString(fileJSON.Salt)
	if err != nil {
		return err
	}

	return nil
}

// ReadKeysFile reads the encrypted seed phrase from the keys file. An empty
// path means the per-network default location.
func ReadKeysFile(params *netparams.Params, path string) (*EncryptedMnemonic, error) {
	if path == "" {
		path = DefaultKeysFile(params)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	decodedFile := &keysFileJSON{}
	err = decoder.Decode(&decodedFile)
	if err != nil {
		return nil, err
	}

	encryptedMnemonic := &EncryptedMnemonic{}
	err = encryptedMnemonic.fromJSON(decodedFile)
	if err != nil {
		return nil, err
	}

	return encryptedMnemonic, nil
}

func createFileDirectoryIfDoesntExist(path string) error {
	dir := filepath.Dir(path)
	exists, err := pathExists(dir)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return os.MkdirAll(dir, 0700)
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)

	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, err
}

// WriteKeysFile writes the encrypted seed phrase into the keys file. An
// existing file is only overwritten after an explicit confirmation on stdin.
func WriteKeysFile(params *netparams.Params, path string, encryptedMnemonic *EncryptedMnemonic) error {
	if path == "" {
		path = DefaultKeysFile(params)
	}

	exists, err := pathExists(path)
	if err != nil {
		return err
	}

	if exists {
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("The file %s already exists. Are you sure you want to override it (type 'y' to approve)? ", path)
		line, _, err := reader.ReadLine()
		if err != nil {
			return err
		}

		if string(line) != "y" {
			return errors.Errorf("aborted keys file creation")
		}
	}

	err = createFileDirectoryIfDoesntExist(path)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	err = encoder.Encode(encryptedMnemonic.toJSON())
	if err != nil {
		return err
	}

	fmt.Printf("Wrote the keys into %s\n", path)
	return nil
}

// CreateKeysFile prompts for a password and writes the given mnemonic,
// encrypted, into the keys file at path.
func CreateKeysFile(params *netparams.Params, path string, mnemonic string) error {
	password, err := getPassword("Enter password for the keys file:")
	if err != nil {
		return err
	}
	confirmPassword, err := getPassword("Confirm password:")
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(password, confirmPassword) != 1 {
		return errors.New("passwords are not identical")
	}

	encryptedMnemonic, err := EncryptMnemonic(mnemonic, password)
	if err != nil {
		return err
	}

	return WriteKeysFile(params, path, encryptedMnemonic)
}

// Unlock reads the keys file at path, prompts for its password and returns
// a key chain for the decrypted seed phrase.
func Unlock(params *netparams.Params, path string) (*KeyChain, error) {
	encryptedMnemonic, err := ReadKeysFile(params, path)
	if err != nil {
		return nil, err
	}

	password, err := getPassword("Keys file password:")
	if err != nil {
		return nil, err
	}
	mnemonic, err := encryptedMnemonic.Decrypt(password)
	if err != nil {
		return nil, errors.Wrap(err, "could not decrypt the keys file (wrong password?)")
	}

	return FromMnemonic(mnemonic, "", params)
}

func getAEAD(password, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(password, salt, 1, 64*1024, uint8(runtime.NumCPU()), 32)
	return chacha20poly1305.NewX(key)
}

func generateSalt() ([]byte, error) {
	salt := make([]byte, 16)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, err
	}

	return salt, nil
}

// EncryptMnemonic encrypts the mnemonic under a key stretched from the
// given password with a fresh salt.
func EncryptMnemonic(mnemonic string, password []byte) (*EncryptedMnemonic, error) {
	salt, err := generateSalt()
	if err != nil {
		return nil, err
	}

	aead, err := getAEAD(password, salt)
	if err != nil {
		return nil, err
	}

	// Select a random nonce, and leave capacity for the ciphertext.
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(mnemonic)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	// Encrypt the message and append the ciphertext to the nonce.
	cipherText := aead.Seal(nonce, nonce, []byte(mnemonic), nil)

	return &EncryptedMnemonic{
		cipher: cipherText,
		salt:   salt,
	}, nil
}

// Decrypt recovers the seed phrase using the given password.
func (em *EncryptedMnemonic) Decrypt(password []byte) (string, error) {
	aead, err := getAEAD(password, em.salt)
	if err != nil {
		return "", err
	}

	if len(em.cipher) < aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}

	// Split nonce and ciphertext.
	nonce, cipherText := em.cipher[:aead.NonceSize()], em.cipher[aead.NonceSize():]

	// Decrypt the message and check it wasn't tampered with.
	decrypted, err := aead.Open(nil, nonce, cipherText, nil)
	if err != nil {
		return "", err
	}

	return string(decrypted), nil
}
