package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// keyLen — длина ключа для AES‑256 (в байтах).
const keyLen = 32

// Key — симметричный ключ одной записи.
type Key []byte

// Ciphertext — результат Encrypt: шифртекст и IV в base64.
type Ciphertext struct {
	Ciphertext string
	IV         string
}

// Envelope — шифртекст вместе с экспортированным ключом и IV.
type Envelope struct {
	Ciphertext    string
	EncryptionKey string
	IV            string
}

// EncryptionError — любая ошибка криптографической операции.
type EncryptionError struct {
	Op  string
	Err error
}

func (e *EncryptionError) Error() string { return fmt.Sprintf("crypto: %s: %v", e.Op, e.Err) }

func (e *EncryptionError) Unwrap() error { return e.Err }

func fail(op string, err error) error { return &EncryptionError{Op: op, Err: err} }

// GenerateKey создаёт новый случайный ключ.
func GenerateKey() (Key, error) {
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fail("generate key", err)
	}
	return key, nil
}

// ExportKey сериализует ключ в строку для хранения.
func ExportKey(key Key) string {
	return base64.StdEncoding.EncodeToString(key)
}

// ImportKey восстанавливает ключ из строки ExportKey.
func ImportKey(s string) (Key, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fail("import key", err)
	}
	if len(b) != keyLen {
		return nil, fail("import key", errors.New("invalid key length"))
	}
	return b, nil
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Encrypt шифрует plaintext с помощью AES‑GCM.
// IV генерируется заново при каждом вызове.
func Encrypt(plaintext string, key Key) (Ciphertext, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return Ciphertext{}, fail("encrypt", err)
	}
	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Ciphertext{}, fail("encrypt", err)
	}
	out := gcm.Seal(nil, iv, []byte(plaintext), nil)
	return Ciphertext{
		Ciphertext: base64.StdEncoding.EncodeToString(out),
		IV:         base64.StdEncoding.EncodeToString(iv),
	}, nil
}

// Decrypt расшифровывает шифртекст, полученный от Encrypt.
func Decrypt(ciphertext, iv string, key Key) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", fail("decrypt", err)
	}
	ct, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fail("decrypt", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return "", fail("decrypt", err)
	}
	if len(nonce) != gcm.NonceSize() {
		return "", fail("decrypt", errors.New("invalid iv size"))
	}
	plain, err := gcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", fail("decrypt", err)
	}
	return string(plain), nil
}

// Seal создаёт одноразовый ключ и шифрует им plaintext.
func Seal(plaintext string) (Envelope, error) {
	key, err := GenerateKey()
	if err != nil {
		return Envelope{}, err
	}
	ct, err := Encrypt(plaintext, key)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Ciphertext: ct.Ciphertext, EncryptionKey: ExportKey(key), IV: ct.IV}, nil
}

// Open — обратная операция к Seal.
func Open(env Envelope) (string, error) {
	key, err := ImportKey(env.EncryptionKey)
	if err != nil {
		return "", err
	}
	return Decrypt(env.Ciphertext, env.IV, key)
}
