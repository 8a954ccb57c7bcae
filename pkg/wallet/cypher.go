package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"github.com/RainumBlockchain/rainum-wallet-sub001/pkg/securemem"
	"golang.org/x/crypto/scrypt"
)

const (
	// KdfAlgorithmScrypt is the identifier persisted along with any cypher
	// text produced with a scrypt-derived key
	KdfAlgorithmScrypt = "scrypt"
	// DefaultKdfWorkFactor is the scrypt N parameter, recommended length
	// for key-stretching. Check the doc for other recommended values:
	// https://godoc.org/golang.org/x/crypto/scrypt
	DefaultKdfWorkFactor = 1 << 20

	kdfSaltSize       = 32
	kdfKeySize        = 32
	scryptBlockSize   = 8
	scryptParallelism = 1

	gcmNonceSize = 12
	gcmTagSize   = 16
)

// KdfParams describes how to stretch a passphrase into an encryption key.
// They are generated once per secret and must be persisted next to the
// cypher text, never recomputed, so that the work factor can be raised for
// new secrets without breaking old ones.
type KdfParams struct {
	Algorithm  string
	Salt       []byte
	WorkFactor int
}

func (p KdfParams) validate() error {
	if p.Algorithm != KdfAlgorithmScrypt {
		return ErrInvalidKdfAlgorithm
	}
	if len(p.Salt) != kdfSaltSize {
		return ErrNullKdfSalt
	}
	if p.WorkFactor <= 1 || p.WorkFactor&(p.WorkFactor-1) != 0 {
		return ErrInvalidKdfWorkFactor
	}
	return nil
}

// Check returns whether the params are complete and usable for key
// derivation. Handy for callers loading them from storage.
func (p KdfParams) Check() error {
	return p.validate()
}

// NewKdfParams returns scrypt params with a fresh random salt. A work factor
// of 0 selects the default.
func NewKdfParams(workFactor int) (KdfParams, error) {
	if workFactor == 0 {
		workFactor = DefaultKdfWorkFactor
	}
	salt := make([]byte, kdfSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return KdfParams{}, err
	}
	params := KdfParams{
		Algorithm:  KdfAlgorithmScrypt,
		Salt:       salt,
		WorkFactor: workFactor,
	}
	if err := params.validate(); err != nil {
		return KdfParams{}, err
	}
	return params, nil
}

// DeriveKey derives a 32 byte array key from a custom passhprase
func DeriveKey(passphrase []byte, params KdfParams) ([]byte, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return scrypt.Key(
		passphrase, params.Salt,
		params.WorkFactor, scryptBlockSize, scryptParallelism, kdfKeySize,
	)
}

// EncryptOpts is the struct given to Encrypt method
type EncryptOpts struct {
	PlainText  []byte
	Passphrase []byte
	KdfParams  KdfParams
}

func (o EncryptOpts) validate() error {
	if len(o.PlainText) <= 0 {
		return ErrNullPlainText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return o.KdfParams.validate()
}

// Encrypt encrypts (with AES-256) a plaintext with the key stretched from
// the provided passphrase and KDF params
func Encrypt(opts EncryptOpts) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	key, err := DeriveKey(opts.Passphrase, opts.KdfParams)
	if err != nil {
		return "", err
	}
	defer securemem.ZeroBytes(key)

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, opts.PlainText, nil)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// CheckCypherText returns whether the given string is a well formed cypher
// text produced by Encrypt, without attempting any decryption
func CheckCypherText(cypherText string) error {
	if len(cypherText) <= 0 {
		return ErrNullCypherText
	}
	data, err := base64.StdEncoding.DecodeString(cypherText)
	if err != nil {
		return ErrInvalidCypherText
	}
	if len(data) < gcmNonceSize+gcmTagSize {
		return ErrInvalidCypherText
	}
	return nil
}

// DecryptOpts is the struct given to Decrypt method
type DecryptOpts struct {
	CypherText string
	Passphrase []byte
	KdfParams  KdfParams
}

func (o DecryptOpts) validate() error {
	if len(o.CypherText) <= 0 {
		return ErrNullCypherText
	}
	if _, err := base64.StdEncoding.DecodeString(o.CypherText); err != nil {
		return ErrInvalidCypherText
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return o.KdfParams.validate()
}

// Decrypt decrypts (with AES-256) a cyphertext with the key stretched from
// the provided passphrase and KDF params. The returned buffer is owned by
// the caller, who is in charge of zeroing it after use.
func Decrypt(opts DecryptOpts) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	data, _ := base64.StdEncoding.DecodeString(opts.CypherText)

	key, err := DeriveKey(opts.Passphrase, opts.KdfParams)
	if err != nil {
		return nil, err
	}
	defer securemem.ZeroBytes(key)

	blockCipher, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(blockCipher)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize()+gcm.Overhead() {
		return nil, ErrInvalidCypherText
	}
	nonce, text := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, text, nil)
}
