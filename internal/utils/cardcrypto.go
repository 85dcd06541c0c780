package utils

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
)

// CardCipher encrypts and decrypts stored credit card fields with
// AES-256-CBC and hex output, matching the at-rest format the card store
// was migrated from. The IV is fixed per deployment and shared by all
// records; reusing a static IV across records is a known weakness of that
// format, carried over deliberately so existing ciphertext stays readable.
type CardCipher struct {
	block cipher.Block
	iv    []byte
}

// NewCardCipher builds a CardCipher from a 32-byte key and a 16-byte IV.
func NewCardCipher(key, iv []byte) (*CardCipher, error) {
	if len(key) != 32 {
		return nil, errors.New("card cipher: key must be 32 bytes")
	}
	if len(iv) != aes.BlockSize {
		return nil, errors.New("card cipher: iv must be 16 bytes")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &CardCipher{block: block, iv: iv}, nil
}

// Encrypt returns the hex-encoded AES-256-CBC ciphertext of plaintext,
// padded with PKCS#7.
func (c *CardCipher) Encrypt(plaintext string) string {
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out)
}

// Decrypt reverses Encrypt. It fails on malformed hex, truncated
// ciphertext or invalid padding.
func (c *CardCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", errors.New("card cipher: ciphertext is not a whole number of blocks")
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)
	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) (string, error) {
	if len(b) == 0 {
		return "", errors.New("card cipher: empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return "", errors.New("card cipher: invalid padding")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return "", errors.New("card cipher: invalid padding")
		}
	}
	return string(b[:len(b)-n]), nil
}
