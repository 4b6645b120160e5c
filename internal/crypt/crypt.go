// Package crypt protects exported collections with an age passphrase.
package crypt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"
)

// Header is the first line of every age file.
const Header = "age-encryption.org/v1"

// ErrWrongPassphrase is returned when the passphrase does not open the file.
var ErrWrongPassphrase = errors.New("incorrect passphrase")

// Passphrase encrypts and decrypts with age's scrypt recipient.
type Passphrase struct {
	// WorkFactor is the scrypt log2(N). Zero keeps age's default.
	WorkFactor int
}

// Encrypt reads plaintext from r and writes age-encrypted ciphertext to w.
func (p Passphrase) Encrypt(w io.Writer, r io.Reader, passphrase string) error {
	if passphrase == "" {
		return errors.New("passphrase must not be empty")
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if p.WorkFactor > 0 {
		recipient.SetWorkFactor(p.WorkFactor)
	}

	encWriter, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}

	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}

	return nil
}

// Decrypt reads age-encrypted ciphertext from r and writes plaintext to w.
func (p Passphrase) Decrypt(w io.Writer, r io.Reader, passphrase string) error {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt identity: %w", err)
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) || errors.Is(err, age.ErrIncorrectIdentity) {
			return ErrWrongPassphrase
		}
		return fmt.Errorf("creating decrypted reader: %w", err)
	}

	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}

	return nil
}

// DecryptBytes is Decrypt for in-memory data.
func (p Passphrase) DecryptBytes(data []byte, passphrase string) ([]byte, error) {
	var out bytes.Buffer
	if err := p.Decrypt(&out, bytes.NewReader(data), passphrase); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// IsEncrypted reports whether data starts with the age header line.
func IsEncrypted(data []byte) bool {
	line, _, err := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if err != nil {
		return false
	}
	return string(line) == Header
}
