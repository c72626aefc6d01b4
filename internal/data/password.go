package data

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type password struct {
	plaintext *string
	hash      []byte
}

// Scan() scan value into hash password
func (j *password) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		j.hash = append([]byte(nil), v...)
	case string:
		j.hash = []byte(v)
	default:
		return fmt.Errorf("unsupported password hash value: %T", value)
	}

	return nil
}

// GormDataType() maps the hash to a binary column (bytea, blob)
func (password) GormDataType() string {
	return "bytes"
}

// Value() save hash password to db
func (j password) Value() (driver.Value, error) {
	return j.hash, nil
}

// Set() method calculates the bcrypt hash of plain password
// and stores both the hash and plain version in the struct
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}

	p.plaintext = &plaintextPassword
	p.hash = hash

	return nil
}

// Matches() method checks whether the provided plaintext password matches
// the hashed password stored in the struct
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}
