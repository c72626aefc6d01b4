package data

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"time"

	"github.com/nhan10132020/filmlist/internal/validator"
	"gorm.io/gorm"
)

// Authentication uses signed JWTs, database tokens only back account activation.
const (
	ScopeActivation = "activation"
)

// Token is a one-time token. Only the SHA-256 hash of the plaintext is stored.
type Token struct {
	Plaintext string    `json:"token" gorm:"-"`
	Hash      []byte    `json:"-" gorm:"column:hash;primaryKey"`
	UserID    int64     `json:"-" gorm:"column:user_id;not null;index"`
	Expiry    time.Time `json:"expiry" gorm:"column:expiry;not null"`
	Scope     string    `json:"-" gorm:"column:scope;not null"`
}

func (Token) TableName() string { return "tokens" }

func hashToken(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return sum[:]
}

func generateToken(userID int64, ttl time.Duration, scope string) (*Token, error) {
	// 16 random bytes encode to 26 base32 characters
	random := make([]byte, 16)
	if _, err := rand.Read(random); err != nil {
		return nil, err
	}

	plaintext := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(random)

	return &Token{
		Plaintext: plaintext,
		Hash:      hashToken(plaintext),
		UserID:    userID,
		Expiry:    time.Now().Add(ttl),
		Scope:     scope,
	}, nil
}

func ValidateTokenPlaintext(v *validator.Validator, tokenPlaintext string) {
	v.Check(tokenPlaintext != "", "token", "must be provided")
	v.Check(len(tokenPlaintext) == 26, "token", "must be 26 bytes long")
}

type TokenModel struct {
	DB *gorm.DB
}

// New generates a token for the user and stores its hash.
func (m TokenModel) New(userID int64, ttl time.Duration, scope string) (*Token, error) {
	token, err := generateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := m.DB.WithContext(ctx).Create(token).Error; err != nil {
		return nil, err
	}

	return token, nil
}

func (m TokenModel) DeleteAllForUser(scope string, userID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.DB.WithContext(ctx).
		Where("scope = ? AND user_id = ?", scope, userID).
		Delete(&Token{}).Error
}

// DeleteExpired removes tokens whose expiry has passed and reports how many went.
func (m TokenModel) DeleteExpired() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result := m.DB.WithContext(ctx).Where("expiry < ?", time.Now()).Delete(&Token{})
	return result.RowsAffected, result.Error
}
