package data

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nhan10132020/filmlist/internal/validator"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail = errors.New("duplicate email")
)

var AnonymousUser = &User{}

type User struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	Email     string    `json:"email" gorm:"column:email;not null;uniqueIndex"`
	Password  password  `json:"-" gorm:"column:password_hash;not null"`
	Activated bool      `json:"activated" gorm:"column:activated;not null"`
	Version   *int      `json:"-" gorm:"column:version;default:1"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Name != "", "name", "must be provided")
	v.Check(len(user.Name) <= 500, "name", "must not be more than 500 bytes long")

	ValidateEmail(v, user.Email)
	if user.Password.plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.plaintext)
	}
	if user.Password.hash == nil {
		panic("missing password hash for user")
	}
}

// isDuplicateEmail recognises unique violations on users.email from both
// PostgreSQL and SQLite.
func isDuplicateEmail(err error) bool {
	var perr *pgconn.PgError
	if errors.As(err, &perr) {
		return perr.Code == "23505" && strings.Contains(perr.ConstraintName, "users_email_key")
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}

type UserModel struct {
	DB *gorm.DB
}

func (m UserModel) Insert(user *User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := m.DB.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateEmail(err) {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (m UserModel) Get(id int64) (*User, error) {
	var user User

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := m.DB.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

func (m UserModel) GetByEmail(email string) (*User, error) {
	var user User

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := m.DB.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// EmailTaken reports whether an account already uses the email address.
func (m UserModel) EmailTaken(email string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var count int64
	if err := m.DB.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (m UserModel) Update(user *User) error {
	*user.Version += 1

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// at condition on "version" field to avoid data race existing
	result := m.DB.
		WithContext(ctx).
		Model(user).
		Where("version = ?", *user.Version-1).
		Select("name", "email", "password_hash", "activated", "version").
		Updates(user)

	if err := result.Error; err != nil {
		*user.Version -= 1
		switch {
		case isDuplicateEmail(err):
			return ErrDuplicateEmail
		default:
			return err
		}
	}
	if result.RowsAffected == 0 {
		*user.Version -= 1
		return ErrEditConflict
	}

	return nil
}

// GetForToken returns the user owning a valid, unexpired token of the given scope.
func (m UserModel) GetForToken(tokenScope, tokenPlaintext string) (*User, error) {
	var user User

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := m.DB.
		WithContext(ctx).
		Joins("INNER JOIN tokens ON users.id = tokens.user_id").
		Where("tokens.hash = ? AND tokens.scope = ? AND tokens.expiry > ?", hashToken(tokenPlaintext), tokenScope, time.Now()).
		Take(&user).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &user, nil
}
