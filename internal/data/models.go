package data

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEditConflict   = errors.New("edit conflict")
)

type Models struct {
	Films       FilmModel
	Lists       ListModel
	Users       UserModel
	Tokens      TokenModel
	Permissions PermissionsModel
}

func NewModels(db *gorm.DB) Models {
	return Models{
		Films: FilmModel{
			DB: db,
		},
		Lists: ListModel{
			DB: db,
		},
		Users: UserModel{
			DB: db,
		},
		Tokens: TokenModel{
			DB: db,
		},
		Permissions: PermissionsModel{
			DB: db,
		},
	}
}
