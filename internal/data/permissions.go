package data

import (
	"context"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	PermissionFilmsRead  = "films:read"
	PermissionFilmsWrite = "films:write"
)

type Permissions pq.StringArray

func (p Permissions) Include(code string) bool {
	for i := range p {
		if code == p[i] {
			return true
		}
	}

	return false
}

type permission struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Code string `gorm:"column:code;not null;uniqueIndex"`
}

func (permission) TableName() string { return "permissions" }

type userPermission struct {
	UserID       int64       `gorm:"column:user_id;primaryKey"`
	PermissionID int64       `gorm:"column:permission_id;primaryKey"`
	User         *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Permission   *permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

func (userPermission) TableName() string { return "users_permissions" }

type PermissionsModel struct {
	DB *gorm.DB
}

func (m PermissionsModel) GetAllForUser(userID int64) (Permissions, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var codes []string

	if err := m.DB.
		WithContext(ctx).
		Table("permissions").
		Joins("inner join users_permissions ON users_permissions.permission_id = permissions.id").
		Where("users_permissions.user_id = ?", userID).
		Pluck("permissions.code", &codes).Error; err != nil {

		return nil, err
	}

	return Permissions(codes), nil
}

// codeFilter matches permission codes. PostgreSQL gets the codes as a single
// text[] parameter, other dialects an expanded IN list.
func codeFilter(dialect string, codes []string) (string, interface{}) {
	if dialect == "postgres" {
		return "code = ANY(?)", pq.StringArray(codes)
	}
	return "code IN ?", codes
}

func (m PermissionsModel) AddForUser(userID int64, codes ...string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query, arg := codeFilter(tx.Dialector.Name(), codes)

		var ids []int64
		if err := tx.Model(&permission{}).Where(query, arg).Pluck("id", &ids).Error; err != nil {
			return err
		}

		if len(ids) == 0 {
			return nil
		}

		rows := make([]userPermission, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, userPermission{UserID: userID, PermissionID: id})
		}

		return tx.Create(&rows).Error
	})
}
