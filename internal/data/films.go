package data

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nhan10132020/filmlist/internal/validator"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// searchLimit caps the number of catalog films returned by a single search.
const searchLimit = 20

type Film struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey"`               // unique integer ID for the film
	CreatedAt time.Time `json:"-" gorm:"column:created_at"`                   // timestamp for when the film entered the catalog
	Name      string    `json:"name" gorm:"column:name;not null;uniqueIndex"` // catalog key, shared by all users
	Photo     string    `json:"-" gorm:"column:photo;not null"`               // storage key of the film photo, empty when none
	PhotoURL  string    `json:"photo_url,omitempty" gorm:"-"`                 // resolved from Photo when rendering
}

func (Film) TableName() string { return "films" }

func ValidateFilmName(v *validator.Validator, name string) {
	v.Check(name != "", "name", "must be provided")
	v.Check(len(name) <= 500, "name", "must not be more than 500 bytes long")
}

type FilmModel struct {
	DB *gorm.DB
}

// GetOrCreate returns the catalog film with the given name, inserting it first
// when it does not exist yet.
func (m FilmModel) GetOrCreate(name string) (*Film, error) {
	// context 3-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return getOrCreateFilm(m.DB.WithContext(ctx), name)
}

func getOrCreateFilm(tx *gorm.DB, name string) (*Film, error) {
	var film Film

	err := tx.Where("name = ?", name).Take(&film).Error
	if err == nil {
		return &film, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// a concurrent request may have created the same film in the meantime,
	// the row is re-read instead of trusting the insert result
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&Film{Name: name}).Error; err != nil {
		return nil, err
	}

	if err := tx.Where("name = ?", name).Take(&film).Error; err != nil {
		return nil, err
	}

	return &film, nil
}

// likeEscaper makes LIKE wildcards in user text match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns catalog films whose name contains text (case-insensitive),
// leaving out the films already on the user's list.
func (m FilmModel) Search(userID int64, text string) ([]*Film, error) {
	films := []*Film{}

	text = strings.TrimSpace(text)
	if text == "" {
		return films, nil
	}

	// context 3-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	onList := m.DB.Model(&ListEntry{}).Select("film_id").Where("user_id = ?", userID)

	if err := m.DB.
		WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(text))+"%").
		Where("id NOT IN (?)", onList).
		Order("name ASC").
		Limit(searchLimit).
		Find(&films).Error; err != nil {
		return nil, err
	}

	return films, nil
}

// SetPhoto records the storage key of the photo attached to a film.
func (m FilmModel) SetPhoto(filmID int64, key string) error {
	// context 3-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result := m.DB.WithContext(ctx).Model(&Film{}).Where("id = ?", filmID).Update("photo", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
