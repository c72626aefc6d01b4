package data

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListEntry places one catalog film on one user's personal list. For a given
// user the Order values always form the sequence 1..N.
type ListEntry struct {
	ID        int64     `json:"id" gorm:"column:id;primaryKey"`
	CreatedAt time.Time `json:"-" gorm:"column:created_at"`
	UserID    int64     `json:"-" gorm:"column:user_id;not null;uniqueIndex:idx_user_films_user_film"`
	FilmID    int64     `json:"-" gorm:"column:film_id;not null;uniqueIndex:idx_user_films_user_film"`
	Order     int       `json:"order" gorm:"column:sort_order;not null"`
	Film      *Film     `json:"film,omitempty" gorm:"foreignKey:FilmID;constraint:OnDelete:CASCADE"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (ListEntry) TableName() string { return "user_films" }

type ListModel struct {
	DB *gorm.DB
}

// lockUser takes a row lock on the owner of a list so that concurrent
// mutations of the same list run one after another.
func lockUser(tx *gorm.DB, userID int64) error {
	var user User

	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", userID).
		Take(&user).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func entriesForUser(tx *gorm.DB, userID int64) ([]*ListEntry, error) {
	entries := []*ListEntry{}

	if err := tx.
		Preload("Film").
		Where("user_id = ?", userID).
		Order("sort_order ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

// Append puts the film with the given name at the end of the user's list,
// creating the film in the catalog when needed. Adding a film that is already
// on the list changes nothing. The full list is returned sorted by order,
// together with whether a new entry was created.
func (m ListModel) Append(userID int64, filmName string) ([]*ListEntry, bool, error) {
	// context 3-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var (
		entries []*ListEntry
		created bool
	)

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		film, err := getOrCreateFilm(tx, filmName)
		if err != nil {
			return err
		}

		entries, err = entriesForUser(tx, userID)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if e.FilmID == film.ID {
				return nil
			}
		}

		entry := &ListEntry{
			UserID: userID,
			FilmID: film.ID,
			Order:  nextOrder(entries),
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		entry.Film = film
		entries = append(entries, entry)
		created = true

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return entries, created, nil
}

// Delete removes an entry from the user's list and closes the gap it leaves,
// returning the remaining entries. ErrRecordNotFound is returned when the
// entry does not exist or belongs to someone else.
func (m ListModel) Delete(userID, entryID int64) ([]*ListEntry, error) {
	// context 3-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var entries []*ListEntry

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		result := tx.Where("id = ? AND user_id = ?", entryID, userID).Delete(&ListEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecordNotFound
		}

		var err error
		entries, err = entriesForUser(tx, userID)
		if err != nil {
			return err
		}

		return updateOrders(tx, compact(entries))
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Reorder applies the sequence of entry ids submitted by a client: the
// position of an id becomes the new order of its entry. Only entries whose
// order changes are written.
func (m ListModel) Reorder(userID int64, ids []int64) ([]*ListEntry, error) {
	// context 3-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var ordered []*ListEntry

	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockUser(tx, userID); err != nil {
			return err
		}

		entries, err := entriesForUser(tx, userID)
		if err != nil {
			return err
		}

		var changed []*ListEntry
		ordered, changed = applyClientOrder(entries, ids)

		return updateOrders(tx, changed)
	})
	if err != nil {
		return nil, err
	}

	return ordered, nil
}

func (m ListModel) GetAllForUser(userID int64, filters Filters) ([]*ListEntry, Metadata, error) {
	// context 3-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var totalRecords int64
	if err := m.DB.
		WithContext(ctx).
		Model(&ListEntry{}).
		Where("user_id = ?", userID).
		Count(&totalRecords).Error; err != nil {
		return nil, Metadata{}, err
	}

	entries := []*ListEntry{}
	if err := m.DB.
		WithContext(ctx).
		Preload("Film").
		Where("user_id = ?", userID).
		Order("sort_order ASC, id ASC").
		Limit(filters.limit()).
		Offset(filters.offset()).
		Find(&entries).Error; err != nil {
		return nil, Metadata{}, err
	}

	return entries, CalculateMetadata(int(totalRecords), filters.Page, filters.PageSize), nil
}

func (m ListModel) Get(userID, entryID int64) (*ListEntry, error) {
	// context 3-second timeout deadline
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var entry ListEntry

	if err := m.DB.
		WithContext(ctx).
		Preload("Film").
		Where("id = ? AND user_id = ?", entryID, userID).
		Take(&entry).Error; err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &entry, nil
}
