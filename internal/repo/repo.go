// Package repo holds one repository per persisted entity and the Store that
// groups them behind a transaction boundary.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdg-garage/camp-registration-api/internal/models"
	"gorm.io/gorm"
)

// Store groups the repositories that share one database handle. Inside
// Transaction every repository is bound to the same transaction.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Camps         CampRepository
	Churches      ChurchRepository
	Categories    CategoryRepository
	CustomFields  CustomFieldRepository
	Links         LinkRepository
	Registrations RegistrationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         &userRepo{db: db},
		Camps:         &campRepo{db: db},
		Churches:      &churchRepo{db: db},
		Categories:    &categoryRepo{db: db},
		CustomFields:  &customFieldRepo{db: db},
		Links:         &linkRepo{db: db},
		Registrations: &registrationRepo{db: db},
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// translate maps gorm errors onto the domain taxonomy.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
