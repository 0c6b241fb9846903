package apikey

import (
	"context"
	"errors"
	"fmt"

	"github.com/xy-planning-network/checkpoint"
	"gorm.io/gorm"
)

// A PostgresStore looks up Credentials in PostgreSQL.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore constructs a PostgresStore reading through db.
func NewPostgresStore(db *gorm.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) Lookup(ctx context.Context, key string) (Credential, error) {
	var c Credential
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Credential{}, fmt.Errorf("%w: api key", checkpoint.ErrNotExist)
	}

	if err != nil {
		return Credential{}, fmt.Errorf("%w: looking up api key: %s", checkpoint.ErrUnexpected, err)
	}

	return c, nil
}

// Create stores c, issuing its ID.
func (s *PostgresStore) Create(ctx context.Context, c *Credential) error {
	if c.Key == "" || c.Owner == "" {
		return fmt.Errorf("%w: key and owner are required", checkpoint.ErrMissingData)
	}

	return s.db.WithContext(ctx).Create(c).Error
}
