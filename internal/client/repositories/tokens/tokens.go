// Package tokens persists the access/refresh token pair in the metadata
// store. Both tokens are written in one transaction so readers never see
// an access token from one login paired with a refresh token from another.
package tokens

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
	"github.com/dmitrijs2005/salesdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/salesdesk/internal/common"
	"github.com/dmitrijs2005/salesdesk/internal/dbx"
)

// DB is what the repository needs from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.Beginner
}

type SQLiteRepository struct {
	db DB
}

func NewSQLiteRepository(db DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// AccessToken returns the stored access token or "" when none is stored.
func (r *SQLiteRepository) AccessToken(ctx context.Context) (string, error) {
	return r.get(ctx, r.db, common.AccessTokenKey)
}

// RefreshToken returns the stored refresh token or "" when none is stored.
func (r *SQLiteRepository) RefreshToken(ctx context.Context) (string, error) {
	return r.get(ctx, r.db, common.RefreshTokenKey)
}

// Pair reads both tokens inside one transaction.
func (r *SQLiteRepository) Pair(ctx context.Context) (models.TokenPair, error) {
	var pair models.TokenPair
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if pair.AccessToken, err = r.get(ctx, tx, common.AccessTokenKey); err != nil {
			return err
		}
		pair.RefreshToken, err = r.get(ctx, tx, common.RefreshTokenKey)
		return err
	})
	if err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

// SavePair overwrites the stored tokens. An empty RefreshToken keeps the
// currently stored one: the server did not rotate it.
func (r *SQLiteRepository) SavePair(ctx context.Context, pair models.TokenPair) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(pair.AccessToken)); err != nil {
			return err
		}
		if pair.RefreshToken == "" {
			return nil
		}
		return repo.Set(ctx, common.RefreshTokenKey, []byte(pair.RefreshToken))
	})
	if err != nil {
		return fmt.Errorf("save token pair: %w", err)
	}
	return nil
}

// Clear removes both tokens. Other metadata keys are left alone.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(r.db).Delete(ctx, common.AccessTokenKey, common.RefreshTokenKey); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) get(ctx context.Context, db dbx.DBTX, key string) (string, error) {
	v, err := metadata.NewSQLiteRepository(db).Get(ctx, key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}
