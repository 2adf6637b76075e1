package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"kidquiz-engine/internal/domain"
)

// PackageLoader loads package JSONB bundles from Postgres.
type PackageLoader struct {
	pool *pgxpool.Pool
}

func NewPackageLoader(pool *pgxpool.Pool) *PackageLoader {
	return &PackageLoader{pool: pool}
}

func (l *PackageLoader) LoadPackage(ctx context.Context, packageID string) (domain.PackageQuestions, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM packages WHERE id=$1`, packageID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PackageQuestions{}, domain.ErrPackageNotFound
	}
	if err != nil {
		return domain.PackageQuestions{}, fmt.Errorf("load package: %w", err)
	}
	var bundle domain.PackageQuestions
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return domain.PackageQuestions{}, fmt.Errorf("unmarshal package: %w", err)
	}
	return bundle, nil
}
