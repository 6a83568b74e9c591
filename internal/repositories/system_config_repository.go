package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"complaint-analytics/internal/entities"
)

// SystemConfigRepositoryInterface reads the key/value configuration store. Values are
// read fresh on every call.
type SystemConfigRepositoryInterface interface {
	FindByPrefix(ctx context.Context, prefix string) (map[string]string, error)
	FindByKeys(ctx context.Context, keys ...string) (map[string]string, error)
}

type systemConfigRepository struct {
	db querier
}

func NewSystemConfigRepository(db querier) SystemConfigRepositoryInterface {
	return &systemConfigRepository{db: db}
}

func buildPrefixQuery(prefix string) (string, []interface{}, error) {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("key", "value").
		From("system_config").
		Where(sq.Like{"key": escapeLike(prefix) + "%"}).
		ToSql()
}

// FindByPrefix returns matching rows keyed with the prefix stripped.
func (r *systemConfigRepository) FindByPrefix(ctx context.Context, prefix string) (map[string]string, error) {
	query, args, err := buildPrefixQuery(prefix)
	if err != nil {
		return nil, fmt.Errorf("build config query: %w", err)
	}
	rows, err := r.collect(ctx, query, args)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key[len(prefix):]] = row.Value
	}
	return out, nil
}

func (r *systemConfigRepository) FindByKeys(ctx context.Context, keys ...string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("key", "value").
		From("system_config").
		Where(sq.Eq{"key": keys}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build config query: %w", err)
	}
	rows, err := r.collect(ctx, query, args)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *systemConfigRepository) collect(ctx context.Context, query string, args []interface{}) ([]entities.SystemConfig, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query system config: %w", err)
	}
	configs, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.SystemConfig])
	if err != nil {
		return nil, fmt.Errorf("scan system config: %w", err)
	}
	return configs, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '%' || ch == '_' || ch == '\\' {
			out = append(out, '\\')
		}
		out = append(out, ch)
	}
	return string(out)
}
