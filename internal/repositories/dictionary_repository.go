package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"complaint-analytics/internal/entities"
)

// DictionaryRepositoryInterface reads the reference tables the reports label with.
type DictionaryRepositoryInterface interface {
	FindWards(ctx context.Context) ([]entities.Ward, error)
	FindComplaintTypes(ctx context.Context) ([]entities.ComplaintType, error)
	// FindTeam lists officers and maintenance workers, optionally of one ward.
	FindTeam(ctx context.Context, wardID *uint64) ([]entities.TeamMember, error)
}

type dictionaryRepository struct {
	db querier
}

func NewDictionaryRepository(db querier) DictionaryRepositoryInterface {
	return &dictionaryRepository{db: db}
}

func (r *dictionaryRepository) FindWards(ctx context.Context) ([]entities.Ward, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id", "code", "name").
		From("wards").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build wards query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query wards: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.Ward])
}

func (r *dictionaryRepository) FindComplaintTypes(ctx context.Context) ([]entities.ComplaintType, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id", "code", "name", "aliases").
		From("complaint_types").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build complaint types query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query complaint types: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.ComplaintType])
}

func buildTeamQuery(wardID *uint64) (string, []interface{}, error) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id", "name", "role", "COALESCE(ward_id, 0) AS ward_id", "is_active").
		From("team_members").
		Where(sq.Eq{"role": []string{"ward_officer", "maintenance"}}).
		OrderBy("id")
	if wardID != nil {
		b = b.Where(sq.Eq{"ward_id": *wardID})
	}
	return b.ToSql()
}

func (r *dictionaryRepository) FindTeam(ctx context.Context, wardID *uint64) ([]entities.TeamMember, error) {
	query, args, err := buildTeamQuery(wardID)
	if err != nil {
		return nil, fmt.Errorf("build team query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query team: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.TeamMember])
}
