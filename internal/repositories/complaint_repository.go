package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"complaint-analytics/internal/entities"
)

// ComplaintRepositoryInterface is read-only access to the complaint ledger.
type ComplaintRepositoryInterface interface {
	FindMany(ctx context.Context, where sq.Sqlizer) ([]entities.Complaint, error)
}

type complaintRepository struct {
	db querier
}

func NewComplaintRepository(db querier) ComplaintRepositoryInterface {
	return &complaintRepository{db: db}
}

// raw_type keeps whatever the row carries; numeric ids win over the legacy name column.
var complaintColumns = []string{
	"c.id",
	"COALESCE(c.type_id::text, c.type_name, '') AS raw_type",
	"c.status",
	"c.priority",
	"c.ward_id",
	"c.submitted_on",
	"c.closed_on",
	"c.deadline",
	"c.assigned_to_id",
	"c.maintenance_team_id",
	"c.submitted_by_id",
	"c.contact_phone",
	"c.rating",
	"c.area",
}

func buildFindManyQuery(where sq.Sqlizer) (string, []interface{}, error) {
	b := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(complaintColumns...).
		From("complaints c").
		OrderBy("c.submitted_on", "c.id")
	if where != nil {
		b = b.Where(where)
	}
	return b.ToSql()
}

func (r *complaintRepository) FindMany(ctx context.Context, where sq.Sqlizer) ([]entities.Complaint, error) {
	query, args, err := buildFindManyQuery(where)
	if err != nil {
		return nil, fmt.Errorf("build complaints query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}

	complaints, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.Complaint])
	if err != nil {
		return nil, fmt.Errorf("scan complaints: %w", err)
	}
	return complaints, nil
}
