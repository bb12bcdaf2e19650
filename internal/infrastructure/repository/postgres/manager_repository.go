package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

type ManagerRepository struct {
	db *sqlx.DB
}

var managerSelectColumns = qb.Columns(managerTableModel{})

func NewManagerRepository(db *sqlx.DB) *ManagerRepository {
	return &ManagerRepository{db: db}
}

func (r *ManagerRepository) GetByID(ctx context.Context, managerID string) (manager.Manager, bool, error) {
	return getManager(ctx, r.db, managerID, false)
}

func (r *ManagerRepository) List(ctx context.Context) ([]manager.Manager, error) {
	query, args, err := qb.Select(managerSelectColumns...).From("managers").
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list managers query: %w", err)
	}

	var rows []managerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list managers: %w", err)
	}

	out := make([]manager.Manager, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func getManager(ctx context.Context, q sqlx.QueryerContext, managerID string, forUpdate bool) (manager.Manager, bool, error) {
	b := qb.Select(managerSelectColumns...).From("managers").
		Where(qb.Eq("public_id", managerID)).
		Limit(1)
	if forUpdate {
		b = b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return manager.Manager{}, false, fmt.Errorf("build select manager query: %w", err)
	}

	var row managerTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return manager.Manager{}, false, nil
		}
		return manager.Manager{}, false, fmt.Errorf("get manager: %w", err)
	}
	return row.toDomain(), true, nil
}

func (m managerTableModel) toDomain() manager.Manager {
	return manager.Manager{
		ID:               m.PublicID,
		SquadName:        m.SquadName,
		Wallet:           m.Wallet,
		CumulativePoints: m.CumulativePoints,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
