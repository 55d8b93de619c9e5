package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/xavierca1/prospect-intake/internal/entity"
)

type ProspectRepository struct {
	DB *sqlx.DB
}

func NewProspectRepository(db *sqlx.DB) *ProspectRepository {
	return &ProspectRepository{DB: db}
}

func (r *ProspectRepository) Create(ctx context.Context, p *entity.Prospect) error {
	query := `
		INSERT INTO prospects (id, name, email, phone, company, goals, timeline, services, budget_range, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Email,
		p.Phone,
		p.Company,
		p.Goals,
		string(p.Timeline),
		pq.Array(p.Services),
		string(p.BudgetRange),
		p.CreatedAt,
	)
	return err
}

func (r *ProspectRepository) FindByID(ctx context.Context, id string) (*entity.Prospect, error) {
	query := `
		SELECT id, name, email, phone, company, goals, timeline, services, budget_range, created_at
		FROM prospects WHERE id = $1
	`
	var p entity.Prospect
	var timeline, budget string
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Company,
		&p.Goals,
		&timeline,
		pq.Array(&p.Services),
		&budget,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrProspectNotFound
		}
		return nil, err
	}
	p.Timeline = entity.Timeline(timeline)
	p.BudgetRange = entity.BudgetRange(budget)
	return &p, nil
}

func (r *ProspectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, entity.ErrProspectNotFound)
}

// DeleteOlderThan purges prospects created before cutoff and reports how many were removed.
func (r *ProspectRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM prospects WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
