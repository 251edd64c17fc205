package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

// Lead is a stored lead row.
type Lead struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	PhoneNumber  string
	CustomerName string
	Address      string
	ModeratorID  *uuid.UUID
	Status       string
	AssignedDate *time.Time
	CreatedAt    time.Time
}

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, business_id, phone_number, customer_name, address, moderator_id, status, assigned_date, created_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID,
		&lead.BusinessID,
		&lead.PhoneNumber,
		&lead.CustomerName,
		&lead.Address,
		&lead.ModeratorID,
		&lead.Status,
		&lead.AssignedDate,
		&lead.CreatedAt,
	)
	return lead, err
}

func collectLeads(rows pgx.Rows) ([]Lead, error) {
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) GetByID(ctx context.Context, businessID, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE id = $1 AND business_id = $2
	`, id, businessID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

// ListByBusiness returns every lead of the business, newest first.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE business_id = $1
		ORDER BY created_at DESC, id
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return collectLeads(rows)
}

// ListByModerator returns the leads assigned to one moderator.
func (r *Repository) ListByModerator(ctx context.Context, businessID, moderatorID uuid.UUID) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE business_id = $1 AND moderator_id = $2
		ORDER BY assigned_date DESC NULLS LAST, created_at DESC
	`, businessID, moderatorID)
	if err != nil {
		return nil, fmt.Errorf("list moderator leads: %w", err)
	}
	return collectLeads(rows)
}

// CreateMany upserts leads by id in a single transaction and returns how many
// rows were written. An existing id keeps its phone and takes the new
// assignment fields.
func (r *Repository) CreateMany(ctx context.Context, leads []Lead) (written int, err error) {
	if len(leads) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin create leads: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, lead := range leads {
		batch.Queue(`
			INSERT INTO leads (id, business_id, phone_number, customer_name, address, moderator_id, status, assigned_date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				customer_name = EXCLUDED.customer_name,
				address = EXCLUDED.address,
				moderator_id = EXCLUDED.moderator_id,
				status = EXCLUDED.status,
				assigned_date = EXCLUDED.assigned_date
			WHERE leads.business_id = EXCLUDED.business_id
		`, lead.ID, lead.BusinessID, lead.PhoneNumber, lead.CustomerName, lead.Address,
			lead.ModeratorID, lead.Status, lead.AssignedDate, lead.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	for range leads {
		tag, execErr := results.Exec()
		if execErr != nil {
			_ = results.Close()
			err = fmt.Errorf("insert lead: %w", execErr)
			return 0, err
		}
		written += int(tag.RowsAffected())
	}
	if err = results.Close(); err != nil {
		return 0, fmt.Errorf("close lead batch: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit create leads: %w", err)
	}
	return written, nil
}

// BulkAssign moves leads into a moderator's queue for the given day.
func (r *Repository) BulkAssign(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID, moderatorID uuid.UUID, assignedDate time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET moderator_id = $3, assigned_date = $4
		WHERE business_id = $1 AND id = ANY($2)
	`, businessID, ids, moderatorID, assignedDate)
	if err != nil {
		return 0, fmt.Errorf("bulk assign leads: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) UpdateStatus(ctx context.Context, businessID, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET status = $3
		WHERE business_id = $1 AND id = $2
	`, businessID, id, status)
	if err != nil {
		return fmt.Errorf("update lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE business_id = $1 AND id = $2`, businessID, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteMany(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE business_id = $1 AND id = ANY($2)`, businessID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete leads: %w", err)
	}
	return tag.RowsAffected(), nil
}
