package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/officechores/duty-api/entity"
)

type DutyAssignmentRepository struct {
	db *sqlx.DB
}

func NewDutyAssignmentRepository(db *sqlx.DB) *DutyAssignmentRepository {
	return &DutyAssignmentRepository{db: db}
}

type dutyRow struct {
	entity.DutyAssignment
	Username string  `db:"username"`
	FullName *string `db:"full_name"`
}

func dutySelect() sq.SelectBuilder {
	return psql.
		Select(
			"d.id",
			"d.member_id",
			"d.duty_type",
			"d.assigned_at",
			"d.cycle_id",
			"d.completed",
			"d.completed_at",
			"m.username",
			"m.full_name",
		).
		From("duty_assignments d").
		Join("members m ON d.member_id = m.id").
		Where(sq.Eq{"m.active": true})
}

// List returns up to limit assignments for active members, newest first.
func (r *DutyAssignmentRepository) List(ctx context.Context, limit int) ([]entity.DutyResponse, error) {
	query, args, err := dutySelect().
		OrderBy("d.assigned_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql: %w", err)
	}

	var rows []dutyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	duties := make([]entity.DutyResponse, 0, len(rows))
	for _, row := range rows {
		duties = append(duties, entity.NewDutyResponse(row.DutyAssignment, row.Username, row.FullName))
	}

	return duties, nil
}

// MostRecentByType returns the newest assignment of the given type, or nil
// when no such assignment exists.
func (r *DutyAssignmentRepository) MostRecentByType(ctx context.Context, dutyType entity.DutyType) (*entity.DutyResponse, error) {
	query, args, err := dutySelect().
		Where(sq.Eq{"d.duty_type": dutyType}).
		OrderBy("d.assigned_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql: %w", err)
	}

	var row dutyRow
	if err := r.db.GetContext(ctx, &row, query, args...); errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}

	duty := entity.NewDutyResponse(row.DutyAssignment, row.Username, row.FullName)

	return &duty, nil
}

// SetCompleted marks the assignment matching (id, dutyType) as completed or
// uncompleted. The row is locked first so two concurrent toggles cannot lose
// an update. Re-applying the current state is a no-op, not an error.
func (r *DutyAssignmentRepository) SetCompleted(ctx context.Context, id int, dutyType entity.DutyType, completed bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args, err := psql.
		Select("id").
		From("duty_assignments").
		Where(sq.Eq{
			"id":        id,
			"duty_type": dutyType,
		}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("to sql: %w", err)
	}

	var foundID int
	if err := tx.GetContext(ctx, &foundID, query, args...); errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("get: %w", err)
	}

	ub := psql.
		Update("duty_assignments").
		Set("completed", completed).
		Where(sq.Eq{"id": id})
	if completed {
		ub = ub.Set("completed_at", sq.Expr("now()"))
	} else {
		ub = ub.Set("completed_at", nil)
	}

	query, args, err = ub.ToSql()
	if err != nil {
		return fmt.Errorf("to sql: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
