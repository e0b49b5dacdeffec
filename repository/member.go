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

// psql builds queries with $N placeholders for postgres.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// ListActive returns all active members, optionally narrowed to coffee
// drinkers for rotation-facing callers.
func (r *MemberRepository) ListActive(ctx context.Context, coffeeDrinkersOnly bool) ([]entity.Member, error) {
	b := psql.
		Select(
			"id",
			"username",
			"full_name",
			"coffee_drinker",
			"active",
		).
		From("members").
		Where(sq.Eq{"active": true}).
		OrderBy("id")

	if coffeeDrinkersOnly {
		b = b.Where(sq.Eq{"coffee_drinker": true})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql: %w", err)
	}

	members := []entity.Member{}
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	return members, nil
}

// Create inserts a new active member. Returns ErrDuplicateUsername when the
// username is already taken, active or not.
func (r *MemberRepository) Create(ctx context.Context, p entity.NewMemberPayload) error {
	coffeeDrinker := true
	if p.CoffeeDrinker != nil {
		coffeeDrinker = *p.CoffeeDrinker
	}

	query, args, err := psql.
		Insert("members").
		Columns(
			"username",
			"full_name",
			"coffee_drinker",
			"active",
		).
		Values(
			p.Username,
			p.FullName,
			coffeeDrinker,
			true,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("to sql: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); isUniqueViolation(err) {
		return ErrDuplicateUsername
	} else if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	return nil
}

// Update applies the fields present in the payload to the matching member.
// The row is locked for the duration of the transaction so a concurrent
// update cannot be lost.
func (r *MemberRepository) Update(ctx context.Context, p entity.UpdateMemberPayload) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args, err := psql.
		Select("id").
		From("members").
		Where(sq.Eq{"id": p.ID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("to sql: %w", err)
	}

	var id int
	if err := tx.GetContext(ctx, &id, query, args...); errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("get: %w", err)
	}

	ub := psql.Update("members").Where(sq.Eq{"id": p.ID})
	if p.Username != nil {
		ub = ub.Set("username", *p.Username)
	}
	if p.FullName != nil {
		ub = ub.Set("full_name", *p.FullName)
	}
	if p.CoffeeDrinker != nil {
		ub = ub.Set("coffee_drinker", *p.CoffeeDrinker)
	}
	if p.Active != nil {
		ub = ub.Set("active", *p.Active)
	}

	query, args, err = ub.ToSql()
	if err != nil {
		return fmt.Errorf("to sql: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); isUniqueViolation(err) {
		return ErrDuplicateUsername
	} else if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Deactivate soft-deletes a member. Deactivating an already-inactive member
// is a no-op; only a missing id is an error.
func (r *MemberRepository) Deactivate(ctx context.Context, id int) error {
	query, args, err := psql.
		Update("members").
		Set("active", false).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("to sql: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
