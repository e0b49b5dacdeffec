package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/officechores/duty-api/entity"
)

func TestDutyAssignmentRepository_List(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t)

	ctx := context.Background()
	r := NewDutyAssignmentRepository(testDB)
	mr := NewMemberRepository(testDB)

	if err := mr.bulkCreate(ctx, []string{"alice", "bob"}); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		memberID := i%2 + 1
		if err := r.insertForTest(ctx, memberID, entity.DutyTypeCoffee, base.Add(time.Duration(i)*time.Minute), 1); err != nil {
			t.Fatalf("Should not be fail: %v.", err)
		}
	}

	duties, err := r.List(ctx, 3)
	if err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if got, want := len(duties), 3; got != want {
		t.Fatalf("Duty count is %d, but want %d.", got, want)
	}
	// Newest first.
	if got, want := duties[0].DutyID, "5"; got != want {
		t.Fatalf("DutyID is %q, but want %q.", got, want)
	}
	if got, want := duties[0].Name, "Test Name: 1"; got != want {
		t.Fatalf("Name is %q, but want %q.", got, want)
	}
	if duties[0].Completed {
		t.Fatal("Completed should default to false.")
	}

	duties, err = r.List(ctx, 100)
	if err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if got, want := len(duties), 5; got != want {
		t.Fatalf("Duty count is %d, but want %d.", got, want)
	}
}

func TestDutyAssignmentRepository_List_SkipsInactiveMembers(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t)

	ctx := context.Background()
	r := NewDutyAssignmentRepository(testDB)
	mr := NewMemberRepository(testDB)

	if err := mr.bulkCreate(ctx, []string{"alice", "bob"}); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	for memberID := 1; memberID <= 2; memberID++ {
		if err := r.insertForTest(ctx, memberID, entity.DutyTypeFridge, time.Now(), 1); err != nil {
			t.Fatalf("Should not be fail: %v.", err)
		}
	}

	if err := mr.Deactivate(ctx, 2); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	duties, err := r.List(ctx, 100)
	if err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if got, want := len(duties), 1; got != want {
		t.Fatalf("Duty count is %d, but want %d.", got, want)
	}
	if got, want := duties[0].UserID, "1"; got != want {
		t.Fatalf("UserID is %q, but want %q.", got, want)
	}
}

func TestDutyAssignmentRepository_MostRecentByType(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t)

	ctx := context.Background()
	r := NewDutyAssignmentRepository(testDB)
	mr := NewMemberRepository(testDB)

	if err := mr.bulkCreate(ctx, []string{"alice"}); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	duty, err := r.MostRecentByType(ctx, entity.DutyTypeCoffee)
	if err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if duty != nil {
		t.Fatalf("Duty is %v, but want nil.", duty)
	}

	base := time.Now().Add(-time.Hour)
	if err := r.insertForTest(ctx, 1, entity.DutyTypeCoffee, base, 1); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if err := r.insertForTest(ctx, 1, entity.DutyTypeCoffee, base.Add(time.Minute), 1); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if err := r.insertForTest(ctx, 1, entity.DutyTypeFridge, base.Add(2*time.Minute), 1); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	duty, err = r.MostRecentByType(ctx, entity.DutyTypeCoffee)
	if err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if duty == nil {
		t.Fatal("Duty should not be nil.")
	}
	if got, want := duty.DutyID, "2"; got != want {
		t.Fatalf("DutyID is %q, but want %q.", got, want)
	}
	if got, want := duty.DutyType, entity.DutyTypeCoffee; got != want {
		t.Fatalf("DutyType is %q, but want %q.", got, want)
	}
}

func TestDutyAssignmentRepository_SetCompleted(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t)

	ctx := context.Background()
	r := NewDutyAssignmentRepository(testDB)
	mr := NewMemberRepository(testDB)

	if err := mr.bulkCreate(ctx, []string{"alice"}); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if err := r.insertForTest(ctx, 1, entity.DutyTypeCoffee, time.Now(), 1); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	if err := r.SetCompleted(ctx, 1, entity.DutyTypeCoffee, true); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	duties, err := r.List(ctx, 10)
	if err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if !duties[0].Completed {
		t.Fatal("Completed should be true.")
	}
	if duties[0].CompletedTimestamp == nil {
		t.Fatal("CompletedTimestamp should not be nil.")
	}

	// Completing twice is idempotent.
	if err := r.SetCompleted(ctx, 1, entity.DutyTypeCoffee, true); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	// Round trip back to uncompleted.
	if err := r.SetCompleted(ctx, 1, entity.DutyTypeCoffee, false); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	duties, err = r.List(ctx, 10)
	if err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if duties[0].Completed {
		t.Fatal("Completed should be false.")
	}
	if duties[0].CompletedTimestamp != nil {
		t.Fatalf("CompletedTimestamp is %v, but want nil.", *duties[0].CompletedTimestamp)
	}
}

func TestDutyAssignmentRepository_SetCompleted_NotFound(t *testing.T) {
	requireTestDB(t)
	cleanupTables(t)

	ctx := context.Background()
	r := NewDutyAssignmentRepository(testDB)
	mr := NewMemberRepository(testDB)

	if err := mr.bulkCreate(ctx, []string{"alice"}); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if err := r.insertForTest(ctx, 1, entity.DutyTypeCoffee, time.Now(), 1); err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}

	// Unknown id.
	if err := r.SetCompleted(ctx, 42, entity.DutyTypeCoffee, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Error is %v, but want ErrNotFound.", err)
	}

	// Right id, wrong type.
	if err := r.SetCompleted(ctx, 1, entity.DutyTypeFridge, true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Error is %v, but want ErrNotFound.", err)
	}

	// The row is untouched.
	duties, err := r.List(ctx, 10)
	if err != nil {
		t.Fatalf("Should not be fail: %v.", err)
	}
	if duties[0].Completed {
		t.Fatal("Completed should still be false.")
	}
}

// For test use only.
func (r *DutyAssignmentRepository) insertForTest(ctx context.Context, memberID int, dutyType entity.DutyType, assignedAt time.Time, cycleID int) error {
	query, args, err := psql.
		Insert("duty_assignments").
		Columns(
			"member_id",
			"duty_type",
			"assigned_at",
			"cycle_id",
		).
		Values(
			memberID,
			dutyType,
			assignedAt,
			cycleID,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("to sql: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	return nil
}
