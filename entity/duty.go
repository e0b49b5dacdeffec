package entity

import (
	"strconv"
	"time"
)

// DutyType is the kind of chore an assignment covers.
type DutyType string

const (
	DutyTypeCoffee DutyType = "coffee"
	DutyTypeFridge DutyType = "fridge"
)

// Valid reports whether t is a recognized duty type.
func (t DutyType) Valid() bool {
	return t == DutyTypeCoffee || t == DutyTypeFridge
}

// DutyAssignment is a row in the duty_assignments table. Assignments are
// created by the rotation process outside this service; the API only reads
// them and toggles completion.
type DutyAssignment struct {
	ID          int        `db:"id"`
	MemberID    int        `db:"member_id"`
	DutyType    DutyType   `db:"duty_type"`
	AssignedAt  time.Time  `db:"assigned_at"`
	CycleID     int        `db:"cycle_id"`
	Completed   bool       `db:"completed"`
	CompletedAt *time.Time `db:"completed_at"`
}

// DutyResponse is the wire shape of an assignment joined with member
// identity. IDs are serialized as strings and timestamps as RFC 3339,
// which is what the frontend consumes.
type DutyResponse struct {
	DutyID             string   `json:"duty_id"`
	DutyType           DutyType `json:"duty_type"`
	UserID             string   `json:"user_id"`
	Username           string   `json:"username"`
	Name               string   `json:"name"`
	SelectionTimestamp string   `json:"selection_timestamp"`
	CycleID            int      `json:"cycle_id"`
	Completed          bool     `json:"completed"`
	CompletedTimestamp *string  `json:"completed_timestamp"`
}

// NewDutyResponse builds the wire shape from an assignment and the owning
// member's identity. Name falls back to the username when no full name is set.
func NewDutyResponse(a DutyAssignment, username string, fullName *string) DutyResponse {
	name := username
	if fullName != nil && *fullName != "" {
		name = *fullName
	}

	var completedAt *string
	if a.CompletedAt != nil {
		s := a.CompletedAt.Format(time.RFC3339)
		completedAt = &s
	}

	return DutyResponse{
		DutyID:             strconv.Itoa(a.ID),
		DutyType:           a.DutyType,
		UserID:             strconv.Itoa(a.MemberID),
		Username:           username,
		Name:               name,
		SelectionTimestamp: a.AssignedAt.Format(time.RFC3339),
		CycleID:            a.CycleID,
		Completed:          a.Completed,
		CompletedTimestamp: completedAt,
	}
}

// DutyCompletionPayload is the body of the complete/uncomplete endpoints.
// duty_id arrives as a string from the frontend.
type DutyCompletionPayload struct {
	DutyID   string   `json:"duty_id" validate:"required,number"`
	DutyType DutyType `json:"duty_type" validate:"required,oneof=coffee fridge"`
}
