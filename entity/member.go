package entity

// Member is a row in the members table. Members are never deleted;
// deactivation flips the active flag so duty history stays intact.
type Member struct {
	ID            int     `db:"id" json:"id"`
	Username      string  `db:"username" json:"username"`
	FullName      *string `db:"full_name" json:"full_name"`
	CoffeeDrinker bool    `db:"coffee_drinker" json:"coffee_drinker"`
	Active        bool    `db:"active" json:"active"`
}

// NewMemberPayload is the body of POST /api/members.
// coffee_drinker defaults to true when omitted.
type NewMemberPayload struct {
	Username      string  `json:"username" validate:"required,max=50"`
	FullName      *string `json:"full_name" validate:"omitempty,max=100"`
	CoffeeDrinker *bool   `json:"coffee_drinker"`
}

// UpdateMemberPayload is the body of PUT /api/members. Only the fields
// present in the payload are written.
type UpdateMemberPayload struct {
	ID            int     `json:"id" validate:"required,gt=0"`
	Username      *string `json:"username" validate:"omitempty,min=1,max=50"`
	FullName      *string `json:"full_name" validate:"omitempty,max=100"`
	CoffeeDrinker *bool   `json:"coffee_drinker"`
	Active        *bool   `json:"active"`
}

// HasChanges reports whether the payload carries at least one field to write.
func (p UpdateMemberPayload) HasChanges() bool {
	return p.Username != nil || p.FullName != nil || p.CoffeeDrinker != nil || p.Active != nil
}

// DeactivateMemberPayload is the body of DELETE /api/members.
type DeactivateMemberPayload struct {
	ID int `json:"id" validate:"required,gt=0"`
}
