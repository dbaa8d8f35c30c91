// Package actor carries the authenticated caller identity. It is passed
// explicitly into every engine entry point; there is no ambient security
// context.
package actor

type Role string

const (
	RoleBorrower Role = "BORROWER"
	RoleLender   Role = "LENDER"
)

func (r Role) Valid() bool { return r == RoleBorrower || r == RoleLender }

type Actor struct {
	// UserID is the public 32-char hex id of the authenticated user.
	// For lenders it doubles as the lender profile id.
	UserID string
	Role   Role
}

func (a Actor) IsBorrower() bool { return a.Role == RoleBorrower }
func (a Actor) IsLender() bool   { return a.Role == RoleLender }
