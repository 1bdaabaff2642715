package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleAttendant UserRole = "ATTENDANT"
)

type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

// Anonymous is used when the token gate is disabled.
var Anonymous = Principal{Role: UserRoleAdmin}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsAttendant() bool {
	return p.Role == UserRoleAttendant
}

func (p Principal) CanWriteTickets() bool {
	return p.IsAdmin() || p.IsAttendant()
}
