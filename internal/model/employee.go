package model

import (
	"fmt"
	"time"
)

// Employee is a minimal identity record created lazily the first time a user
// logs a time entry.
type Employee struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	Subject     string
	Email       string
	DisplayName string
}

// EmployeeName resolves the name to record for a lazily created employee.
func (p Principal) EmployeeName() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return fmt.Sprintf("User %s", p.Subject)
}

// EmployeeEmail resolves the stable identity key for the employee record.
func (p Principal) EmployeeEmail() string {
	if p.Email != "" {
		return p.Email
	}
	return fmt.Sprintf("%s@timeflow.local", p.Subject)
}
