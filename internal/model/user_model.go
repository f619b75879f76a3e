// Package model defines the data structures used throughout the MAJI client.
package model

import (
	"encoding/json"
	"strings"
)

// Role is the closed set of roles the client distinguishes between.
type Role string

const (
	RoleAdmin Role = "Administrador"
	RoleUser  Role = "Usuario"
)

// ParseRole maps a backend role string onto a Role. Anything that is not the
// administrator role is treated as a regular user.
func ParseRole(s string) Role {
	if strings.TrimSpace(s) == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether r grants access to the administrator views.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// UnmarshalJSON parses the role at the JSON boundary so unknown values never
// reach the rest of the client.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// User is the full user record returned by the backend.
type User struct {
	ID         int    `json:"id" xml:"id,attr"`
	FullName   string `json:"nombre" xml:"nombre"`
	NationalID string `json:"cedula" xml:"cedula"`
	Phone      string `json:"telefono" xml:"telefono"`
	Password   string `json:"password,omitempty" xml:"-"`
	Role       Role   `json:"rol" xml:"rol"`
}

// UserRegistration is the payload for creating a user.
type UserRegistration struct {
	FullName   string `json:"nombre"`
	NationalID string `json:"cedula"`
	Password   string `json:"password"`
}

// Credentials is the payload for validating a login.
type Credentials struct {
	NationalID string `json:"cedula"`
	Password   string `json:"password"`
}
