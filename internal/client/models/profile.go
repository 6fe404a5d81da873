// Package models holds the DTOs exchanged with the campus backend and the
// profile snapshot cached in the secure store.
package models

import (
	"strconv"
	"strings"
)

// Profile is the authenticated identity as returned by login/register.
type Profile struct {
	Rut       string   `json:"rut"`
	FirstName string   `json:"nombres"`
	LastName  string   `json:"apellidos"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
}

// FullName joins first and last names.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// HasRole reports whether the profile carries role r.
func (p Profile) HasRole(r string) bool {
	for _, role := range p.Roles {
		if strings.EqualFold(role, r) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can't mutate shared state.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Roles = append([]string(nil), p.Roles...)
	return &c
}

// AuthResult is the body of a successful login or registration.
type AuthResult struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Rut       string `json:"rut" validate:"required,rut"`
	FirstName string `json:"nombres" validate:"required,max=100"`
	LastName  string `json:"apellidos" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// ValidRut checks a Chilean RUT in the form "12345678-5" (dots allowed,
// check digit 0-9 or K).
func ValidRut(rut string) bool {
	rut = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(rut), ".", ""))
	body, dv, ok := strings.Cut(rut, "-")
	if !ok || body == "" || len(dv) != 1 || len(body) > 9 {
		return false
	}

	n, err := strconv.Atoi(body)
	if err != nil || n <= 0 {
		return false
	}

	sum, mul := 0, 2
	for ; n > 0; n /= 10 {
		sum += (n % 10) * mul
		mul++
		if mul > 7 {
			mul = 2
		}
	}

	var want string
	switch r := 11 - sum%11; r {
	case 11:
		want = "0"
	case 10:
		want = "K"
	default:
		want = strconv.Itoa(r)
	}
	return dv == want
}
