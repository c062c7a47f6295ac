// Package models defines client-side data models shared by the API layer,
// the session store and the authentication flows.
package models

import "strings"

// User is the identity record returned by the API. The client never
// mutates it; a fresh copy comes from a re-fetch.
type User struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Verified  bool    `json:"verified"`
}

// Complete reports whether u carries the fields a session requires.
func (u *User) Complete() bool {
	return u != nil && strings.TrimSpace(u.ID) != "" && strings.TrimSpace(u.Email) != ""
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.FirstName != nil {
		v := *u.FirstName
		c.FirstName = &v
	}
	if u.LastName != nil {
		v := *u.LastName
		c.LastName = &v
	}
	return &c
}

// DisplayName joins the first and last name, falling back to the username.
func (u *User) DisplayName() string {
	parts := make([]string, 0, 2)
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if len(parts) == 0 {
		return u.Username
	}
	return strings.Join(parts, " ")
}
