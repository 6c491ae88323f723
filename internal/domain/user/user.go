package user

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// emailPattern matches "something@something.something" with no spaces or
// extra @ signs. Deliberately loose; real verification happens at delivery.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is an immutable snapshot loaded from storage. Timezone is an IANA
// identifier and must resolve to a known zone.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Timezone string    `json:"timezone"`

	loc *time.Location
}

func New(id uuid.UUID, email, timezone string) (*User, error) {
	u := &User{ID: id, Email: email, Timezone: timezone}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return fmt.Errorf("id: must not be empty")
	}
	if !emailPattern.MatchString(u.Email) {
		return fmt.Errorf("email: %q is not a valid address", u.Email)
	}
	if u.Timezone == "" {
		return fmt.Errorf("timezone: must not be empty")
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: unknown IANA zone %q", u.Timezone)
	}
	u.loc = loc
	return nil
}

// Location returns the resolved zone. Falls back to UTC only when called on
// a user that skipped Validate, which loaders never do.
func (u *User) Location() *time.Location {
	if u.loc == nil {
		if loc, err := time.LoadLocation(u.Timezone); err == nil {
			u.loc = loc
		}
	}
	if u.loc == nil {
		return time.UTC
	}
	return u.loc
}
