package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Role is the user category the backend reports; it only selects a dashboard.
type Role string

const (
	RoleStudent     Role = "student"
	RoleFaculty     Role = "faculty"
	RoleMaintenance Role = "maintenance"
	RoleAdmin       Role = "admin"
)

// Roles lists every role that owns a dashboard.
var Roles = []Role{RoleStudent, RoleFaculty, RoleMaintenance, RoleAdmin}

// Valid reports whether r is one of the known roles. Matching is exact.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

var ErrUserNotObject = errors.New("user record is not a JSON object")

// User is the profile record returned by the campus backend and kept in the
// session store between requests. The record is kept whole, as the backend
// sent it; the accessors read the handful of fields the client interprets.
type User map[string]any

// ParseUser decodes a JSON object into a User. Numbers keep their literal
// form so the record re-encodes unchanged. null yields a nil User.
func ParseUser(data []byte) (User, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '{' {
		return nil, ErrUserNotObject
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var u User
	if err := dec.Decode(&u); err != nil {
		return nil, err
	}
	return u, nil
}

// Field renders a scalar field as text. Missing, null and nested values
// yield "".
func (u User) Field(key string) string {
	switch v := u[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func (u User) ID() string    { return u.Field("id") }
func (u User) Name() string  { return u.Field("name") }
func (u User) Email() string { return u.Field("email") }
func (u User) Role() Role    { return Role(u.Field("role")) }

// DisplayName falls back to the email local part when no name is known.
func (u User) DisplayName() string {
	if name := u.Name(); name != "" {
		return name
	}
	email := u.Email()
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

// AuthResult is the interpreted body of a login or signup response. Raw
// keeps the untouched JSON so callers can read fields this type does not
// model.
type AuthResult struct {
	Token   string          `json:"token,omitempty"`
	User    User            `json:"user,omitempty"`
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"-"`
}
