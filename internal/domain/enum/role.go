package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Role is the single role a user holds
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*r = Role(str)
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *Role) Scan(value interface{}) error {
	return scanStatus(value, r, RoleUser)
}
