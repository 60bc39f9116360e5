// README: Acting identity passed explicitly to every operation that needs it.
package types

import "fmt"

type ID string

// Role is a closed set; switches over it should handle every value rather
// than branching on raw strings.
type Role int

const (
	RolePassenger Role = iota
	RoleDriver
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RolePassenger:
		return "passenger"
	case RoleDriver:
		return "driver"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "passenger":
		return RolePassenger, nil
	case "driver":
		return RoleDriver, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Actor identifies who is performing an operation. There is no ambient
// "current user"; handlers build an Actor and pass it down.
type Actor struct {
	ID   ID
	Role Role
}
