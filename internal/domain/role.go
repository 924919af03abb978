package domain

import "fmt"

// Role is the closed set of participant roles. Nothing else exists.
type Role uint8

const (
	RoleHost Role = iota + 1
	RoleViewer
)

func ParseRole(s string) (Role, error) {
	switch s {
	case "host":
		return RoleHost, nil
	case "viewer":
		return RoleViewer, nil
	default:
		return 0, fmt.Errorf("%w: unknown role %q", ErrMalformedMessage, s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleViewer:
		return "viewer"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

func (r Role) Valid() bool { return r == RoleHost || r == RoleViewer }
