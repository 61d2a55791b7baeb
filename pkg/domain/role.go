package domain

import derrors "complimart/pkg/domain-errors"

// Role is a domain value that partitions notification state between the two
// marketplace populations.
// Invariant: the value must be one of the supported roles.
//
// Usage: construct via ParseRole at trust boundaries to enforce the allowlist;
// direct casting bypasses validation.
type Role string

// Supported roles.
const (
	RoleVendor Role = "vendor"
	RoleBuyer  Role = "buyer"
)

// validRoles is the single source of truth for valid roles.
var validRoles = map[Role]bool{
	RoleVendor: true,
	RoleBuyer:  true,
}

// ParseRole constructs a Role from external input (JWT claims, request bodies).
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported; no
// other errors are expected.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", derrors.New(derrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", derrors.New(derrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// OwnsDocuments reports whether this role uploads compliance documents and is
// therefore eligible for the one-time bootstrap feed generation.
func (r Role) OwnsDocuments() bool {
	return r == RoleVendor
}
