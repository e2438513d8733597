package valueobject

import "errors"

// Branch identifies a physical business location with independently
// tracked inventory. The business currently runs two branches, but the
// domain does not hard-code the set beyond the defaults below.
type Branch string

const (
	BranchBerhane Branch = "berhane"
	BranchGirmay  Branch = "girmay"
)

// DefaultBranches returns the branches the business operates today
func DefaultBranches() []Branch {
	return []Branch{BranchBerhane, BranchGirmay}
}

// IsKnown reports whether the branch is one the business operates
func (b Branch) IsKnown() bool {
	for _, known := range DefaultBranches() {
		if b == known {
			return true
		}
	}
	return false
}

// NewBranch validates and creates a Branch
func NewBranch(id string) (Branch, error) {
	if id == "" {
		return "", errors.New("branch ID cannot be empty")
	}
	return Branch(id), nil
}

// String returns the branch identifier
func (b Branch) String() string {
	return string(b)
}

// IsEmpty returns true if the branch is unset
func (b Branch) IsEmpty() bool {
	return b == ""
}
