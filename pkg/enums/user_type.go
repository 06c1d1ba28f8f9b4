package enums

import "fmt"

// UserType maps to the user_type enum in Postgres.
type UserType string

const (
	UserTypeBuyer    UserType = "buyer"
	UserTypeSupplier UserType = "supplier"
	UserTypeAdmin    UserType = "admin"
)

var validUserTypes = []UserType{
	UserTypeBuyer,
	UserTypeSupplier,
	UserTypeAdmin,
}

func (u UserType) String() string {
	return string(u)
}

// IsValid reports whether the value matches the canonical user_type enum.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserType converts raw input into UserType.
func ParseUserType(value string) (UserType, error) {
	for _, candidate := range validUserTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}
