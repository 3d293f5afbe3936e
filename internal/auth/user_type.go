package auth

import "errors"

// ErrInvalidUserType indicates an unknown user type was provided.
var ErrInvalidUserType = errors.New("invalid user type")

// UserType determines which profile extension exists for a user. A user
// is either an employer (posts jobs for their pets) or a freelancer
// (applies to jobs), never both.
type UserType string

const (
	UserTypeEmployer   UserType = "employer"
	UserTypeFreelancer UserType = "freelancer"
)

// ParseUserType parses a raw user type string.
func ParseUserType(raw string) (UserType, error) {
	switch UserType(raw) {
	case UserTypeEmployer:
		return UserTypeEmployer, nil
	case UserTypeFreelancer:
		return UserTypeFreelancer, nil
	}

	return UserType(""), ErrInvalidUserType
}

func (t UserType) String() string {
	return string(t)
}

func (t *UserType) UnmarshalText(text []byte) error {
	parsed, err := ParseUserType(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
