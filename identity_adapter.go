package auth

var _ Identity = UserIdentity{}

// UserIdentity adapts a PublicUser into the Identity interface for token generation.
type UserIdentity struct {
	user *PublicUser
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *PublicUser) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}
