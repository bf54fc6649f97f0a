// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// User is a stored account. PasswordHash is a bcrypt hash and never leaves the service boundary.
type User struct {
	ID             int64  // Store-assigned numeric identifier, embedded in tokens as a decimal string.
	Username       string // Login name, unique across accounts.
	Email          string // Contact email, unique across accounts.
	PasswordHash   string // Salted one-way hash of the password.
	FirstName      string
	LastName       string
	ProfilePicture string
}

// Principal returns the identity carried in tokens minted for this user.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username}
}

// Profile returns the public projection of the user, without the password hash.
func (u *User) Profile() UserProfile {
	return UserProfile{
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

// Principal is the authenticated identity derived from valid token claims.
type Principal struct {
	ID       int64
	Username string
}

// UserProfile is what an authenticated caller may see about themselves.
type UserProfile struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
}
