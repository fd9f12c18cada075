package domain

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one of the recognised account roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User models an identity record as owned by the credential store.
// PasswordHash is never serialised; the plaintext password exists only
// transiently inside the registration and login flows.
type User struct {
	ID           string `json:"id,omitempty"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Disabled     bool   `json:"disabled"`
}

// UserPatch is a partial update. Nil fields are left untouched
// ("exclude unset" semantics); a non-nil pointer replaces the field,
// and Password is re-hashed before it reaches storage.
type UserPatch struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Password *string `json:"password,omitempty"`
	Disabled *bool   `json:"disabled,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// Empty reports whether the patch carries no changes at all.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.FullName == nil && p.Password == nil &&
		p.Disabled == nil && p.Role == nil
}
