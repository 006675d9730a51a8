package models

// AuthContext describes the acting user of a request. It is built from the
// session record and handed to every service call.
type AuthContext struct {
	UserID     int64
	Username   string
	Role       UserRole
	GestaoMode bool
}

// Authenticated reports whether the context belongs to a logged in user.
func (a AuthContext) Authenticated() bool {
	return a.UserID > 0
}

// HasGestaoRole reports whether the stored account role is gestao. This is
// independent of the PIN-unlocked mode.
func (a AuthContext) HasGestaoRole() bool {
	return a.Role == RoleGestao
}

// CanEdit reports whether the user may read for editing, update or delete a
// record owned by ownerID.
func (a AuthContext) CanEdit(ownerID int64) bool {
	if !a.Authenticated() {
		return false
	}
	return a.HasGestaoRole() || a.UserID == ownerID
}

// LoginForm carries the credentials posted by the login and registration pages.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}
