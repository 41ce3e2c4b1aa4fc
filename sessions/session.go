package sessions

// Role scopes a session to one of the two portals.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTenant Role = "tenant"
)

// User identifies who is signed in. For admins ID is "admin", for tenants
// it is the tenant ID.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session is the authenticated identity held for the current client and
// persisted across restarts.
type Session struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Role            *Role  `json:"role"`
	User            *User  `json:"user"`
	Token           string `json:"token,omitempty"` // Bearer credential for API calls
}

// Empty is the unauthenticated session.
func Empty() Session {
	return Session{}
}

// New builds an authenticated session.
func New(role Role, user User, token string) Session {
	return Session{
		IsAuthenticated: true,
		Role:            &role,
		User:            &user,
		Token:           token,
	}
}

// Valid reports whether the record is structurally sound: either it is
// unauthenticated, or it carries a user with a non-empty ID.
func (s Session) Valid() bool {
	if !s.IsAuthenticated {
		return true
	}
	return s.User != nil && s.User.ID != ""
}

// RoleValue returns the role, or "" when unset.
func (s Session) RoleValue() Role {
	if s.Role == nil {
		return ""
	}
	return *s.Role
}

// Clone returns a deep copy so readers never share pointers with the owner.
func (s Session) Clone() Session {
	c := s
	if s.Role != nil {
		r := *s.Role
		c.Role = &r
	}
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return c
}

func (s Session) Equal(o Session) bool {
	if s.IsAuthenticated != o.IsAuthenticated || s.Token != o.Token || s.RoleValue() != o.RoleValue() {
		return false
	}
	if (s.User == nil) != (o.User == nil) {
		return false
	}
	return s.User == nil || *s.User == *o.User
}
