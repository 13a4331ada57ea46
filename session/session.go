package session

// Mode is the visitor's operating context
type Mode string

const (
	ModeCustomer Mode = "customer"
	ModeSeller   Mode = "seller"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeCustomer || m == ModeSeller
}

// User is the profile returned by the API on sign-in
type User struct {
	ID                      string `json:"id"`
	Name                    string `json:"name"`
	Email                   string `json:"email"`
	Image                   string `json:"image"`
	IsSellerProfileApproved bool   `json:"isSellerProfileApproved"`
}

// Session is the persisted visitor state. HasHydrated is never persisted.
type Session struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
	Mode         Mode   `json:"mode"`
	IsLoggedIn   bool   `json:"isLoggedIn"`
	HasHydrated  bool   `json:"-"`
}

// Auth is the argument of Store.SetAuth
type Auth struct {
	AccessToken  string
	RefreshToken string
	User         User
	Mode         Mode
}

// Empty returns the logged-out default state
func Empty() Session {
	return Session{Mode: ModeCustomer}
}

// IsSeller reports whether the session is logged in and operating in seller mode
func (s Session) IsSeller() bool {
	return s.IsLoggedIn && s.Mode == ModeSeller
}

// SellerApproved reports whether the current user may switch to seller mode
func (s Session) SellerApproved() bool {
	return s.User != nil && s.User.IsSellerProfileApproved
}

// UserID returns the current user's id or "" when logged out
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

func (s Session) clone() Session {
	c := s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	return c
}
