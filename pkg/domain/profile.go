package domain

// Profile is a registered auction house user.
type Profile struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Bio      string    `json:"bio,omitempty"`
	Avatar   Media     `json:"avatar"`
	Banner   Media     `json:"banner"`
	Credits  int       `json:"credits,omitempty"`
	Listings []Listing `json:"listings,omitempty"`
}

// Session is the persisted client state: the access token, the logged-in
// profile, and the cached credit balance shown while the authoritative
// value is being fetched.
type Session struct {
	AccessToken string  `json:"accessToken,omitempty"`
	Profile     Profile `json:"user"`
	Credits     int     `json:"userCredits"`
}

// LoggedIn reports whether the session holds an access token.
func (s Session) LoggedIn() bool {
	return s.AccessToken != ""
}
