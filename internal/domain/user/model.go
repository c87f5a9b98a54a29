package user

// User is a portal account loaded from configuration
type User struct {
	Username     string `json:"username"`
	DisplayName  string `json:"display_name,omitempty"`
	PasswordHash string `json:"-"`
}
