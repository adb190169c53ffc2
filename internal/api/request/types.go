package request

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GuestLoginRequest is the request body for guest login
type GuestLoginRequest struct {
	DisplayName string `json:"display_name"`
}

// TelegramLoginRequest is the payload forwarded from the Telegram
// login widget
type TelegramLoginRequest struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
	AuthDate  int64  `json:"auth_date"`
	Hash      string `json:"hash"`
}

// RefreshRequest is the request body for refreshing tokens
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// CreateMatchRequest is the request body for creating a match
type CreateMatchRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	LocationURL string `json:"locationUrl"`
	MaxPlayers  int    `json:"maxPlayers"`
	Notes       string `json:"notes"`
}

// UpdateMatchRequest is the request body for a partial match update;
// omitted fields are left unchanged
type UpdateMatchRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Location    *string `json:"location"`
	LocationURL *string `json:"locationUrl"`
	MaxPlayers  *int    `json:"maxPlayers"`
	Notes       *string `json:"notes"`
}

// SetRoleRequest is the request body for changing a user's role
type SetRoleRequest struct {
	Role string `json:"role"`
}
