package model

// IdentitySource records how an acting identity was established
type IdentitySource string

const (
	SourceTelegram IdentitySource = "telegram"
	SourceGuest    IdentitySource = "guest"
	SourceUser     IdentitySource = "user"
)

// Identity is the party performing membership operations.
// Guests are created client-side with a random id; telegram and user
// identities are assigned by the auth backend.
type Identity struct {
	ID          string
	DisplayName string
	Username    string
	Source      IdentitySource
}

// CanRemoveOthers reports whether this identity may remove players other
// than itself. Guests may only manage their own membership.
func (i Identity) CanRemoveOthers() bool {
	return i.Source == SourceTelegram || i.Source == SourceUser
}

// AsPlayer synthesizes a roster entry for this identity.
// Status is left empty for the roster engine to assign.
func (i Identity) AsPlayer() Player {
	return Player{
		ID:       i.ID,
		Name:     i.DisplayName,
		Username: i.Username,
		Source:   i.Source,
	}
}
