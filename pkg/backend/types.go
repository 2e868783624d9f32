package backend

// Provider identifies which kind of identifier a user signs in with.
type Provider string

const (
	ProviderEmail    Provider = "email"
	ProviderPhone    Provider = "phone"
	ProviderUsername Provider = "username"
)

// ContactInformation is a contact channel attached to an identifier.
type ContactInformation struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type"`
	Value      string `json:"value"`
	IsVerified bool   `json:"is_verified"`
}

// Identifier is one way a user can be identified.
type Identifier struct {
	ID                  string               `json:"id"`
	Provider            Provider             `json:"provider"`
	Logo                string               `json:"logo"`
	Value               string               `json:"value"`
	IsCurrent           bool                 `json:"is_current"`
	IsPasswordEnabled   bool                 `json:"is_password_enabled"`
	IsVerified          bool                 `json:"is_verified"`
	ContactInformations []ContactInformation `json:"contact_informations"`
	UpdatedAt           int64                `json:"updated_at"`
	CreatedAt           int64                `json:"created_at"`
}

// User is a user of the tenant's userbase.
type User struct {
	ID          string       `json:"id"`
	ExternalID  string       `json:"external_id"`
	Status      string       `json:"status"`
	Identifiers []Identifier `json:"identifiers"`
	UpdatedAt   int64        `json:"updated_at"`
	CreatedAt   int64        `json:"created_at"`
}

// SessionUser is the owner of a session.
type SessionUser struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
}

// ActivityMetadata records what the API observed about the device that
// created a session.
type ActivityMetadata struct {
	IsMobile       bool    `json:"is_mobile,omitempty"`
	UserAgent      *string `json:"user_agent,omitempty"`
	BrowserName    *string `json:"browser_name,omitempty"`
	BrowserVersion *string `json:"browser_version,omitempty"`
	DeviceType     *string `json:"device_type,omitempty"`
	IP             *string `json:"ip,omitempty"`
	Country        *string `json:"country,omitempty"`
	City           *string `json:"city,omitempty"`
}

// Token is a minted credential with the cookie domain it belongs to.
type Token struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
	Domain    string `json:"domain"`
}

// Session is a user session. Token and RefreshToken are only populated on
// operations that mint them.
type Session struct {
	ID           string            `json:"id"`
	User         SessionUser       `json:"user"`
	Status       string            `json:"status"`
	Metadata     *ActivityMetadata `json:"metadata"`
	Identifiers  []Identifier      `json:"identifiers"`
	Token        *Token            `json:"token,omitempty"`
	RefreshToken *Token            `json:"refresh_token,omitempty"`
	ExpiresAt    *int64            `json:"expires_at"`
	RevokedAt    *int64            `json:"revoked_at"`
	UpdatedAt    int64             `json:"updated_at"`
	CreatedAt    int64             `json:"created_at"`
}

// Pagination narrows list operations to a page of results.
type Pagination struct {
	Page     int
	PageSize int
}

// MessageItem is the payload of operations that only acknowledge.
type MessageItem struct {
	Message string `json:"message"`
}
