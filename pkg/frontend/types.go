package frontend

// Provider identifies which kind of identifier a user signs in with.
type Provider string

const (
	ProviderEmail    Provider = "email"
	ProviderPhone    Provider = "phone"
	ProviderUsername Provider = "username"
)

// ContactInformation is a contact channel attached to an identifier.
type ContactInformation struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Value      string `json:"value"`
	IsVerified bool   `json:"is_verified"`
}

// Identifier is one way a user can be identified, such as an email
// address or a username.
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

// SessionToken is the access token minted for a session, along with the
// cookie domain it should be stored under.
type SessionToken struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
	Domain    string `json:"domain"`
}

// SessionItem is a session as listed by the API. Token is only populated
// on operations that mint a new access token.
type SessionItem struct {
	ID          string            `json:"id"`
	User        SessionUser       `json:"user"`
	Status      string            `json:"status"`
	Metadata    *ActivityMetadata `json:"metadata"`
	Identifiers []Identifier      `json:"identifiers"`
	Token       *SessionToken     `json:"token,omitempty"`
	ExpiresAt   *int64            `json:"expires_at"`
	RevokedAt   *int64            `json:"revoked_at"`
	UpdatedAt   int64             `json:"updated_at"`
	CreatedAt   int64             `json:"created_at"`
}

// ComponentConfiguration carries OAuth wiring for button components.
type ComponentConfiguration struct {
	ClientID    *string  `json:"client_id"`
	RedirectURI *string  `json:"redirect_uri"`
	Scopes      []string `json:"scopes"`
}

// AttemptComponent describes one UI element a verification attempt asks
// the caller to render, such as a code input or an OAuth button.
type AttemptComponent struct {
	Type          string                  `json:"type"`
	Label         string                  `json:"label"`
	ComponentKind string                  `json:"component_kind"`
	Logo          *string                 `json:"logo"`
	Required      bool                    `json:"required"`
	Configuration *ComponentConfiguration `json:"configuration"`
}

// Strategy is one authentication or verification strategy offered by the
// tenant, such as email_code or user_password.
type Strategy struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
	Method   string `json:"method"`
	Strategy string `json:"strategy"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
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
