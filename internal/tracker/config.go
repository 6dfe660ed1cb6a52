package tracker

import (
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the production Tracker API host.
	DefaultBaseURL = "https://api.tracker.yandex.net"
	// DefaultAPIVersion is the versioned path prefix joined onto the base URL.
	DefaultAPIVersion = "v3"
	// DefaultUserAgent identifies this client on the wire.
	DefaultUserAgent = "ytrack/0.1"

	// DefaultCooldown is the minimum spacing between outbound requests.
	DefaultCooldown = 500 * time.Millisecond
	// DefaultTimeout bounds a whole request including body.
	DefaultTimeout = 30 * time.Second
	// DefaultConnectTimeout bounds connection establishment.
	DefaultConnectTimeout = 10 * time.Second
)

// OrgType selects which custom header carries the organization id.
type OrgType int

const (
	OrgYandex360 OrgType = iota
	OrgCloud
)

// HeaderName returns the org-id header name required for the org type.
func (t OrgType) HeaderName() string {
	if t == OrgCloud {
		return "X-Cloud-Org-ID"
	}
	return "X-Org-ID"
}

// String returns the canonical lowercase label used in persisted sessions.
func (t OrgType) String() string {
	if t == OrgCloud {
		return "cloud"
	}
	return "yandex360"
}

// ParseOrgType canonicalizes external org-type input. Anything that is not
// "cloud" falls back to the Yandex 360 org type.
func ParseOrgType(value string) OrgType {
	if strings.EqualFold(strings.TrimSpace(value), "cloud") {
		return OrgCloud
	}
	return OrgYandex360
}

// AuthScheme is the authorization scheme rendered into the Authorization
// header.
type AuthScheme int

const (
	AuthOAuth AuthScheme = iota
	AuthBearer
)

// String returns the scheme prefix used in the Authorization header value.
func (s AuthScheme) String() string {
	if s == AuthBearer {
		return "Bearer"
	}
	return "OAuth"
}

// Config holds the immutable connection parameters a Client is built from.
// Values are copied on construction; mutating a Config after building a
// client has no effect on it.
type Config struct {
	BaseURL        string
	APIVersion     string
	Token          string
	OrgID          string
	OrgType        OrgType
	AcceptLanguage string
	UserAgent      string
	Cooldown       time.Duration
	Timeout        time.Duration
	ConnectTimeout time.Duration
	AuthScheme     AuthScheme
}

// NewConfig returns a config with production defaults for everything except
// the two required inputs.
func NewConfig(token string, orgType OrgType) Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		APIVersion:     DefaultAPIVersion,
		Token:          token,
		OrgType:        orgType,
		UserAgent:      DefaultUserAgent,
		Cooldown:       DefaultCooldown,
		Timeout:        DefaultTimeout,
		ConnectTimeout: DefaultConnectTimeout,
		AuthScheme:     AuthOAuth,
	}
}

// WithBaseURL overrides the API base URL.
func (c Config) WithBaseURL(baseURL string) Config {
	c.BaseURL = baseURL
	return c
}

// WithAPIVersion overrides the versioned path prefix.
func (c Config) WithAPIVersion(version string) Config {
	c.APIVersion = version
	return c
}

// WithOrgID sets the organization id rendered into the org header.
func (c Config) WithOrgID(orgID string) Config {
	c.OrgID = orgID
	return c
}

// WithAcceptLanguage sets the Accept-Language header value.
func (c Config) WithAcceptLanguage(language string) Config {
	c.AcceptLanguage = language
	return c
}

// WithUserAgent overrides the User-Agent string.
func (c Config) WithUserAgent(userAgent string) Config {
	c.UserAgent = userAgent
	return c
}

// WithCooldown overrides the request pacing interval.
func (c Config) WithCooldown(cooldown time.Duration) Config {
	c.Cooldown = cooldown
	return c
}

// WithTimeout overrides the total per-request timeout.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.Timeout = timeout
	return c
}

// WithConnectTimeout overrides the transport connect timeout.
func (c Config) WithConnectTimeout(timeout time.Duration) Config {
	c.ConnectTimeout = timeout
	return c
}

// WithAuthScheme selects the authorization scheme.
func (c Config) WithAuthScheme(scheme AuthScheme) Config {
	c.AuthScheme = scheme
	return c
}

// APIRoot returns the canonical versioned root URL. It always ends with
// exactly one slash and never produces a double slash at the join seam,
// regardless of slashes on the configured inputs.
func (c Config) APIRoot() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.APIVersion, "/") + "/"
}

func (c Config) authorizationValue() string {
	return c.AuthScheme.String() + " " + c.Token
}
