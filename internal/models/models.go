package models

// Identity is the record returned by /auth/me and /broker/me. The
// broker endpoint fills the credential fields; admin identities leave
// them zero.
type Identity struct {
	UserID          int64    `json:"user_id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	RoleID          int      `json:"role_id"`
	Status          string   `json:"status,omitempty"`
	PermissionLevel string   `json:"permission_level,omitempty"`
	WhitelistedIPs  []string `json:"whitelisted_ips,omitempty"`
	APIToken        string   `json:"api_token,omitempty"`
	TotalListings   int      `json:"total_listings,omitempty"`
}

type Broker struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Status          string   `json:"status"`
	PermissionLevel string   `json:"permission_level"`
	WhitelistedIPs  []string `json:"whitelisted_ips"`
	APIToken        string   `json:"api_token"`
	TotalListings   int      `json:"total_listings"`
	CreatedAt       string   `json:"created_at,omitempty"`
	LastAPICall     string   `json:"last_api_call,omitempty"`
}

type Admin struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
}

// APILog is append-only on the server; the client only reads it.
type APILog struct {
	ID             int64  `json:"id"`
	BrokerID       int64  `json:"broker_id"`
	BrokerName     string `json:"broker_name"`
	Endpoint       string `json:"endpoint"`
	Method         string `json:"method"`
	StatusCode     int    `json:"status_code"`
	IPAddress      string `json:"ip_address"`
	ResponseTimeMS int    `json:"response_time_ms"`
	Timestamp      string `json:"timestamp"`
}
