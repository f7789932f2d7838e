package constant

const (
	DefaultTokenType = "Bearer"

	// NewAccessTokenHeader carries a proactively reissued access token when
	// the presented one is close to expiry. Clients should swap to it.
	NewAccessTokenHeader = "X-New-Access-Token"
)
