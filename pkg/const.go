package pkg

const (
	HeaderTraceId       string = "X-Trace-Id"
	HeaderAuthorization string = "Authorization"
	BearerPrefix        string = "Bearer "
)

// Context and log field keys.
const (
	TraceId  string = "trace_id"
	Identity string = "identity"
	UserId   string = "user_id"
	Username string = "username"
)

const (
	// DefaultRecentLimit is how many of the latest transfers are scanned for counterparties.
	DefaultRecentLimit = 10
	// DefaultMaxSeedBalance bounds the random balance granted at signup: [0, DefaultMaxSeedBalance).
	DefaultMaxSeedBalance int64 = 10000
	// CurrencySymbol is used in human readable transfer confirmations.
	CurrencySymbol = "₹"
)
