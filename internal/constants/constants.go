package constants

// Session and context keys
const (
	SessionCookieName     = "oms_session"
	ContextKeyUserID      = "user_id"
	ContextKeyCurrentUser = "current_user"
)

// Validation limits
const (
	MinPasswordLength         = 8
	MinOrganizationNameLength = 3
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultTopEvents is the listing size for the ranked events view.
const DefaultTopEvents = 4
