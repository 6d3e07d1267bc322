package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidStatus reports whether s is a member of the booking status enum.
// Transition legality between statuses is intentionally not checked anywhere.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

const (
	// DefaultClaimsTTL caps how long verified credential claims stay cached.
	DefaultClaimsTTL = 5 * 60 // seconds

	// AuditQueueSize is the audit worker queue capacity.
	AuditQueueSize = 1000

	// RateLimitRPS is the default API requests-per-second limit.
	RateLimitRPS = 20

	// RateLimitBurst is the default API rate limit burst.
	RateLimitBurst = 5
)
