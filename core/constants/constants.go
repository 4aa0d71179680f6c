package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Database defaults
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Token defaults
const (
	AccessTokenTTL  = 24 * time.Hour
	TokenBlacklist  = "token:blacklist:"
	BlockDuration   = 15 * time.Minute
	MaxLoginAttempt = 5
)

// Scheduling
const (
	SlotDurationMinutes = 30
	DefaultTimezone     = "Asia/Seoul"
	// ReminderHour is the local hour on the confirmed day when reminder
	// notifications go out.
	ReminderHour = 7
)

// Aggregation defaults
const (
	DefaultRecommendLimit  = 5
	DefaultMinParticipants = 1
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 100
)
