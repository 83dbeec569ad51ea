package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "gearbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultOpenTime            = "08:00"
	DefaultCloseTime           = "21:00"
	DefaultSlotGranularityMin  = 60
	DefaultMaxContiguousBlocks = 2
	DefaultMaxLookaheadDays    = 7
	DefaultAllowedWeekdays     = "1,2,3,4,5"
	DefaultHolidays            = ""
	DefaultApprovalChannel     = ""
	DefaultApproverRoles       = "approver"
	DefaultSessionTTL          = 15 * time.Minute

	DefaultInventoryBaseURL   = "http://localhost:8081"
	DefaultUsersBaseURL       = "http://localhost:8082"
	DefaultNotificationsTopic = "reservation-notifications"

	DefaultPaginationLimit = 100
)
