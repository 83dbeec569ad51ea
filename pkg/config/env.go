package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvOpenTime            = "OPEN_TIME"
	EnvCloseTime           = "CLOSE_TIME"
	EnvSlotGranularityMin  = "SLOT_GRANULARITY_MIN"
	EnvMaxContiguousBlocks = "MAX_CONTIGUOUS_BLOCKS"
	EnvMaxLookaheadDays    = "MAX_LOOKAHEAD_DAYS"
	EnvAllowedWeekdays     = "ALLOWED_WEEKDAYS"
	EnvHolidays            = "HOLIDAYS"
	EnvApprovalChannel     = "APPROVAL_CHANNEL"
	EnvApproverRoles       = "APPROVER_ROLES"
	EnvSessionTTL          = "SESSION_TTL"

	EnvInventoryBaseURL   = "INVENTORY_BASE_URL"
	EnvUsersBaseURL       = "USERS_BASE_URL"
	EnvNotificationsTopic = "NOTIFICATIONS_TOPIC"
)
