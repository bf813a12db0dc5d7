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

	EnvSlotGranularityMin = "SLOT_GRANULARITY_MIN"
	EnvDefaultDayStart    = "DEFAULT_DAY_START"
	EnvDefaultDayEnd      = "DEFAULT_DAY_END"
	EnvDefaultTimeGapMin  = "DEFAULT_TIME_GAP_MIN"
	EnvBookingLockTTL     = "BOOKING_LOCK_TTL"

	EnvAvailabilityServiceURL = "AVAILABILITY_SERVICE_URL"
	EnvEventsServiceURL       = "EVENTS_SERVICE_URL"
	EnvMeetingProviderURL     = "MEETING_PROVIDER_URL"
)
