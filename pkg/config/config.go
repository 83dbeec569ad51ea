package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gearbook/pkg/client"
	"gearbook/pkg/logger"
	"gearbook/pkg/model"
	"gearbook/pkg/sanitizer"
)

// Config holds the process-wide configuration. It is loaded once at startup
// and immutable afterwards; reservation parameters apply to the whole tenant.
type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	OpenTime            model.Clock
	CloseTime           model.Clock
	SlotGranularityMin  int
	MaxContiguousBlocks int
	MaxLookaheadDays    int
	AllowedWeekdays     []int
	Holidays            map[string]bool
	ApprovalChannel     string
	ApproverRoles       []string
	SessionTTL          time.Duration

	InventoryBaseURL   string
	UsersBaseURL       string
	NotificationsTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	log := logger.New(logger.Config{
		Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	openTime, err := model.ParseClock(getEnvStr(EnvOpenTime, DefaultOpenTime))
	if err != nil {
		log.Fatal("Invalid open time", "error", err)
	}
	closeTime, err := model.ParseClock(getEnvStr(EnvCloseTime, DefaultCloseTime))
	if err != nil {
		log.Fatal("Invalid close time", "error", err)
	}
	weekdays, err := parseWeekdays(getEnvStr(EnvAllowedWeekdays, DefaultAllowedWeekdays))
	if err != nil {
		log.Fatal("Invalid allowed weekdays", "error", err)
	}
	holidays, err := parseHolidays(getEnvStr(EnvHolidays, DefaultHolidays))
	if err != nil {
		log.Fatal("Invalid holidays", "error", err)
	}

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		OpenTime:            openTime,
		CloseTime:           closeTime,
		SlotGranularityMin:  getEnvNum(EnvSlotGranularityMin, DefaultSlotGranularityMin),
		MaxContiguousBlocks: getEnvNum(EnvMaxContiguousBlocks, DefaultMaxContiguousBlocks),
		MaxLookaheadDays:    getEnvNum(EnvMaxLookaheadDays, DefaultMaxLookaheadDays),
		AllowedWeekdays:     weekdays,
		Holidays:            holidays,
		ApprovalChannel:     sanitizer.SanitizeChannel(getEnvStr(EnvApprovalChannel, DefaultApprovalChannel)),
		ApproverRoles:       splitCSV(getEnvStr(EnvApproverRoles, DefaultApproverRoles)),
		SessionTTL:          getEnvDuration(EnvSessionTTL, DefaultSessionTTL),

		InventoryBaseURL:   getEnvStr(EnvInventoryBaseURL, DefaultInventoryBaseURL),
		UsersBaseURL:       getEnvStr(EnvUsersBaseURL, DefaultUsersBaseURL),
		NotificationsTopic: getEnvStr(EnvNotificationsTopic, DefaultNotificationsTopic),

		Log:    log,
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// RequiresApproval reports whether reservations go through a human approver.
// Absence of an approval channel means reservations auto-approve.
func (cfg *Config) RequiresApproval() bool {
	return cfg.ApprovalChannel != ""
}

// WeekdaySet returns the allowed weekdays as a set keyed by ISO weekday
// number (1=Monday .. 7=Sunday).
func (cfg *Config) WeekdaySet() map[int]bool {
	set := make(map[int]bool, len(cfg.AllowedWeekdays))
	for _, d := range cfg.AllowedWeekdays {
		set[d] = true
	}
	return set
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetDirectories() {
	cfg.Client.SetInventory(cfg.InventoryBaseURL)
	cfg.Client.SetUsers(cfg.UsersBaseURL)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}

	if cfg.CloseTime <= cfg.OpenTime {
		problems = append(problems, fmt.Sprintf("CloseTime (%s) must be after OpenTime (%s)", cfg.CloseTime, cfg.OpenTime))
	}
	if cfg.SlotGranularityMin <= 0 {
		problems = append(problems, fmt.Sprintf("SlotGranularityMin must be positive, got: %d", cfg.SlotGranularityMin))
	}
	if cfg.MaxContiguousBlocks <= 0 {
		problems = append(problems, fmt.Sprintf("MaxContiguousBlocks must be positive, got: %d", cfg.MaxContiguousBlocks))
	}
	if cfg.MaxLookaheadDays <= 0 {
		problems = append(problems, fmt.Sprintf("MaxLookaheadDays must be positive, got: %d", cfg.MaxLookaheadDays))
	}
	if len(cfg.AllowedWeekdays) == 0 {
		problems = append(problems, "AllowedWeekdays cannot be empty")
	}
	for _, d := range cfg.AllowedWeekdays {
		if d < 1 || d > 7 {
			problems = append(problems, fmt.Sprintf("AllowedWeekdays values must be in 1..7 (1=Monday), got: %d", d))
		}
	}
	if cfg.SessionTTL <= 0 {
		problems = append(problems, fmt.Sprintf("SessionTTL must be positive, got: %s", cfg.SessionTTL))
	}

	for key, d := range map[string]time.Duration{
		"MongoConnTimeout": cfg.MongoConnTimeout,
		"RateLimitWindow":  cfg.RateLimitWindow,
		"RequestTimeout":   cfg.RequestTimeout,
		"IdempotencyTTL":   cfg.IdempotencyTTL,
		"ReadTimeout":      cfg.ReadTimeout,
		"WriteTimeout":     cfg.WriteTimeout,
		"IdleTimeout":      cfg.IdleTimeout,
		"ShutdownTimeout":  cfg.ShutdownTimeout,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", key, d))
		}
	}
	if cfg.RateLimitRequests <= 0 {
		problems = append(problems, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"port", cfg.Port,
		"open_time", cfg.OpenTime.String(),
		"close_time", cfg.CloseTime.String(),
		"slot_granularity_min", cfg.SlotGranularityMin,
		"max_contiguous_blocks", cfg.MaxContiguousBlocks,
		"max_lookahead_days", cfg.MaxLookaheadDays,
		"allowed_weekdays", cfg.AllowedWeekdays,
		"holidays", len(cfg.Holidays),
		"approval_channel", cfg.ApprovalChannel,
		"requires_approval", cfg.RequiresApproval(),
		"session_ttl", cfg.SessionTTL,
		"inventory_base_url", cfg.InventoryBaseURL,
		"users_base_url", cfg.UsersBaseURL,
		"notifications_topic", cfg.NotificationsTopic,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func parseWeekdays(csv string) ([]int, error) {
	var days []int
	for _, part := range splitCSV(csv) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid weekday %q: %w", part, err)
		}
		days = append(days, n)
	}
	return days, nil
}

func parseHolidays(csv string) (map[string]bool, error) {
	holidays := map[string]bool{}
	for _, part := range splitCSV(csv) {
		if _, err := model.ParseDate(part); err != nil {
			return nil, fmt.Errorf("invalid holiday %q: expected YYYY-MM-DD", part)
		}
		holidays[part] = true
	}
	return holidays, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
