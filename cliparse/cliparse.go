package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Commands understood by the binary
const (
	CommandServe           = "serve"
	CommandDistribute      = "distribute"
	CommandShow            = "show"
	CommandSendAssignments = "send-assignments"
	CommandRemind          = "remind"
	CommandTimeline        = "timeline"
)

type Config struct {
	Command string

	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminKey      string
	UserTokenSalt string
	LogLevel      string

	BotToken  string
	BotAPIURL string
	DryRun    bool

	// PairsPerUser is the requested k; 0 means max(1, n/2)
	PairsPerUser   int
	MaxAttempts    int
	DeliveryDelay  time.Duration
	TestRecipients []int64

	// Per-command options
	TestMode bool
	Bucket   time.Duration
}

// ParseFlags validates flags and sets port number.
// The first non-flag argument selects the command (default: serve).
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	cfg.Command = CommandServe
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.Command = args[0]
		args = args[1:]
	}
	switch cfg.Command {
	case CommandServe, CommandDistribute, CommandShow, CommandSendAssignments, CommandRemind, CommandTimeline:
	default:
		return Config{}, fmt.Errorf("unknown command %q", cfg.Command)
	}

	fs := flag.NewFlagSet("secret-post "+cfg.Command, flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin key (prefer env)")
	fs.StringVar(&cfg.UserTokenSalt, "user-salt", "", "User token salt (prefer env)")
	fs.StringVar(&cfg.BotToken, "bot-token", "", "Chat bot token (prefer env)")
	fs.StringVar(&cfg.BotAPIURL, "bot-api", "", "Chat bot API base URL")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Log messages instead of sending them")

	// Pairing and delivery
	fs.IntVar(&cfg.PairsPerUser, "k", 0, "Recipients per participant (default n/2)")
	fs.IntVar(&cfg.MaxAttempts, "attempts", 0, "Pairing attempts before giving up")
	fs.DurationVar(&cfg.DeliveryDelay, "delivery-delay", 0, "Delay before telling a recipient a letter arrived")
	fs.BoolVar(&cfg.TestMode, "test", false, "Send only to TEST_RECIPIENTS")
	fs.DurationVar(&cfg.Bucket, "bucket", time.Minute, "Timeline bucket size")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("invalid database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:users.db"
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
	if cfg.BotToken == "" {
		cfg.BotToken = os.Getenv("BOT_TOKEN")
	}
	if cfg.BotAPIURL == "" {
		cfg.BotAPIURL = envOr("BOT_API_URL", "https://api.telegram.org")
	}
	if cfg.UserTokenSalt == "" {
		cfg.UserTokenSalt = os.Getenv("USER_TOKEN_SALT")
	}
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}

	if cfg.PairsPerUser == 0 {
		if v := os.Getenv("PAIRS_PER_USER"); v != "" {
			k, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid PAIRS_PER_USER env variable")
			}
			cfg.PairsPerUser = k
		}
	}
	if cfg.PairsPerUser < 0 {
		return Config{}, errors.New("k must be positive")
	}

	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}

	if cfg.DeliveryDelay == 0 {
		if v := os.Getenv("DELIVERY_DELAY"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid DELIVERY_DELAY env variable")
			}
			cfg.DeliveryDelay = d
		} else {
			cfg.DeliveryDelay = 10 * time.Minute
		}
	}

	if v := os.Getenv("TEST_RECIPIENTS"); v != "" {
		ids, err := parseIDList(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TEST_RECIPIENTS env variable: %w", err)
		}
		cfg.TestRecipients = ids
	}

	// Secrets - MUST be provided for the server
	if cfg.Command == CommandServe {
		if cfg.AdminKey == "" {
			return Config{}, errors.New("ADMIN_KEY required")
		}
		if cfg.UserTokenSalt == "" {
			return Config{}, errors.New("USER_TOKEN_SALT required")
		}
	}

	// Sending needs a bot token unless we only log
	if cfg.BotToken == "" && !cfg.DryRun {
		switch cfg.Command {
		case CommandServe, CommandSendAssignments, CommandRemind:
			return Config{}, errors.New("BOT_TOKEN required (or use -dry-run)")
		}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseIDList parses "1, 2,3" into chat IDs
func parseIDList(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
