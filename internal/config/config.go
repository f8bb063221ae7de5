// Package config loads the flat, literally-named environment variables
// spec.md §6 requires, using viper for binding and creasty/defaults for
// zero-value fallbacks — the same pair the teacher's config package uses,
// without its generic SECTION_FIELD reflection-based registration system,
// which cannot produce these literal names (see DESIGN.md).
package config

import (
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/spf13/viper"

	"github.com/sellershut/categories/internal/errs"
)

// Config is the fully-resolved process configuration.
type Config struct {
	AppEnvironment string `default:"development"`
	Port           int    `default:"8080"`

	DatabaseURL          string
	DatabasePoolMaxSize  int `default:"10"`

	RedisDSN                string
	RedisIsCluster          bool
	RedisPoolMaxConnections int `default:"10"`

	NATSURL           string
	JetstreamName     string
	JetstreamSubjects string
	JetstreamMaxBytes int64 `default:"1073741824"`

	EventPublishingServices []string
	ServiceStreams          map[string]ServiceStream

	QueryLimit int `default:"20"`
}

// ServiceStream is one <NAME>_STREAM_{NAME,SUBJECTS,MAX_BYTES} group, read
// once per entry in EVENT_PUBLISHING_SERVICES.
type ServiceStream struct {
	Name     string
	Subjects string
	MaxBytes int64
}

// EntityCacheTTL and ListingCacheTTL are the pset_ex TTLs recommended by
// spec.md §4.4: short for hot single-entity lookups, longer for batch
// listings whose staleness is bounded by TTL rather than proactive
// invalidation. The cache-update worker, the only cache writer, is given
// ListingCacheTTL alone and applies it to single-entity and listing entries
// alike; EntityCacheTTL is passed to category.NewService, which does not
// write the cache.
const (
	EntityCacheTTL  = 20 * time.Second
	ListingCacheTTL = 2 * time.Minute
)

// Load reads the environment variables named in spec.md §6 into a Config,
// applying defaults for any left unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"APP_ENVIRONMENT", "PORT",
		"DATABASE_URL", "DATABASE_POOL_MAX_SIZE",
		"REDIS_DSN", "REDIS_IS_CLUSTER", "REDIS_POOL_MAX_CONNECTIONS",
		"NATS_URL", "JETSTREAM_NAME", "JETSTREAM_SUBJECTS", "JETSTREAM_MAX_BYTES",
		"EVENT_PUBLISHING_SERVICES",
		"QUERY_LIMIT",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, errs.Wrap(errs.Internal, err, "bind env var "+key)
		}
	}

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errs.Wrap(errs.Internal, err, "apply config defaults")
	}

	if s := v.GetString("APP_ENVIRONMENT"); s != "" {
		cfg.AppEnvironment = s
	}
	if n := v.GetInt("PORT"); n != 0 {
		cfg.Port = n
	}

	cfg.DatabaseURL = v.GetString("DATABASE_URL")
	if n := v.GetInt("DATABASE_POOL_MAX_SIZE"); n != 0 {
		cfg.DatabasePoolMaxSize = n
	}

	cfg.RedisDSN = v.GetString("REDIS_DSN")
	cfg.RedisIsCluster = v.GetBool("REDIS_IS_CLUSTER")
	if n := v.GetInt("REDIS_POOL_MAX_CONNECTIONS"); n != 0 {
		cfg.RedisPoolMaxConnections = n
	}

	cfg.NATSURL = v.GetString("NATS_URL")
	cfg.JetstreamName = v.GetString("JETSTREAM_NAME")
	cfg.JetstreamSubjects = v.GetString("JETSTREAM_SUBJECTS")
	if n := v.GetInt64("JETSTREAM_MAX_BYTES"); n != 0 {
		cfg.JetstreamMaxBytes = n
	}

	if raw := v.GetString("EVENT_PUBLISHING_SERVICES"); raw != "" {
		rawServices := strings.Split(raw, ",")
		services := make([]string, len(rawServices))
		for i, name := range rawServices {
			services[i] = strings.TrimSpace(name)
		}
		cfg.EventPublishingServices = services
		cfg.ServiceStreams = make(map[string]ServiceStream, len(services))

		for _, name := range services {
			prefix := strings.ToUpper(name) + "_STREAM_"

			sv := viper.New()
			sv.AutomaticEnv()
			for _, suffix := range []string{"NAME", "SUBJECTS", "MAX_BYTES"} {
				_ = sv.BindEnv(prefix + suffix)
			}

			cfg.ServiceStreams[name] = ServiceStream{
				Name:     sv.GetString(prefix + "NAME"),
				Subjects: sv.GetString(prefix + "SUBJECTS"),
				MaxBytes: sv.GetInt64(prefix + "MAX_BYTES"),
			}
		}
	}

	if n := v.GetInt("QUERY_LIMIT"); n != 0 {
		cfg.QueryLimit = n
	}

	if cfg.DatabaseURL == "" {
		return nil, errs.New(errs.Invalid, "DATABASE_URL is required")
	}
	if cfg.RedisDSN == "" {
		return nil, errs.New(errs.Invalid, "REDIS_DSN is required")
	}
	if cfg.NATSURL == "" {
		return nil, errs.New(errs.Invalid, "NATS_URL is required")
	}

	return cfg, nil
}
