package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// default first
	setDefaults(v)

	// File Config
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Env Config -> MONITOR_PROBE_TIMEOUT overrides monitor.probe_timeout
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("service_name", "powermon")
	v.SetDefault("port", 8080)

	v.SetDefault("db.url", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.min_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", "1h")
	v.SetDefault("db.conn_max_idle_time", "30m")
	v.SetDefault("db.health_timeout", "5s")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.conn_max_lifetime", "2m")
	v.SetDefault("redis.conn_max_idle_time", "30s")

	v.SetDefault("rabbitmq.broker_link", "")
	v.SetDefault("rabbitmq.exchange_name", "powermon")
	v.SetDefault("rabbitmq.exchange_type", "topic")
	v.SetDefault("rabbitmq.queue_name", "powermon.check_requests")
	v.SetDefault("rabbitmq.routing_key", "checkpoint.check_requested")
	v.SetDefault("rabbitmq.worker_count", 4)

	v.SetDefault("monitor.probe_mode", "icmp")
	v.SetDefault("monitor.probe_timeout", "5s")
	v.SetDefault("monitor.probe_grace", "1s")
	v.SetDefault("monitor.tcp_port", 80)
	v.SetDefault("monitor.outage_threshold", 0.5)
	v.SetDefault("monitor.workers", 32)

	v.SetDefault("scheduler.interval", "60s")
	v.SetDefault("scheduler.max_attempts", 3)
	v.SetDefault("scheduler.initial_backoff", "5s")
	v.SetDefault("scheduler.max_backoff", "60s")
	v.SetDefault("scheduler.lock_ttl", "5m")

	v.SetDefault("retention.max_age", "720h")
	v.SetDefault("retention.interval", "24h")

	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
}

func validateConfig(cfg *Config) error {

	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return formatValidationErrors(ve)
		}
		return err
	}
	return nil
}

func formatValidationErrors(ve validator.ValidationErrors) error {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")

	for _, fe := range ve {
		fmt.Fprintf(&sb, "- field '%s' failed on '%s'\n", fe.Namespace(), fe.Tag())
	}
	return errors.New(sb.String())
}
