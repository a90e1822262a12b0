package config

import "time"

type DBConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns" validate:"gte=1"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout" validate:"gt=0"`
}

// RedisConfig is optional, an empty URL disables the status cache and the cycle lock.
type RedisConfig struct {
	URL             string        `mapstructure:"url"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RabbitMQConfig is optional, an empty BrokerLink disables event publishing and the check request consumer.
type RabbitMQConfig struct {
	BrokerLink   string `mapstructure:"broker_link"`
	ExchangeName string `mapstructure:"exchange_name"`
	ExchangeType string `mapstructure:"exchange_type" validate:"oneof=direct topic fanout"`
	QueueName    string `mapstructure:"queue_name"`
	RoutingKey   string `mapstructure:"routing_key"`
	WorkerCount  int    `mapstructure:"worker_count" validate:"gte=1"`
}

type MonitorConfig struct {
	ProbeMode       string        `mapstructure:"probe_mode" validate:"oneof=icmp tcp http"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout" validate:"gt=0"`
	ProbeGrace      time.Duration `mapstructure:"probe_grace" validate:"gte=0"`
	TCPPort         int           `mapstructure:"tcp_port" validate:"gte=1,lte=65535"`
	OutageThreshold float64       `mapstructure:"outage_threshold" validate:"gt=0,lte=1"`
	Workers         int           `mapstructure:"workers" validate:"gte=1"`
}

type SchedulerConfig struct {
	Interval       time.Duration `mapstructure:"interval" validate:"gt=0"`
	MaxAttempts    int           `mapstructure:"max_attempts" validate:"gte=1"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff" validate:"gte=0"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff" validate:"gte=0"`
	LockTTL        time.Duration `mapstructure:"lock_ttl" validate:"gt=0"`
}

type RetentionConfig struct {
	MaxAge   time.Duration `mapstructure:"max_age" validate:"gt=0"`
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Config struct {
	Env            string          `mapstructure:"env" validate:"required"`
	ServiceName    string          `mapstructure:"service_name" validate:"required"`
	Port           int             `mapstructure:"port" validate:"gte=1,lte=65535"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	SeedFile       string          `mapstructure:"seed_file"`
	DB             DBConfig        `mapstructure:"db"`
	Redis          RedisConfig     `mapstructure:"redis"`
	RabbitMQ       RabbitMQConfig  `mapstructure:"rabbitmq"`
	Monitor        MonitorConfig   `mapstructure:"monitor"`
	Scheduler      SchedulerConfig `mapstructure:"scheduler"`
	Retention      RetentionConfig `mapstructure:"retention"`
	Log            LogConfig       `mapstructure:"log"`
}
