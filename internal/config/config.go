package config

import "time"

type Config struct {
	Service  *ServiceConfig  `koanf:"service"`
	Logger   *LoggerConfig   `koanf:"logger"`
	Tracer   *TracerConfig   `koanf:"tracer"`
	Postgres *PostgresConfig `koanf:"postgres"`
	Redis    *RedisConfig    `koanf:"redis"`
	S3       *S3Config       `koanf:"s3"`
	Token    *TokenConfig    `koanf:"token"`
}

type ServiceConfig struct {
	Name string `koanf:"name"`
	Env  string `koanf:"env"`
	Addr string `koanf:"addr"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type TracerConfig struct {
	Address string `koanf:"address"`
}

type PostgresConfig struct {
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	PingTimeout     time.Duration `koanf:"ping_timeout"`
}

type RedisConfig struct {
	URL          string        `koanf:"url"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	PingTimeout  time.Duration `koanf:"ping_timeout"`
}

type S3Config struct {
	Endpoint        string        `koanf:"endpoint"`
	AccessKeyID     string        `koanf:"access_key_id"`
	SecretAccessKey string        `koanf:"secret_access_key"`
	Region          string        `koanf:"region"`
	Bucket          string        `koanf:"bucket"`
	UseSSL          bool          `koanf:"use_ssl"`
	PresignExpiry   time.Duration `koanf:"presign_expiry"`
}

type TokenConfig struct {
	Secret           string        `koanf:"secret"`
	Issuer           string        `koanf:"issuer"`
	AccessExpiresIn  time.Duration `koanf:"access_expires_in"`
	RefreshExpiresIn time.Duration `koanf:"refresh_expires_in"`
	WSExpiresIn      time.Duration `koanf:"ws_expires_in"`
	UseSecureCookies bool          `koanf:"use_secure_cookies"`
}
