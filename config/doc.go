/*
Package config loads how a checkpoint service runs.

Load reads, in order:
  - ".env" files into the process environment, via godotenv; variables already set win
  - environment variables, via envconfig, falling back to the defaults below
  - an optional YAML file, whose keys override what the environment set

With the default prefix CHECKPOINT, the available environment variables are:
  - CHECKPOINT_ENVIRONMENT: cf. [checkpoint.Environment]; default: DEVELOPMENT
  - CHECKPOINT_PORT: the port to listen on; default: :8150
  - CHECKPOINT_LOG_LEVEL: cf. [logger.LogLevel]; default: INFO
  - CHECKPOINT_SENTRY_DSN: enables reporting to Sentry
  - CHECKPOINT_MANIFEST: the path to the YAML manifest of endpoints
  - CHECKPOINT_ALLOWED_ORIGINS: comma-separated origins CORS admits; default: every origin
  - CHECKPOINT_SERVER_READ_TIMEOUT, _WRITE_TIMEOUT, _IDLE_TIMEOUT, _SHUTDOWN_TIMEOUT
  - CHECKPOINT_RATE_LIMIT_ENABLED, _RPS, _BURST
  - CHECKPOINT_DATABASE_URL, or CHECKPOINT_DATABASE_HOST, _PORT, _NAME, _USER, _PASSWORD, _SSLMODE
  - CHECKPOINT_REDIS_ADDR, _PASSWORD, _CACHE_TTL
  - CHECKPOINT_SESSION_NAME, _AUTH_KEY, _ENCRYPTION_KEY, _MAX_AGE
*/
package config
