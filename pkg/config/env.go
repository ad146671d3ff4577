package config

const (
	EnvPrefix = "PETPARADISE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMongo    = "mongo"
)

const (
	EnvAppEnv          = "PETPARADISE_APP_ENV"
	EnvPort            = "PETPARADISE_APP_PORT"
	EnvLogLevel        = "PETPARADISE_LOG_LEVEL"
	EnvStoreDriver     = "PETPARADISE_STORE_DRIVER"
	EnvDBDSN           = "PETPARADISE_DB_DSN"
	EnvMongoURI        = "PETPARADISE_MONGO_URI"
	EnvMongoDatabase   = "PETPARADISE_MONGO_DATABASE"
	EnvRedisURL        = "PETPARADISE_REDIS_URL"
	EnvJWTSecret       = "PETPARADISE_JWT_SECRET"
	EnvJWTIssuer       = "PETPARADISE_JWT_ISSUER"
	EnvJWTExpMins      = "PETPARADISE_JWT_EXPIRATION_MINUTES"
	EnvAdminEmail      = "PETPARADISE_ADMIN_EMAIL"
	EnvAdminPassword   = "PETPARADISE_ADMIN_PASSWORD"
	EnvCartMaxRetries  = "PETPARADISE_CART_MAX_RETRIES"
	EnvCartMaxQuantity = "PETPARADISE_CART_MAX_LINE_QUANTITY"
	EnvCORSOrigins     = "PETPARADISE_CORS_ORIGINS"
)
