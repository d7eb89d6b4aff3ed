package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "SARI"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "SARI_APP_ENV"
	EnvDBDSN  = "SARI_DB_DSN"
	EnvDBHost = "SARI_DB_HOST"
	EnvDBUser = "SARI_DB_USER"
	EnvDBName = "SARI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
