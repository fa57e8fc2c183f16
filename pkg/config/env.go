package config

const (
	EnvPrefix = "LEATHERSTORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LEATHERSTORE_DB_DSN"
	EnvDBHost = "LEATHERSTORE_DB_HOST"
	EnvDBUser = "LEATHERSTORE_DB_USER"
	EnvDBName = "LEATHERSTORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
