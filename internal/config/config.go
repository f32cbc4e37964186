package config

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetDatabaseURL() string
	GetCookieDomain() string
	GetAdminEmail() string
	GetAdminPassword() string
	GetAdminName() string
}

type CorsConfig interface {
	GetAllowedOrigins() []string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
}

func New() Config {
	return mainConfig{}
}
