package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar      = "PORT"
	appNameVar      = "APP_NAME"
	envVar          = "ENV"
	databaseURLVar  = "DATABASE_URL"
	cookieDomainVar = "COOKIE_DOMAIN"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Portfolio API")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "development"
	}
	return env
}

func (e EnvVars) IsProduction() bool {
	return e.GetEnv() == "production"
}

func (EnvVars) GetDatabaseURL() string {
	return GetEnv(databaseURLVar, "postgres://localhost:5432/portfolio?sslmode=disable")
}

// GetCookieDomain returns the optional domain attribute for auth cookies.
// Empty means host-only cookies.
func (EnvVars) GetCookieDomain() string {
	return GetEnv(cookieDomainVar, "")
}

func (EnvVars) GetAdminEmail() string {
	return GetEnv("ADMIN_EMAIL", "")
}

func (EnvVars) GetAdminPassword() string {
	return GetEnv("ADMIN_PASSWORD", "")
}

func (EnvVars) GetAdminName() string {
	return GetEnv("ADMIN_NAME", "Administrator")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
