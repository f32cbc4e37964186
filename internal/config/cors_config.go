package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

// GetAllowedOrigins returns the origins allowed to call the API with
// credentials, from the comma-separated CORS_ORIGINS variable.
func (Cors) GetAllowedOrigins() []string {
	raw := GetEnv("CORS_ORIGINS", "http://localhost:4200")
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
