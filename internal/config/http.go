package config

type HTTP struct {
	Port           uint32   `env:"HTTP_PORT" envDefault:"5000"`
	Swagger        bool     `env:"HTTP_SWAGGER" envDefault:"true"`
	APIPrefix      string   `env:"HTTP_API_PREFIX" envDefault:"/api/v1"`
	AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
}
