package config

// Upload configures the attachment area written by product creation and
// served back under PublicPrefix.
type Upload struct {
	Dir               string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	PublicPrefix      string   `env:"UPLOAD_PUBLIC_PREFIX" envDefault:"/uploads"`
	MaxRequestBytes   int64    `env:"UPLOAD_MAX_REQUEST_BYTES" envDefault:"33554432"`
	MaxMemoryBytes    int64    `env:"UPLOAD_MAX_MEMORY_BYTES" envDefault:"8388608"`
	AllowedExtensions []string `env:"UPLOAD_ALLOWED_EXTENSIONS" envDefault:".jpg,.jpeg,.png,.webp,.gif" envSeparator:","`
}
