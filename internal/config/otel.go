package config

import "time"

// Otel configures trace export. Tracing is disabled when CollectorURL is empty.
type Otel struct {
	ServiceName   string        `env:"OTEL_SERVICE_NAME" envDefault:"catalog-service"`
	CollectorURL  string        `env:"OTEL_COLLECTOR_URL"`
	Insecure      bool          `env:"OTEL_INSECURE"`
	TraceIDRatio  float64       `env:"OTEL_TRACE_ID_RATIO" envDefault:"0.1"`
	CollectorAuth string        `env:"OTEL_COLLECTOR_AUTH"`
	ExportTimeout time.Duration `env:"OTEL_EXPORT_TIMEOUT" envDefault:"10s"`

	K8sPodName   string `env:"K8S_POD_NAME"`
	K8sNamespace string `env:"K8S_NAMESPACE"`
}
