package swagger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/catalog-service/api-contract"
)

const (
	// swaggerURL is the URL path where the Swagger UI will be served
	swaggerURL = "/docs"

	// swaggerSpecURL is the URL path where the OpenAPI specification will be served
	swaggerSpecURL = "/docs/openapi.yml"

	// swaggerJSONSpecURL serves the same specification encoded as JSON
	swaggerJSONSpecURL = "/docs/openapi.json"
)

// Paths lists every route registered by Register.
var Paths = []string{swaggerURL, swaggerSpecURL, swaggerJSONSpecURL}

// Register registers the swagger handler on the given router. The embedded
// specification is validated first so a broken contract fails at startup.
func Register(ctx context.Context, r chi.Router) error {
	doc, err := apicontract.Load(ctx)
	if err != nil {
		return err
	}

	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	templateBytes := []byte(getTemplate(swaggerSpecURL))
	r.Get(swaggerURL, serveBytes("text/html; charset=utf-8", templateBytes))
	r.Get(swaggerSpecURL, serveBytes("application/yaml", apicontract.GetSpecBytes()))
	r.Get(swaggerJSONSpecURL, serveBytes("application/json", jsonBytes))

	return nil
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}

// getTemplate returns the HTML template for Swagger UI
func getTemplate(specPath string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta name="description" content="Catalog API documentation" />
  <title>Catalog API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
    });
  };
</script>
</body>
</html>
`, specPath)
}
