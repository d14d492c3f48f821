// Package preview serves a spec with Swagger UI and Redoc front-ends so it
// can be inspected before generating a client from it.
package preview

import (
	"fmt"
	"net/http"

	gojson "github.com/goccy/go-json"

	"github.com/pygen-dev/pygen/pkg/document"
)

const swaggerPage = `<!DOCTYPE html>
<html>
<head>
  <title>Swagger UI</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: "/openapi.json", dom_id: "#swagger-ui"});
  </script>
</body>
</html>`

const redocPage = `<!DOCTYPE html>
<html>
<head>
  <title>Redoc</title>
</head>
<body>
  <redoc spec-url="/openapi.json"></redoc>
  <script src="https://cdn.jsdelivr.net/npm/redoc@2/bundles/redoc.standalone.js"></script>
</body>
</html>`

// Handler serves the given spec document under /openapi.json with HTML
// viewers at /docs and /redoc.
func Handler(doc *document.Map) (http.Handler, error) {
	specJSON, err := gojson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serialize spec: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(specJSON)
	})
	mux.HandleFunc("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, swaggerPage)
	})
	mux.HandleFunc("/redoc", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, redocPage)
	})
	return mux, nil
}

// Serve blocks serving the preview on 127.0.0.1 at the given port.
func Serve(doc *document.Map, port int) error {
	handler, err := Handler(doc)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	fmt.Println("\nPreview server running!")
	fmt.Printf("  - Swagger UI: http://%s/docs\n", addr)
	fmt.Printf("  - Redoc:      http://%s/redoc\n", addr)
	return http.ListenAndServe(addr, handler)
}
