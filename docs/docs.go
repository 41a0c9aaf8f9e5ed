// Package docs embeds the OpenAPI document served under /swagger.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.json
var openAPISpec []byte

// SpecHandler serves the raw OpenAPI JSON the swagger UI loads.
func SpecHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openAPISpec)
}
