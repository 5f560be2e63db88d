//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// apiDoc is the Swagger 2.0 document served at /swagger/doc.json. It is
// maintained by hand alongside the annotations in cmd/qchemd/docs.go.
const apiDoc = `{
  "swagger": "2.0",
  "info": {"title": "{{.Title}}", "description": "{{escape .Description}}", "version": "{{.Version}}"},
  "basePath": "{{.BasePath}}",
  "schemes": {{ marshal .Schemes }},
  "paths": {
    "/healthz": {"get": {"summary": "Liveness probe", "produces": ["text/plain"], "responses": {"200": {"description": "ok"}}}},
    "/drivers": {"get": {"summary": "List drivers", "produces": ["application/json"],
      "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DriversResponse"}}}}},
    "/drivers/{name}/schema": {"get": {"summary": "Driver option schema", "produces": ["application/json"],
      "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}],
      "responses": {"200": {"description": "JSON schema of the options document"},
        "404": {"description": "Unknown driver", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
    "/drivers/{name}/run": {"post": {"summary": "Run a driver", "consumes": ["application/json"], "produces": ["application/json"],
      "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"},
        {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/types.RunRequest"}}],
      "responses": {"200": {"description": "The computed molecule"},
        "400": {"description": "Invalid options or an input outside the work directory", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
        "404": {"description": "Unknown driver or missing input file", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
        "503": {"description": "Driver dependency unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}},
    "/molecules": {"get": {"summary": "List saved molecules", "produces": ["application/json"],
      "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.MoleculesResponse"}}}}}
  },
  "definitions": {
    "types.DriverInfo": {"type": "object", "properties": {"name": {"type": "string"}, "options": {"type": "array", "items": {"type": "string"}}}},
    "types.DriversResponse": {"type": "object", "properties": {"drivers": {"type": "array", "items": {"$ref": "#/definitions/types.DriverInfo"}}}},
    "types.MoleculeFile": {"type": "object", "properties": {"name": {"type": "string"}, "path": {"type": "string"}, "size": {"type": "integer"}}},
    "types.MoleculesResponse": {"type": "object", "properties": {"molecules": {"type": "array", "items": {"$ref": "#/definitions/types.MoleculeFile"}}}},
    "types.RunRequest": {"type": "object", "properties": {"options": {"type": "object"}}},
    "types.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}}
  }
}`

// SwaggerInfo holds the exported Swagger metadata.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "qchemd API",
	Description:      "HTTP API for running quantum chemistry drivers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  apiDoc,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
