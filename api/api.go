//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 -config ../oapi-codegen.yaml openapi.json

// Package api embeds the OpenAPI document of the HTTP API and registers it
// with swag so echo-swagger can serve it.
package api

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var document []byte

var registerOnce sync.Once

// Document returns the raw OpenAPI document.
func Document() []byte {
	return document
}

// Load parses and validates the OpenAPI document. Every call returns a fresh copy.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, err
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, err
	}
	return doc, nil
}

type swaggerDoc struct{}

func (swaggerDoc) ReadDoc() string {
	return string(document)
}

// RegisterSwagger makes the document available to echo-swagger under swag.Name.
func RegisterSwagger() {
	registerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{})
	})
}
