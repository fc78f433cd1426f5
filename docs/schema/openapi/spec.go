// Package openapi embeds the OpenAPI description of the HTTP API.
package openapi

import _ "embed"

//go:embed subprofile.yaml
var apiSpec []byte

// Spec returns a copy of the embedded OpenAPI YAML.
func Spec() []byte {
	return append([]byte(nil), apiSpec...)
}
