// Package openapi derives form schemas from OpenAPI 3 documents. The request
// body of an operation is flattened into one field per top-level property,
// carrying over required, minLength and pattern constraints so forms backed by
// an API can be validated with the same rules the API declares.
package openapi
