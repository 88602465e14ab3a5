// Package schema loads form schema documents from JSON or YAML. A document
// carries the ordered field list plus an optional locale and message overrides
// that are applied when the validator is built.
package schema
