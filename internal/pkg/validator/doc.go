// Package validator provides a small validation abstraction for form input,
// API payloads and module dependencies.
//
// Business code depends on the Validator interface. The go-playground v10
// implementation reports failures as a field-to-message map keyed by the
// struct's json tag, so the same keys flow from the sandbox API envelope to
// the terminal forms.
package validator
