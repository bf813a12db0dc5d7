// Package sanitizer provides input normalization for guest- and host-supplied text.
//
// All normalization functions are idempotent - applying them multiple times produces
// the same result. Functions handle invalid input gracefully, typically by returning
// empty strings rather than errors.
//
// Normalization includes:
//   - Names and titles: Collapse whitespace, trim leading/trailing spaces
//   - Emails: Trim and lowercase
//   - Free text: Collapse whitespace while preserving content
package sanitizer
