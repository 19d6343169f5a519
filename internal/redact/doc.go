// Package redact strips likely secrets from source content before it is
// sent to an external analysis provider.
//
// Detection is regex-heuristic: API keys, bearer tokens, JWTs, private key
// blocks, and credential-looking assignments are replaced with a [REDACTED]
// placeholder. Redaction runs on submitted content only and never alters
// the stored batch, so line numbers in feedback stay valid.
package redact
