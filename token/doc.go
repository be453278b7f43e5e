// Package token mints and verifies the signed bearer tokens issued by the
// login engine. Verification is stateless: a token is checked against the
// codec's configured keys only, never against the session cache.
package token
