package utils

import "regexp"

var urlPasswordRegex = regexp.MustCompile(`(:)([^:@/]+)(@)`)

// MaskURL hides the password portion of a connection URL such as a Redis or NATS address.
func MaskURL(raw string) string {
	return urlPasswordRegex.ReplaceAllString(raw, ":***@")
}

// MaskToken keeps the first and last four characters of a bearer token.
// Tokens of twelve characters or fewer are fully masked.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
