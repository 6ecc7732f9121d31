package respond

import "regexp"

var (
	// The Anthropic pattern must be applied before the generic sk- pattern
	// so already-masked output is not re-matched.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	genericKeyPattern   = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	basicAuthPattern    = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)
)

// SanitizeError masks API keys and connection-string credentials in an
// error message before it reaches a log line.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = genericKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = basicAuthPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
