// Package logger provides filtering capabilities for sensitive data in log output.
package logger

import (
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaskValue replaces sensitive values in log output.
const DefaultMaskValue = "***"

// FilterConfig defines the configuration for sensitive data filtering
type FilterConfig struct {
	// SensitiveFields contains field names that should be masked in logs
	SensitiveFields []string
	// MaskValue is the value used to replace sensitive data (default: "***")
	MaskValue string
}

// DefaultFilterConfig returns a configuration covering the credential
// material an API client handles: bearer tokens, refresh tokens, passwords
// and API keys.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password", "passwd", "pwd",
			"secret", "api_key", "apikey",
			"token", "access_token", "refresh_token", "id_token",
			"auth", "authorization",
			"credential", "credentials",
		},
		MaskValue: DefaultMaskValue,
	}
}

// SensitiveDataFilter masks credential material before it reaches log output.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a new filter with the given configuration
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = DefaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString filters sensitive data from string values
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if f.isSensitiveField(key) {
		return f.maskString(value)
	}
	return value
}

// FilterValue filters sensitive data from field values. Nested string maps
// and header maps are filtered per key; other types pass through unless the
// key itself is sensitive.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	switch v := value.(type) {
	case map[string]any:
		return f.FilterFields(v)
	case map[string]string:
		filtered := make(map[string]string, len(v))
		for k, s := range v {
			filtered[k] = f.FilterString(k, s)
		}
		return filtered
	case http.Header:
		return f.filterHeaderValues(v)
	case map[string][]string:
		return f.filterHeaderValues(v)
	default:
		return value
	}
}

// filterHeaderValues masks every value of a sensitive header key.
func (f *SensitiveDataFilter) filterHeaderValues(header map[string][]string) map[string][]string {
	filtered := make(map[string][]string, len(header))
	for key, values := range header {
		masked := make([]string, len(values))
		for i, value := range values {
			masked[i] = f.FilterString(key, value)
		}
		filtered[key] = masked
	}
	return filtered
}

// FilterFields filters a map of fields for sensitive data
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

// isSensitiveField checks if a field name is considered sensitive
func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lowerFieldName := strings.ToLower(fieldName)
	for _, sensitiveField := range f.config.SensitiveFields {
		if strings.Contains(lowerFieldName, strings.ToLower(sensitiveField)) {
			return true
		}
	}
	return false
}

// maskString masks sensitive string values. Bearer credentials keep their
// scheme prefix so log readers can tell what kind of value was masked;
// URLs keep their structure with only the password replaced.
func (f *SensitiveDataFilter) maskString(value string) string {
	if value == "" {
		return value
	}

	if scheme, ok := authScheme(value); ok {
		return scheme + " " + f.config.MaskValue
	}

	if isURL(value) {
		return f.maskURL(value)
	}

	return f.config.MaskValue
}

// authScheme detects an Authorization header value and returns its scheme.
func authScheme(value string) (string, bool) {
	for _, scheme := range []string{"Bearer", "Basic"} {
		if strings.HasPrefix(value, scheme+" ") {
			return scheme, true
		}
	}
	return "", false
}

// isURL checks if a string appears to be a URL
func isURL(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

// maskURL masks the password in a URL's user info while preserving structure.
func (f *SensitiveDataFilter) maskURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return f.config.MaskValue
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), f.config.MaskValue)
			return parsed.String()
		}
	}

	return urlStr
}
