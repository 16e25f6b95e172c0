package errors

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// ValidateModulePart validates an organization or module name taken from a
// dependency coordinate. The rules are deliberately conservative:
//   - No empty names
//   - No control characters or whitespace
//   - No coordinate separators (':' or ',')
//   - No path traversal sequences (..) or slashes
//   - Maximum length of 256 characters
func ValidateModulePart(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidDependency, "%s cannot be empty", kind)
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidDependency, "%s too long (max 256 characters)", kind)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidDependency, "%s contains invalid characters: %q", kind, name)
		}
	}
	for _, pattern := range []string{":", ",", "..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidDependency, "%s contains invalid characters: %q", kind, pattern)
		}
	}
	return nil
}

// versionRegex accepts the characters Maven and Ivy allow in version strings,
// including single-bound ranges and "latest.*" selectors.
var versionRegex = regexp.MustCompile(`^[A-Za-z0-9\[(][A-Za-z0-9._+\-\[\]()]*$`)

// ValidateVersion validates a dependency version string.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidDependency, "version cannot be empty")
	}
	if strings.Contains(version, "..") || !versionRegex.MatchString(version) {
		return New(ErrCodeInvalidDependency, "invalid version: %q", version)
	}
	return nil
}

// ValidateURL validates a URL string for safety. The scheme must be http,
// https or file, http(s) URLs need a host, and no path segment may be "..",
// whether written literally or percent-encoded.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "malformed URL %q", rawURL)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return New(ErrCodeInvalidInput, "URL has no host: %q", rawURL)
		}
	case "file":
	default:
		return New(ErrCodeInvalidInput, "URL must use http, https or file scheme: %q", rawURL)
	}
	for _, p := range []string{u.EscapedPath(), u.Path} {
		if slices.Contains(strings.Split(p, "/"), "..") {
			return New(ErrCodeInvalidInput, "URL path must not contain '..': %q", rawURL)
		}
	}
	return nil
}
