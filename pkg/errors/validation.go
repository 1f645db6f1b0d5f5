package errors

import (
	"net/url"
	"slices"
	"strings"
	"unicode"
)

// MaxLabelLength is the maximum length in bytes of a single item label.
const MaxLabelLength = 256

// ValidateLabel validates a single item label supplied on the command line or
// over the API.
//
// The validation rules are intentionally conservative:
//   - No empty labels
//   - No control characters (they break table and DOT output)
//   - Maximum length of 256 bytes
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "label cannot be empty")
	}

	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidInput, "label too long (max %d characters)", MaxLabelLength)
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label contains invalid control characters")
		}
	}

	return nil
}

// ValidateLabels validates a label sequence. A nil slice is reported as
// NIL_INPUT; an empty, non-nil slice is valid. More than max labels is
// reported as OUT_OF_RANGE.
func ValidateLabels(labels []string, max int) error {
	if labels == nil {
		return New(ErrCodeNilInput, "items are required")
	}

	if len(labels) > max {
		return New(ErrCodeOutOfRange, "too many items: %d (max %d)", len(labels), max)
	}

	for i, l := range labels {
		if err := ValidateLabel(l); err != nil {
			return Wrap(ErrCodeInvalidInput, err, "item %d", i)
		}
	}

	return nil
}

// ValidateURL validates a backend connection URL.
// It ensures the URL parses, has a host and uses one of the allowed schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}

	if len(schemes) > 0 && !slices.Contains(schemes, strings.ToLower(u.Scheme)) {
		return New(ErrCodeInvalidInput, "URL scheme must be one of %s", strings.Join(schemes, ", "))
	}

	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}
