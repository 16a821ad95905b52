// scrubber.go implements fail-closed sensitive data redaction for events.

package raven

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	redacted          = "[REDACTED]"
	redactedScrubFail = "[REDACTED:SCRUB_ERROR]"
	truncationMarker  = "...[TRUNCATED]"
)

// ScrubberConfig controls scrubbing behavior.
type ScrubberConfig struct {
	// SensitiveKeys contains additional case-insensitive substrings that mark
	// a tag, extra or breadcrumb data key as sensitive.
	SensitiveKeys []string

	// MaxMessageSize is the maximum length for messages and exception values (default: 4096).
	MaxMessageSize int

	// MaxValueSize is the maximum length for a single tag or extra string (default: 1024).
	MaxValueSize int

	// ScrubMessages enables pattern scrubbing of messages for secrets/PII (default: true).
	ScrubMessages bool

	// NormalizePaths replaces user-specific directories in frame paths (default: true).
	NormalizePaths bool

	// FailClosed redacts extra values that cannot be inspected (default: true).
	FailClosed bool
}

// DefaultScrubberConfig returns production-safe defaults.
func DefaultScrubberConfig() ScrubberConfig {
	return ScrubberConfig{
		MaxMessageSize: 4096,
		MaxValueSize:   1024,
		ScrubMessages:  true,
		NormalizePaths: true,
		FailClosed:     true,
	}
}

// Compiled regex patterns for message scrubbing (compiled once at package init)
var messageScrubPatterns = []*regexp.Regexp{
	// API keys and tokens
	regexp.MustCompile(`(?i)(api[_-]?key|token)[=:\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)(authorization|bearer)[=:\s]+['"]?[\w\-\.]+['"]?[\s]+['"]?[\w\-\.]+['"]?`),
	regexp.MustCompile(`(?i)sk-[a-zA-Z0-9_-]{20,}`),
	regexp.MustCompile(`(?i)gh[po]_[a-zA-Z0-9]{36}`),
	regexp.MustCompile(`(?i)github_pat_[a-zA-Z0-9_]{22,}`),
	regexp.MustCompile(`(?i)xox[baprs]-[a-zA-Z0-9\-]{10,}`),
	regexp.MustCompile(`(?i)eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), // JWT

	// Credentials
	regexp.MustCompile(`(?i)(password|passwd|secret|credential)[=:\s]+['"]?[^\s'",]+['"]?`),

	// PII
	regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), // email
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),                               // SSN
	regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),         // credit card
}

// Sensitive key patterns (case-insensitive substring match)
var sensitiveKeyPatterns = []string{
	"token",
	"key",
	"secret",
	"password",
	"passwd",
	"credential",
	"auth",
	"cookie",
}

// Path patterns to normalize in stack frames
var pathNormalizationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/home/[^/]+/`),
	regexp.MustCompile(`/Users/[^/]+/`),
	regexp.MustCompile(`C:\\Users\\[^\\]+\\`),
	regexp.MustCompile(`/tmp/[^/]+/`),
}

// Scrubber redacts sensitive data from events.
type Scrubber struct {
	cfg ScrubberConfig
}

// NewScrubber creates a new scrubber with the given configuration.
func NewScrubber(cfg ScrubberConfig) *Scrubber {
	return &Scrubber{cfg: cfg}
}

// ScrubEvent redacts e in place: message, exception values and frame paths,
// tags, extra and breadcrumbs. The user record is left as provided.
func (s *Scrubber) ScrubEvent(e *Event) {
	e.Message = s.ScrubMessage(e.Message)
	for i := range e.Exception {
		ex := &e.Exception[i]
		ex.Value = s.ScrubMessage(ex.Value)
		ex.Stacktrace = s.ScrubFrames(ex.Stacktrace)
	}
	e.Tags = s.ScrubTags(e.Tags)
	e.Extra = s.ScrubExtra(e.Extra)
	for i := range e.Breadcrumbs {
		b := &e.Breadcrumbs[i]
		b.Message = s.ScrubMessage(b.Message)
		b.Data = s.ScrubExtra(b.Data)
	}
}

// ScrubMessage scrubs sensitive patterns from a message.
func (s *Scrubber) ScrubMessage(msg string) string {
	if msg == "" {
		return msg
	}
	if s.cfg.MaxMessageSize > 0 && len(msg) > s.cfg.MaxMessageSize {
		msg = truncateWithMarker(msg, s.cfg.MaxMessageSize)
	}
	if !s.cfg.ScrubMessages {
		return msg
	}
	for _, pattern := range messageScrubPatterns {
		msg = pattern.ReplaceAllString(msg, redacted)
	}
	return msg
}

// ScrubTags redacts sensitive keys and truncates long values.
func (s *Scrubber) ScrubTags(tags map[string]string) map[string]string {
	if tags == nil {
		return nil
	}
	result := make(map[string]string, len(tags))
	for key, value := range tags {
		if s.isSensitiveKey(key) {
			result[key] = redacted
			continue
		}
		result[key] = s.truncateValue(value)
	}
	return result
}

// ScrubExtra recursively redacts sensitive keys and scrubs string values.
// Values of other types are inspected through their JSON form; a value that
// cannot be encoded is redacted when FailClosed is set.
func (s *Scrubber) ScrubExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return nil
	}
	result := make(map[string]any, len(extra))
	for key, value := range extra {
		if s.isSensitiveKey(key) {
			result[key] = redacted
			continue
		}
		result[key] = s.scrubValue(value)
	}
	return result
}

// ScrubFrames normalizes user-specific directories in frame paths.
func (s *Scrubber) ScrubFrames(frames []Frame) []Frame {
	if !s.cfg.NormalizePaths || len(frames) == 0 {
		return frames
	}
	result := make([]Frame, len(frames))
	for i, f := range frames {
		for _, pattern := range pathNormalizationPatterns {
			f.AbsPath = pattern.ReplaceAllString(f.AbsPath, "/[PATH]/")
		}
		result[i] = f
	}
	return result
}

func (s *Scrubber) scrubValue(val any) any {
	switch v := val.(type) {
	case nil, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return v
	case string:
		return s.truncateValue(s.ScrubMessage(v))
	case map[string]any:
		return s.ScrubExtra(v)
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = s.scrubValue(item)
		}
		return result
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			if s.cfg.FailClosed {
				return redactedScrubFail
			}
			return v
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			if s.cfg.FailClosed {
				return redactedScrubFail
			}
			return v
		}
		return s.scrubValue(generic)
	}
}

func (s *Scrubber) truncateValue(v string) string {
	if s.cfg.MaxValueSize > 0 && len(v) > s.cfg.MaxValueSize {
		return truncateWithMarker(v, s.cfg.MaxValueSize)
	}
	return v
}

// isSensitiveKey checks if a key matches sensitive patterns.
func (s *Scrubber) isSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	for _, pattern := range s.cfg.SensitiveKeys {
		if pattern != "" && strings.Contains(keyLower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// truncateWithMarker truncates a string and adds a truncation marker.
func truncateWithMarker(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= len(truncationMarker) {
		return truncationMarker[:maxLen]
	}
	return s[:maxLen-len(truncationMarker)] + truncationMarker
}
