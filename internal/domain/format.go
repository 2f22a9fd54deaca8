package domain

import (
	"regexp"
	"strings"
	"time"
)

// DefaultFormat is the container every native capture produces.
const DefaultFormat = "m4a"

var audioFormats = []string{"m4a", "mp3", "wav", "webm", "ogg", "flac"}

var textFormats = []string{"txt", "pdf"}

var mimeTypes = map[string]string{
	"m4a":  "audio/m4a",
	"mp3":  "audio/mpeg",
	"wav":  "audio/wav",
	"webm": "audio/webm",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
	"txt":  "text/plain",
	"pdf":  "application/pdf",
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SupportedFormats lists every accepted file extension, audio first.
func SupportedFormats() []string {
	out := make([]string, 0, len(audioFormats)+len(textFormats))
	out = append(out, audioFormats...)
	out = append(out, textFormats...)
	return out
}

// IsAudioFormat reports whether the extension is a supported audio container.
func IsAudioFormat(ext string) bool {
	return containsFold(audioFormats, ext)
}

// IsTextFormat reports whether the extension is a supported transcript document.
func IsTextFormat(ext string) bool {
	return containsFold(textFormats, ext)
}

// IsSupportedFormat reports whether the extension may be imported at all.
func IsSupportedFormat(ext string) bool {
	return IsAudioFormat(ext) || IsTextFormat(ext)
}

// FileExtension extracts the lowercase extension from a file name or
// location, falling back to the native capture format when there is none.
func FileExtension(name string) string {
	trimmed := strings.TrimSpace(name)
	idx := strings.LastIndex(trimmed, ".")
	if idx < 0 || idx == len(trimmed)-1 {
		return DefaultFormat
	}
	return strings.ToLower(trimmed[idx+1:])
}

// MIMEType resolves the content type for an extension. Unknown extensions
// fall back to the native capture content type; the extension is validated
// before it ever reaches submission.
func MIMEType(ext string) string {
	if mime, ok := mimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "audio/m4a"
}

// ValidEmail reports whether the address looks like local@domain.tld with no
// embedded whitespace.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// FormatDateISO renders a calendar date as YYYY-MM-DD in the date's own
// location, so a late-night entry never shifts to the previous or next day.
func FormatDateISO(date time.Time) string {
	return date.Format("2006-01-02")
}

func containsFold(set []string, ext string) bool {
	for _, candidate := range set {
		if strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}
