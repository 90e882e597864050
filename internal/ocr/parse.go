package ocr

import (
	"regexp"
	"strings"
	"time"
)

// UnknownName is used when the scanned text contains no usable line to treat
// as a name.
const UnknownName = "Unknown"

var dobPattern = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)

// ExtractedIdentity holds the fields parsed out of a document scan. Absent
// fields are expected OCR outcomes, not failures.
type ExtractedIdentity struct {
	Name        string
	DateOfBirth *time.Time
	RawText     string
}

// Verified reports whether extraction produced something beyond the
// sentinels: a real name or a date of birth.
func (e ExtractedIdentity) Verified() bool {
	return e.Name != UnknownName || e.DateOfBirth != nil
}

// ParseIdentity extracts identity fields from raw OCR text. It is a pure
// function and never fails: the name is the first non-blank line (trimmed),
// falling back to UnknownName, and the date of birth is the first
// YYYY-MM-DD match that parses as a calendar date.
//
// "First line is the name" is a deliberate, documented heuristic; document
// layouts vary too much for anything structural.
func ParseIdentity(text string) ExtractedIdentity {
	identity := ExtractedIdentity{
		Name:    UnknownName,
		RawText: text,
	}

	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			identity.Name = trimmed
			break
		}
	}

	for _, match := range dobPattern.FindAllString(text, -1) {
		if dob, err := time.Parse("2006-01-02", match); err == nil {
			identity.DateOfBirth = &dob
			break
		}
	}

	return identity
}
