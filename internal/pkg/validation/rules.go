package validation

import (
	"regexp"
	"strings"

	"github.com/yigit/techfest/internal/app/models"
)

// Validation rule patterns
var (
	// Loose email shape: something@something.something, no whitespace
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	// WhatsApp number - exactly 10 digits
	WhatsappPattern = `^\d{10}$`

	// Name, college and branch min length after trimming
	TextMinLength = 2

	// IEEE membership number min length after trimming
	MembershipNumberMinLength = 5
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	Whatsapp *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	Whatsapp: regexp.MustCompile(WhatsappPattern),
}

// IsEmail reports whether s looks like an email address
func IsEmail(s string) bool {
	return CompiledPatterns.Email.MatchString(s)
}

// IsWhatsapp reports whether s is a 10 digit phone number
func IsWhatsapp(s string) bool {
	return CompiledPatterns.Whatsapp.MatchString(s)
}

// IsSemester reports whether s is an accepted semester value
func IsSemester(s string) bool {
	return models.Semester(s).IsValid()
}

// HasMinTrimmedLength checks the length of s without surrounding whitespace
func HasMinTrimmedLength(s string, min int) bool {
	return len([]rune(strings.TrimSpace(s))) >= min
}
