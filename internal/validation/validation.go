// Package validation holds pure input validators shared by signup and
// funding. No I/O, no side effects.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	MinAge = 18
	MaxAge = 120

	MinPasswordLength = 12
)

// Result reports a single-reason validation outcome. Message is empty when
// Valid is true.
type Result struct {
	Valid   bool
	Message string
}

func ok() Result {
	return Result{Valid: true}
}

func invalid(message string) Result {
	return Result{Valid: false, Message: message}
}

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	dobRegex        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	phoneRegex      = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)
	bankAcctRegex   = regexp.MustCompile(`^\d{4,17}$`)
	routingRegex    = regexp.MustCompile(`^\d{9}$`)
	cardDigitsRegex = regexp.MustCompile(`^\d{13,19}$`)
)

// commonTypos are domain suffixes that almost always mean ".com".
var commonTypos = []string{".con", ".cmo", ".cm", "@gamil.com", "@yaho.com"}

func ValidateEmail(value string) Result {
	if !emailRegex.MatchString(value) {
		return invalid("Invalid email address")
	}
	lower := strings.ToLower(value)
	for _, typo := range commonTypos {
		if strings.HasSuffix(lower, typo) {
			corrected := value[:len(value)-len(typo)] + ".com"
			return invalid(fmt.Sprintf("Did you mean %s?", corrected))
		}
	}
	return ok()
}

// ValidateDateOfBirth expects YYYY-MM-DD. Checks run in priority order:
// format, calendar validity, future date, minimum age, maximum age.
func ValidateDateOfBirth(value string) Result {
	if !dobRegex.MatchString(value) {
		return invalid("Date of birth must be a valid date")
	}

	dob, err := time.Parse("2006-01-02", value)
	if err != nil {
		// Matches the shape but is not a real calendar date (e.g. Feb 30).
		return invalid("Date of birth must be a valid date")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if dob.After(today) {
		return invalid("Date of birth cannot be in the future")
	}

	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}

	if age < MinAge {
		return invalid(fmt.Sprintf("You must be at least %d years old", MinAge))
	}
	if age > MaxAge {
		return invalid(fmt.Sprintf("Age must be %d or younger", MaxAge))
	}

	return ok()
}

var commonPasswords = []string{
	"password",
	"12345678",
	"qwerty",
	"letmein",
	"admin",
	"welcome",
	"iloveyou",
	"123456789",
	"password1",
	"abc123",
}

// PasswordResult accumulates every violated rule rather than failing fast,
// so the caller can show the full list at once.
type PasswordResult struct {
	Valid  bool
	Errors []string
}

func ValidatePassword(value string) PasswordResult {
	var errs []string

	if len(value) < MinPasswordLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	lower := strings.ToLower(value)
	for _, common := range commonPasswords {
		if lower == common {
			errs = append(errs, "Password is too common")
			break
		}
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasLower {
		errs = append(errs, "Password must contain a lowercase letter")
	}
	if !hasUpper {
		errs = append(errs, "Password must contain an uppercase letter")
	}
	if !hasDigit {
		errs = append(errs, "Password must contain a number")
	}
	if !hasSymbol {
		errs = append(errs, "Password must contain a symbol")
	}

	return PasswordResult{Valid: len(errs) == 0, Errors: errs}
}

// NormalizeCardNumber strips spaces and dashes.
func NormalizeCardNumber(value string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(value)
}

// IsValidCardNumber reports whether the value is 13-19 digits after
// normalization and passes the Luhn checksum.
func IsValidCardNumber(value string) bool {
	normalized := NormalizeCardNumber(value)
	if !cardDigitsRegex.MatchString(normalized) {
		return false
	}

	sum := 0
	double := false
	for i := len(normalized) - 1; i >= 0; i-- {
		digit := int(normalized[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}

func IsValidBankAccountNumber(value string) bool {
	return bankAcctRegex.MatchString(value)
}

func IsValidRoutingNumber(value string) bool {
	return routingRegex.MatchString(value)
}

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

func NormalizePhoneNumber(value string) string {
	return phoneSeparators.Replace(value)
}

func ValidatePhoneNumber(value string) Result {
	if !phoneRegex.MatchString(NormalizePhoneNumber(value)) {
		return invalid("Invalid phone number (E.164 format expected)")
	}
	return ok()
}

// validStateCodes covers the 50 states, DC and the US territories.
var validStateCodes = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
	"DC": {}, "AS": {}, "GU": {}, "MP": {}, "PR": {}, "VI": {},
}

func ValidateState(value string) Result {
	if _, found := validStateCodes[strings.ToUpper(value)]; !found {
		return invalid("Invalid state code")
	}
	return ok()
}
