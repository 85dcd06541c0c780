package utils

import "regexp"

// visaPattern matches card numbers starting with 4 and 13 or 16 digits
// long, the same detection rule the card store always used.
var visaPattern = regexp.MustCompile(`^4\d{12}(?:\d{3})?$`)

// DetectCardType classifies a plain card number as "Visa" or "Other".
func DetectCardType(number string) string {
	if visaPattern.MatchString(number) {
		return "Visa"
	}
	return "Other"
}
