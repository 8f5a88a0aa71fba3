package notification

import "strings"

// NormalizeMobileNumber converts a Philippine mobile number to the
// international form the gateway expects: "09171234567" becomes
// "639171234567" and a leading "+" is stripped.
func NormalizeMobileNumber(number string) string {
	n := strings.TrimSpace(number)
	n = strings.TrimPrefix(n, "+")
	if strings.HasPrefix(n, "09") {
		n = "63" + n[1:]
	}
	return n
}
