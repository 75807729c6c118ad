package notifications

import (
	"strings"
)

// MaskEmail hides the local part of an address, keeping its first and last
// character when it is longer than four characters.
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "**@**.**"
	}

	account := []rune(parts[0])
	if len(account) <= 4 {
		return "**@" + parts[1]
	}
	return string(account[0]) + "**" + string(account[len(account)-1]) + "@" + parts[1]
}
