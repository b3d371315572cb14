package clean

import "strings"

var (
	phoneFillers      = strings.NewReplacer(" ", "", "+", "", "-", "", "(", "", ")", "")
	phoneDisjunctions = strings.NewReplacer("/", ";", ",", ";", "ou", ";")
)

// CleanPhone removes filler characters and replaces separators between
// multiple numbers with ";".
func CleanPhone(phone string) string {
	return phoneDisjunctions.Replace(phoneFillers.Replace(phone))
}

// Phone formats a phone number as "+<country> <area> <local>" (ITU-T E.123).
// Numbers without country or area code default to +55 and 21. ok is false if
// no format rule matches.
//
// A number with a leading trunk zero ("021...") needs a second pass, see
// FormatPhone. Phone does this second pass once.
func Phone(phone string) (string, bool) {
	cleaned := CleanPhone(phone)
	formatted, retry, ok := FormatPhone(cleaned)
	if !ok && retry != "" {
		formatted, _, ok = FormatPhone(retry)
	}
	return formatted, ok
}

// FormatPhone runs a single pass of the format rules over an already cleaned
// number. The first matching rule wins.
//
// For 11 character numbers starting with 0, FormatPhone only strips the zero
// and returns the stripped number as retry, with ok false.
func FormatPhone(s string) (formatted, retry string, ok bool) {
	r := []rune(s)
	n := len(r)
	switch {
	case n == 12:
		return "+" + sub(r, 0, 2) + " " + sub(r, 2, 4) + " " + sub(r, 4, 8) + "-" + sub(r, 8, 12), "", true
	case n == 13:
		// mobile numbers keep only 5+3 local digits
		return "+" + sub(r, 0, 2) + " " + sub(r, 2, 4) + " " + sub(r, 4, 9) + "-" + sub(r, 9, 12), "", true
	case n == 11 && r[0] == '0':
		return "", sub(r, 1, 11), false
	case n == 10 && sub(r, 0, 2) == "21":
		return "+55 " + sub(r, 0, 2) + " " + sub(r, 2, 6) + "-" + sub(r, 6, 10), "", true
	case n == 11 && sub(r, 0, 2) == "21":
		return "+55 " + sub(r, 0, 2) + " " + sub(r, 2, 7) + "-" + sub(r, 7, 11), "", true
	case n == 8:
		return "+55 21 " + sub(r, 0, 4) + "-" + sub(r, 4, 8), "", true
	case n == 9 && r[0] == '9':
		return "+55 21 " + sub(r, 0, 5) + "-" + sub(r, 5, 9), "", true
	case sub(r, 0, 4) == "0800":
		return sub(r, 0, 4) + "-" + sub(r, 4, 7) + "-" + sub(r, 7, 11), "", true
	case strings.ContainsRune(s, ';'):
		if n != 25 {
			return "", "", false
		}
		return "+" + sub(r, 0, 2) + " " + sub(r, 2, 4) + " " + sub(r, 4, 8) + "-" + sub(r, 8, 12) +
			" ; +" + sub(r, 13, 15) + " " + sub(r, 15, 17) + " " + sub(r, 17, 21) + "-" + sub(r, 21, 25), "", true
	}
	return "", "", false
}

// sub returns r[i:j] with both bounds clipped to len(r).
func sub(r []rune, i, j int) string {
	if j > len(r) {
		j = len(r)
	}
	if i > j {
		return ""
	}
	return string(r[i:j])
}
