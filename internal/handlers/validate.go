package handlers

import "regexp"

var (
	emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegexp = regexp.MustCompile(`^[0-9]{10,15}$`)
)

func isValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

func isValidPhone(phone string) bool {
	return phoneRegexp.MatchString(phone)
}
