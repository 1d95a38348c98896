package services

import (
	"regexp"
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt can hash
const MaxPasswordBytes = 72

// maxSimilarity is the match ratio above which a password counts as too
// close to the account email
const maxSimilarity = 0.7

// Password validation messages
const (
	MsgPasswordTooShort = "This password is too short. It must contain at least 8 characters."
	MsgPasswordNumeric  = "This password is entirely numeric."
	MsgPasswordCommon   = "This password is too common."
	MsgPasswordSimilar  = "The password is too similar to the email."
	MsgPasswordTooLong  = "This password is too long. It must contain at most 72 bytes."
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {},
	"123456789": {}, "1234567890": {}, "qwertyuiop": {}, "qwerty123": {},
	"iloveyou": {}, "sunshine": {}, "princess": {}, "football": {},
	"baseball": {}, "welcome1": {}, "abc12345": {}, "trustno1": {},
	"superman": {}, "whatever": {}, "starwars": {}, "passw0rd": {},
	"letmein1": {}, "michelle": {}, "jennifer": {}, "11111111": {},
	"00000000": {}, "88888888": {}, "87654321": {}, "computer": {},
	"corvette": {}, "mercedes": {}, "internet": {}, "shopping": {},
}

var nonWord = regexp.MustCompile(`\W+`)

// ValidatePassword returns every rule password breaks, checked against the
// account email for similarity.
func ValidatePassword(password, email string) []string {
	var msgs []string

	if similarToEmail(password, email) {
		msgs = append(msgs, MsgPasswordSimilar)
	}
	if len([]rune(password)) < MinPasswordLength {
		msgs = append(msgs, MsgPasswordTooShort)
	}
	if len(password) > MaxPasswordBytes {
		msgs = append(msgs, MsgPasswordTooLong)
	}
	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; ok {
		msgs = append(msgs, MsgPasswordCommon)
	}
	if isNumeric(password) {
		msgs = append(msgs, MsgPasswordNumeric)
	}

	return msgs
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarToEmail compares the password with the whole email and with each
// word of it, e.g. "jane", "doe" and "example" for jane.doe@example.com.
func similarToEmail(password, email string) bool {
	if email == "" || password == "" {
		return false
	}
	password = strings.ToLower(password)
	email = strings.ToLower(email)

	parts := append([]string{email}, nonWord.Split(email, -1)...)
	for _, part := range parts {
		if part == "" {
			continue
		}
		if matchRatio(password, part) >= maxSimilarity {
			return true
		}
	}
	return false
}

// matchRatio is 2*M/T where M counts characters in matching blocks found by
// repeatedly taking the longest common substring.
func matchRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(ra, rb)) / float64(total)
}

func matchingChars(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// longest common substring
	bestLen, bestA, bestB := 0, 0, 0
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > bestLen {
					bestLen, bestA, bestB = cur[j], i-cur[j], j-cur[j]
				}
			}
		}
		prev = cur
	}
	if bestLen == 0 {
		return 0
	}

	return bestLen +
		matchingChars(a[:bestA], b[:bestB]) +
		matchingChars(a[bestA+bestLen:], b[bestB+bestLen:])
}
