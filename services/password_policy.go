package services

import (
	"fmt"
	"unicode"
)

// MinPasswordLength applies to accounts created from the admin CLI.
const MinPasswordLength = 8

// ValidatePassword checks the account password policy:
// - At least MinPasswordLength characters
// - At least one letter
// - At least one number
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return NewFieldError("password", fmt.Sprintf("パスワードは%d文字以上で入力してください", MinPasswordLength))
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasLetter || !hasNumber {
		return NewFieldError("password", "パスワードには英字と数字を含めてください")
	}
	return nil
}

// IsWeakPassword is a helper to check if a password is weak without returning specific error
func IsWeakPassword(password string) bool {
	return ValidatePassword(password) != nil
}
