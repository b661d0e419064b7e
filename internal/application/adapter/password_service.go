package adapter

// PasswordService hashes and checks account passwords.
type PasswordService interface {
	HashPassword(password string) (string, error)

	// VerifyPassword returns an error when password does not match hashedPassword.
	VerifyPassword(hashedPassword, password string) error

	// ValidatePasswordStrength rejects passwords shorter than the registration minimum.
	ValidatePasswordStrength(password string) error
}
