package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword transforms a plaintext secret into a salted bcrypt hash.
// bcrypt embeds a random per-call salt, so hashing the same secret twice
// yields different values while both verify against it.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword reports whether candidate matches the stored hash. The
// underlying comparison is constant-time.
func CheckPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
