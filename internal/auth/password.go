package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes the password with bcrypt. Each call salts the hash
// freshly, so hashing the same password twice yields different strings.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// A malformed hash fails closed: the result is false, never an error the
// caller could use to tell users apart.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
