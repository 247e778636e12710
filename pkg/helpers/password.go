package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for new hashes. Tests may lower it.
var PasswordCost = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	return string(b), err
}

// CheckPassword reports whether plain matches the stored bcrypt hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
