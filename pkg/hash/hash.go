package hash

import "golang.org/x/crypto/bcrypt"

// Cost matches the work factor the stored hashes were created with.
// Tests lower it to bcrypt.MinCost.
var Cost = 12

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
