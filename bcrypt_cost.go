//go:build !race

package auth

// passwordHashCost is the work factor used for stored credentials.
// Changing it only affects newly hashed passwords.
func passwordHashCost() int {
	return 10
}
