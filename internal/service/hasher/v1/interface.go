// Package hasher provides one-way password hashing functionality.
package hasher

// Hasher defines a set of methods for types implementing Hasher.
type Hasher interface {
	Hash(password string) (string, error)
	Check(password string, hash string) bool
}
