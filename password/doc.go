// Package password provides the default bcrypt credential hasher. Hosts with
// an existing hashing scheme can supply their own implementation of the
// engine's PasswordHasher port instead.
package password
