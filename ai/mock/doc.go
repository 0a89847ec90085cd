// Package mock provides in-memory test doubles for the ai interfaces.
// The mocks are deterministic by default and allow custom behavior
// injection via function fields.
package mock
