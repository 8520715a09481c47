// Package plserrors provides error definitions shared by the schema tooling.
//
// Errors returned by the other packages wrap one of these sentinels, so
// callers can use [errors.Is] without depending on message text.
package plserrors
