// Package testutil holds test helpers shared across packages: file
// fixtures, assertions and a stub render.Publisher.
package testutil
