// Package watch reports changes made to the open document by other
// programs.
package watch
