// Package document holds the editor's document model: the text buffer,
// its file name and dirty flag, and the Editor controller that moves the
// document between the untitled/named and clean/dirty states while
// keeping the rendered preview current.
package document
