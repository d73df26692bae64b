// Package processor renders documents to HTML without the GUI. It backs the
// export command: single files or a batch list file are run through the
// configured render engine and written next to the source or into an
// output directory.
package processor
