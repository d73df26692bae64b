// Package translation turns markup into rendered output through a
// render.Publisher, memoizing results by content digest so that repeated
// renders of unchanged text cost nothing.
package translation
