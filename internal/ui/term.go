package ui

import "golang.org/x/term"

const fallbackWidth = 80

// Width returns the column count of the terminal on fd. Non-terminals get 0,
// which turns path truncation off; a terminal whose size cannot be read
// gets 80.
func Width(fd uintptr) int {
	n := int(fd) //nolint:gosec // G115: descriptors fit in int
	if !term.IsTerminal(n) {
		return 0
	}
	if w, _, err := term.GetSize(n); err == nil && w > 0 {
		return w
	}
	return fallbackWidth
}
