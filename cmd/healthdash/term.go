// ABOUTME: Terminal width detection for the dashboard grid.
// ABOUTME: Asks the terminal first, then $COLUMNS, then a fixed width.
package main

import (
	"os"
	"strconv"

	"golang.org/x/term"
)

const fallbackTermWidth = 120

func terminalWidth() int {
	return widthOf(int(os.Stdout.Fd()))
}

// widthOf reports the width of the terminal on fd. Pipes and files are not
// terminals, so they fall back to $COLUMNS and then fallbackTermWidth.
func widthOf(fd int) int {
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return fallbackTermWidth
}
