package display

import (
	"fmt"
	"io"

	"github.com/backmassage/photosift/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `       _           _            _  __ _
 _ __ | |__   ___ | |_ ___  ___(_)/ _| |_
| '_ \| '_ \ / _ \| __/ _ \/ __| | |_| __|
| |_) | | | | (_) | || (_) \__ \ |  _| |_
| .__/|_| |_|\___/ \__\___/|___/_|_|  \__|
|_|
`)
	fmt.Fprint(w, term.NC)
}
