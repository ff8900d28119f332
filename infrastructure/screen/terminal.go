// Package screen renders two-line device prompts and collects operator
// approvals for them.
package screen

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Terminal renders prompts on the controlling terminal. Each prompt is
// printed as the two lines a device screen would show, and approvals are read
// from standard input.
type Terminal struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewTerminal returns a Terminal bound to standard input and output.
func NewTerminal() *Terminal {
	return &Terminal{
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
	}
}

// Confirm prints the given prompt and waits for the operator to approve or
// reject it.
func (t *Terminal) Confirm(line1, line2 string) (bool, error) {
	_, err := fmt.Fprintf(t.writer, "\n\t%s\n\t%s\nApprove (type 'y' to approve)? ", line1, line2)
	if err != nil {
		return false, errors.Wrap(err, "could not write the prompt to the terminal")
	}

	line, _, err := t.reader.ReadLine()
	if err != nil {
		return false, errors.Wrap(err, "could not read the approval from the terminal")
	}

	return string(line) == "y", nil
}

// Show prints the given two lines without asking for approval.
func (t *Terminal) Show(line1, line2 string) error {
	_, err := fmt.Fprintf(t.writer, "\n\t%s\n\t%s\n", line1, line2)
	if err != nil {
		return errors.Wrap(err, "could not write to the terminal")
	}

	return nil
}
