package keychain

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// getPassword prints the prompt and reads a password from stdin with the
// terminal echo turned off.
func getPassword(prompt string) ([]byte, error) {
	stdin := int(syscall.Stdin)
	initialState, err := term.GetState(stdin)
	if err != nil {
		return nil, errors.Wrap(err, "could not read the terminal state")
	}

	// An interrupt during ReadPassword would leave the terminal with echo
	// off, so restore the initial state before dying.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer func() {
		signal.Stop(interrupt)
		close(interrupt)
	}()
	go func() {
		_, signalled := <-interrupt
		if !signalled {
			return
		}
		_ = term.Restore(stdin, initialState)
		os.Exit(1)
	}()

	fmt.Print(prompt)
	password, err := term.ReadPassword(stdin)
	fmt.Println()
	if err != nil {
		return nil, errors.Wrap(err, "could not read the password")
	}

	return password, nil
}
