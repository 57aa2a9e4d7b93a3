package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped in tests; the real one needs a terminal on stdin.
var readPassword = term.ReadPassword

// ReadLine writes "label: " to w and returns the next line from reader with
// surrounding whitespace removed. A last line without a trailing newline is
// accepted, so piping `echo -n admin | admin register` works.
func ReadLine(reader *bufio.Reader, label string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSecret asks for the admin password with echo turned off. The slice is
// handed to the API client as is; callers wipe it with common.WipeByteArray.
func ReadSecret(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return nil, err
	}

	secret, err := readPassword(int(os.Stdin.Fd()))
	// echo is off, so the user's Enter never reached the terminal
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return secret, nil
}
