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

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prompts on w and returns the next line from reader without
// surrounding whitespace. Input cut short by EOF still counts as a line.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s\n> ", prompt)

	line, err := reader.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword reads a secret from the terminal with echo turned off. The
// caller wipes the returned slice once done.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", prompt)
	defer fmt.Fprintln(w)

	return readPassword(int(os.Stdin.Fd()))
}

// GetMultiline reads lines until an empty one and joins them with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
