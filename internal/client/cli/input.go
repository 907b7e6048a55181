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

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// stdinIsTerminal reports whether prompts should be printed. Piped input
// (scripts, tests) runs silently.
func stdinIsTerminal() bool {
	return isTerminal(int(os.Stdin.Fd()))
}

// readLine reads one line and trims it. A final line without newline is
// returned before EOF is reported.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSimpleText prints a prompt to w and reads a single line of input.
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

// GetOptional is GetSimpleText where an empty answer keeps current.
func GetOptional(reader *bufio.Reader, prompt, current string, w io.Writer) (string, error) {
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, current)
	}
	v, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

// GetRequired is GetSimpleText where an empty answer is an error.
func GetRequired(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	v, err := GetSimpleText(reader, prompt, w)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%s: value required", strings.ToLower(prompt))
	}
	return v, nil
}

// Confirm asks a yes/no question; only "y" and "yes" count as yes.
func Confirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	v, err := GetSimpleText(reader, prompt+" (yes/no)", w)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
