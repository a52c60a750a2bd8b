package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers to interactive questions.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal file descriptor of in, or -1.
	fd int
}

// NewPrompter returns a Prompter reading from in and writing questions to
// out. Secret input is hidden when in is a terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

// Prompt prints msg and reads a single trimmed line.
func (p *Prompter) Prompt(msg string) string {
	fmt.Fprintf(p.out, "%s: ", msg)
	line, _ := p.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// Secret prints msg and reads a line without echoing it when reading from a
// terminal.
func (p *Prompter) Secret(msg string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", msg)
	if p.fd < 0 {
		line, err := p.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Confirm prints msg and expects y/n. Anything but y or yes is a no.
func (p *Prompter) Confirm(msg string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", msg)
	line, _ := p.in.ReadString('\n')
	resp := strings.TrimSpace(strings.ToLower(line))
	return resp == "y" || resp == "yes"
}
