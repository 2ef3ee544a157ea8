package infra

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// ConsolePrompter implements domain.Prompter over an io.Reader/Writer
// pair so tests can script the operator's responses.
type ConsolePrompter struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
}

// NewConsolePrompter creates a prompter on stdin/stdout.
func NewConsolePrompter() *ConsolePrompter {
	return NewConsolePrompterIO(os.Stdin, os.Stdout)
}

// NewConsolePrompterIO creates a prompter on custom streams.
func NewConsolePrompterIO(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: in, out: out, reader: bufio.NewReader(in)}
}

// Prompt displays label and returns the entered line, trimmed. Empty
// input is accepted; validation is not this tool's job.
func (p *ConsolePrompter) Prompt(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read response for %q: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}

// PromptSecret reads a value without echoing when the input is a
// terminal, falling back to a plain line read otherwise (piped input,
// tests).
func (p *ConsolePrompter) PromptSecret(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(p.out, "%s: ", label)
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read secret for %q: %w", label, err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return p.Prompt(label)
}

// Ensure ConsolePrompter implements domain.Prompter.
var _ domain.Prompter = (*ConsolePrompter)(nil)
