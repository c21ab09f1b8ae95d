package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNoAnswer = errors.New("no input available")

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(r), w: w}
}

// ask prints question and returns the trimmed reply. A final line without a
// trailing newline still counts; a closed input with nothing left is
// errNoAnswer.
func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.w, question)
	line, err := p.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		fmt.Fprintln(p.w)
		if errors.Is(err, io.EOF) {
			return "", errNoAnswer
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm treats an empty reply or "y" as yes.
func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.ask(question)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "" || answer == "y", nil
}

func (p *prompter) waitForEnter() {
	fmt.Fprint(p.w, "\nPress Enter to exit...")
	_, _ = p.r.ReadString('\n')
}
