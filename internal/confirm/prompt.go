package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt is the interactive terminal strategy, the native-dialog analog.
type Prompt struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints the question and reads a y/n line. EOF, an unreadable
// input or a cancelled context all resolve to a quiet "no".
func (p Prompt) Confirm(ctx context.Context, title, message string) (bool, error) {
	fmt.Fprintf(p.Out, "%s\n%s [y/N]: ", title, message)

	type answer struct {
		yes bool
	}
	ch := make(chan answer, 1)

	go func() {
		reader := bufio.NewReader(p.In)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			ch <- answer{}
			return
		}
		line = strings.ToLower(strings.TrimSpace(line))
		ch <- answer{yes: line == "y" || line == "yes"}
	}()

	select {
	case <-ctx.Done():
		// The prompt's reader goroutine is abandoned; its eventual answer
		// lands in the buffered channel and is dropped.
		return false, nil
	case a := <-ch:
		return a.yes, nil
	}
}

// Detect picks the gateway for this process: an interactive Prompt when
// stdin is a terminal, otherwise the context-carried strategy.
func Detect(in *os.File, out io.Writer) Gateway {
	if in != nil && term.IsTerminal(int(in.Fd())) {
		return Prompt{In: in, Out: out}
	}
	return Context{}
}
