package dialog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

var icons = map[Kind]string{
	KindAlert:   "!",
	KindConfirm: "?",
	KindSuccess: "+",
	KindError:   "x",
}

// Terminal draws dialogs as framed text and reads answers line by line.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader

	attached bool
	current  Dialog
}

var _ Overlay = (*Terminal)(nil)

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Render(d Dialog) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attached = true
	t.current = d

	header := fmt.Sprintf("[%s] %s", icon(d.Kind), title(d))
	lines := strings.Split(d.Message, "\n")

	width := utf8.RuneCountInString(header)
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}

	bar := "+" + strings.Repeat("-", width+2) + "+"
	fmt.Fprintln(t.out, bar)
	fmt.Fprintf(t.out, "| %-*s |\n", width, header)
	fmt.Fprintln(t.out, bar)
	for _, l := range lines {
		fmt.Fprintf(t.out, "| %-*s |\n", width, l)
	}
	fmt.Fprintln(t.out, bar)
	if d.Cancellable() {
		fmt.Fprint(t.out, "Proceed? [Y/n] ")
	} else {
		fmt.Fprint(t.out, "Press enter to continue ")
	}
}

func (t *Terminal) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.attached {
		fmt.Fprintln(t.out)
	}
}

func (t *Terminal) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attached = false
}

func icon(k Kind) string {
	if i, ok := icons[k]; ok {
		return i
	}
	return icons[KindAlert]
}

// title falls back to the capitalised kind, or "Notice" without one.
func title(d Dialog) string {
	switch {
	case d.Title != "":
		return d.Title
	case d.Kind == "":
		return "Notice"
	default:
		return strings.ToUpper(string(d.Kind)[:1]) + string(d.Kind)[1:]
	}
}

// Answer reads one line from the input and applies it to m: y or an empty
// line accepts, q or end of input counts as a click outside the dialog and
// anything else declines.
func (t *Terminal) Answer(m *Manager) error {
	line, err := t.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if errors.Is(err, io.EOF) && line == "" {
		m.ClickOutside()
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		m.Accept()
	case "q":
		m.ClickOutside()
	default:
		m.Decline()
	}
	return nil
}

// Shown returns the dialog currently attached, if any.
func (t *Terminal) Shown() (Dialog, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.attached
}
