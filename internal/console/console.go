// Package console is the line-oriented terminal the session talks through.
//
// Input and output are injected so a whole session can be scripted in
// tests with a strings.Reader and a bytes.Buffer.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultMarker is printed in front of every input line.
const DefaultMarker = ">> CMS: "

// Console reads one line at a time and writes prompts, notices and errors.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	marker string
}

// New returns a console reading from in and writing to out. An empty
// marker falls back to DefaultMarker.
func New(in io.Reader, out io.Writer, marker string) *Console {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		marker: marker,
	}
}

// Out exposes the writer for table rendering.
func (c *Console) Out() io.Writer { return c.out }

// ReadLine reads one line without its line ending. Whitespace inside the
// line is preserved: validators decide how to trim. io.EOF is returned only
// when there is nothing left to read.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Ask prints question followed by the input marker and reads the answer.
func (c *Console) Ask(question string) (string, error) {
	fmt.Fprintf(c.out, "%s\n%s", question, c.marker)
	return c.ReadLine()
}

// Printf writes formatted text.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Notice writes a status line tagged with the operation, e.g.
//
//	CMS <INSERT>: Student record inserted successfully!
func (c *Console) Notice(op, format string, args ...any) {
	tag := "CMS"
	if op != "" {
		tag = "CMS <" + op + ">"
	}
	fmt.Fprintf(c.out, "\n%s: %s\n", tag, fmt.Sprintf(format, args...))
}

// Error writes an error line in the "[Error] ..." style.
func (c *Console) Error(err error) {
	fmt.Fprintf(c.out, "\n[Error] %s\n", err.Error())
}

// Retry writes a user-correctable error and asks for another attempt.
func (c *Console) Retry(err error) {
	fmt.Fprintf(c.out, "\n[Error] %s Please try again!\n", err.Error())
}

// Pause waits for the user to press Enter.
func (c *Console) Pause() error {
	fmt.Fprintf(c.out, "%sPress [Enter] to continue..", c.marker)
	_, err := c.ReadLine()
	fmt.Fprintln(c.out)
	return err
}
