// Package loxerr defines the type which describes a static error in a Lox program.
package loxerr

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/marcuscaisey/golox/token"
)

// Error describes an error that can be attributed to a range of characters in the source code.
type Error struct {
	Msg   string
	Start token.Position
	End   token.Position
}

// New creates a [*Error] with the given message and range.
func New(rang token.Range, message string) error {
	return Newf(rang, "%s", message)
}

// Newf creates a [*Error].
// The error message is constructed from the given format string and arguments, as in [fmt.Sprintf].
func Newf(rang token.Range, format string, args ...any) error {
	return &Error{
		Msg:   fmt.Sprintf(format, args...),
		Start: rang.Start(),
		End:   rang.End(),
	}
}

// Error formats the error by displaying the error message and highlighting the range of characters in the source code
// that the error applies to.
//
// For example:
//
//	2:7: error: unterminated string literal
//	print "bar;
//	      ~~~~~
func (e *Error) Error() string {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)

	var b strings.Builder
	buildString := func() string {
		return strings.TrimSuffix(b.String(), "\n")
	}

	bold.Fprintf(&b, "%s: %s %s\n", e.Start, red.Sprint("error:"), e.Msg)

	lines := make([]string, e.End.Line-e.Start.Line+1)
	for i := e.Start.Line; i <= e.End.Line; i++ {
		line := e.Start.File.Line(i)
		if !utf8.Valid(line) {
			// If any of the lines are not valid UTF-8 then we can't display the source code, so just return the error
			// message on its own.
			return buildString()
		}
		lines[i-e.Start.Line] = string(line)
	}

	printLineHighlight := func(line string, start, end int) {
		leadingWhitespace := strings.Repeat(" ", runewidth.StringWidth(line[:start]))
		tildes := strings.Repeat("~", runewidth.StringWidth(line[start:end]))
		fmt.Fprint(&b, leadingWhitespace, red.Sprint(tildes), "\n")
	}

	fmt.Fprintln(&b, lines[0])
	if e.Start == e.End {
		// There's nothing to highlight
		return buildString()
	}

	if len(lines) == 1 {
		printLineHighlight(lines[0], e.Start.Column, e.End.Column)
	} else {
		printLineHighlight(lines[0], e.Start.Column, len(lines[0]))
		for _, line := range lines[1 : len(lines)-1] {
			fmt.Fprintln(&b, line)
			printLineHighlight(line, 0, len(line))
		}
		if lastLine := lines[len(lines)-1]; len(lastLine) > 0 {
			fmt.Fprintln(&b, lastLine)
			printLineHighlight(lastLine, 0, e.End.Column)
		}
	}

	return buildString()
}

// Errors is a list of [*Error]s.
type Errors []*Error

// Add adds a [*Error] to the list of errors.
// The parameters are the same as for [New].
func (e *Errors) Add(rang token.Range, message string) {
	*e = append(*e, New(rang, message).(*Error))
}

// Addf adds a [*Error] to the list of errors.
// The parameters are the same as for [Newf].
func (e *Errors) Addf(rang token.Range, format string, args ...any) {
	*e = append(*e, Newf(rang, format, args...).(*Error))
}

// Error formats the errors by concatenating their messages.
func (e Errors) Error() string {
	if len(e) == 0 {
		panic("Error called on empty error list")
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns the error list unchanged if it's non-empty, otherwise nil.
// This should be used to return an [Errors] from a function as an [error] so that it becomes an untyped nil if there
// are no errors.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
