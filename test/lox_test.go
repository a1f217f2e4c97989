// Package test runs the interpreter against the corpus of Lox files under test/testdata.
// The expected output of each file is embedded in its comments: each line printed to stdout is declared by a
// "// prints:" comment and each expected error by an "// error:" comment. The "// prints:" comments can be regenerated
// from the actual stdout of the interpreter by passing the -update flag to the test binary; "// error:" comments are
// not updated.
package test

import (
	"bytes"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/marcuscaisey/golox/interpreter"
	"github.com/marcuscaisey/golox/parser"
	"github.com/marcuscaisey/golox/resolver"
	"github.com/marcuscaisey/golox/test/loxtest"
)

var (
	printsRe = regexp.MustCompile(`// prints: (.+)`)
	errorRe  = regexp.MustCompile(`// error: (.+)`)
)

func TestLox(t *testing.T) {
	loxtest.Run(t, &runner{})
}

type runner struct{}

type result struct {
	Stdout string
	Err    error
}

// run runs the Lox file at path through the full pipeline and captures its output.
func (r *runner) run(t *testing.T, path string) *result {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	program, err := parser.Parse(f, path)
	if err != nil {
		return &result{Err: err}
	}
	declDistancesByTok, err := resolver.Resolve(program)
	if err != nil {
		return &result{Err: err}
	}
	var stdout bytes.Buffer
	err = interpreter.New(interpreter.WithStdout(&stdout)).Interpret(program, declDistancesByTok)
	return &result{Stdout: stdout.String(), Err: err}
}

func (r *runner) Test(t *testing.T, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var wantStdout strings.Builder
	for _, line := range loxtest.ParseComments(data, printsRe) {
		wantStdout.Write(line)
		wantStdout.WriteByte('\n')
	}
	wantErrors := loxtest.ParseComments(data, errorRe)

	got := r.run(t, path)

	if diff := loxtest.ComputeTextDiff(wantStdout.String(), got.Stdout); diff != "" {
		t.Errorf("incorrect output printed to stdout:\n%s", diff)
	}

	if len(wantErrors) == 0 {
		if got.Err != nil {
			t.Errorf("unexpected error: %s", got.Err)
		}
		return
	}
	if got.Err == nil {
		t.Fatalf("no error reported, want an error containing %q", wantErrors)
	}
	for _, want := range wantErrors {
		if !strings.Contains(got.Err.Error(), string(want)) {
			t.Errorf("error does not contain %q:\n%s", want, got.Err)
		}
	}
}

func (r *runner) Update(t *testing.T, path string) {
	t.Logf("updating expected output for %s", path)

	got := r.run(t, path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var lines [][]byte
	if got.Stdout != "" {
		for _, line := range strings.Split(strings.TrimSuffix(got.Stdout, "\n"), "\n") {
			lines = append(lines, []byte(line))
		}
	}
	data = loxtest.MustUpdateComments(t, path, data, printsRe, lines)

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}
