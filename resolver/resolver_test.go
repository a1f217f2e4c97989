package resolver_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marcuscaisey/golox/parser"
	"github.com/marcuscaisey/golox/resolver"
)

// resolveDistances resolves src and returns the recorded distances keyed by "lexeme:line". The test programs are
// written so that no two references to the same name on the same line resolve to different distances.
func resolveDistances(t *testing.T, src string) map[string]int {
	t.Helper()
	program, err := parser.Parse(strings.NewReader(src), "test.lox")
	if err != nil {
		t.Fatalf("Parse returned unexpected error: %s", err)
	}
	declDistancesByTok, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve returned unexpected error: %s", err)
	}
	got := map[string]int{}
	for tok, distance := range declDistancesByTok {
		got[fmt.Sprintf("%s:%d", tok.Lexeme, tok.StartPos.Line)] = distance
	}
	return got
}

func TestResolve(t *testing.T) {
	tests := map[string]struct {
		src  string
		want map[string]int
	}{
		"globals are not resolved": {
			src: `var a = 1;
print a;
a = 2;`,
			want: map[string]int{},
		},
		"references in a block resolve to the declaring scope": {
			src: `var a = 1;
{
  var a = 2;
  print a;
  {
    print a;
  }
}
print a;`,
			want: map[string]int{
				"a:4": 0,
				"a:6": 1,
			},
		},
		"parameters resolve to the function scope": {
			src: `fun f(x) {
  return x;
}`,
			want: map[string]int{
				"x:2": 0,
			},
		},
		"closures capture enclosing function variables": {
			src: `fun makeCounter() {
  var count = 0;
  fun increment() {
    count = count + 1;
    return count;
  }
  return increment;
}
var counter = makeCounter();`,
			want: map[string]int{
				"count:4":     1,
				"count:5":     1,
				"increment:7": 0,
			},
		},
		"this and super resolve to the implicit class scopes": {
			src: `class A {
  m() {
    return 1;
  }
}
class B < A {
  m() {
    print this;
    return super.m();
  }
}`,
			want: map[string]int{
				"this:8":  1,
				"super:9": 2,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := resolveDistances(t, test.src)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("incorrect distances (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := map[string]struct {
		src     string
		wantErr string
	}{
		"redeclaration in the same local scope": {
			src:     "{ var a = 1; var a = 2; }",
			wantErr: "already a variable with this name in this scope",
		},
		"duplicate parameter names": {
			src:     "fun f(a, a) {}",
			wantErr: "already a variable with this name in this scope",
		},
		"variable read in its own initialiser": {
			src:     "{ var a = a; }",
			wantErr: "can't read local variable in its own initializer",
		},
		"return outside of a function": {
			src:     "return 1;",
			wantErr: "can't return from top-level code",
		},
		"return with a value from an initializer": {
			src:     "class C { init() { return 1; } }",
			wantErr: "can't return a value from an initializer",
		},
		"this outside of a class": {
			src:     "print this;",
			wantErr: "can't use 'this' outside of a class",
		},
		"super outside of a class": {
			src:     "fun f() { return super.m; }",
			wantErr: "can't use 'super' outside of a class",
		},
		"super in a class with no superclass": {
			src:     "class C { m() { return super.m; } }",
			wantErr: "can't use 'super' in a class with no superclass",
		},
		"class inheriting from itself": {
			src:     "class C < C {}",
			wantErr: "a class can't inherit from itself",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			program, err := parser.Parse(strings.NewReader(test.src), "test.lox")
			if err != nil {
				t.Fatalf("Parse returned unexpected error: %s", err)
			}
			_, err = resolver.Resolve(program)
			if err == nil {
				t.Fatalf("Resolve(%q) returned nil error, want error containing %q", test.src, test.wantErr)
			}
			if !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("Resolve(%q) error = %q, want error containing %q", test.src, err, test.wantErr)
			}
		})
	}
}
