package interpreter_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marcuscaisey/golox/interpreter"
	"github.com/marcuscaisey/golox/parser"
	"github.com/marcuscaisey/golox/resolver"
)

// interpret runs src through the full pipeline and returns everything printed to stdout along with any runtime error.
func interpret(t *testing.T, src string) (string, error) {
	t.Helper()
	program, err := parser.Parse(strings.NewReader(src), "test.lox")
	if err != nil {
		t.Fatalf("Parse returned unexpected error: %s", err)
	}
	declDistancesByTok, err := resolver.Resolve(program)
	if err != nil {
		t.Fatalf("Resolve returned unexpected error: %s", err)
	}
	var stdout bytes.Buffer
	err = interpreter.New(interpreter.WithStdout(&stdout)).Interpret(program, declDistancesByTok)
	return stdout.String(), err
}

func TestInterpret(t *testing.T) {
	tests := map[string]struct {
		src  string
		want string
	}{
		"arithmetic follows precedence": {
			src:  "print 1 + 2 * 3;",
			want: "7\n",
		},
		"integral numbers print without a fractional part": {
			src:  "print 4.0; print 10 / 4; print -0.5;",
			want: "4\n2.5\n-0.5\n",
		},
		"string concatenation": {
			src:  `print "foo" + "bar";`,
			want: "foobar\n",
		},
		"unary operators": {
			src:  "print -(-3); print !nil; print !0;",
			want: "3\ntrue\nfalse\n",
		},
		"equality": {
			src: `print 1 == 1;
print 1 == "1";
print nil == nil;
print "a" != "b";
print true == true;`,
			want: "true\nfalse\ntrue\ntrue\ntrue\n",
		},
		"comparisons": {
			src:  "print 1 < 2; print 2 <= 2; print 3 > 4; print 3 >= 4;",
			want: "true\ntrue\nfalse\nfalse\n",
		},
		"division by zero follows IEEE-754": {
			src:  "print 1 / 0; print -1 / 0;",
			want: "+Inf\n-Inf\n",
		},
		"logical operators return operand values": {
			src: `print nil or "yes";
print 1 or 2;
print 0 and 1;
print false and 1;`,
			want: "yes\n1\n1\nfalse\n",
		},
		"variables default to nil": {
			src:  "var x; print x;",
			want: "nil\n",
		},
		"blocks shadow outer variables": {
			src: `var a = 1;
{
  var a = 2;
  print a;
}
print a;`,
			want: "2\n1\n",
		},
		"if and else use truthiness": {
			src: `if (0) print "zero is truthy"; else print "unreachable";
if ("") print "empty string is truthy";
if (nil) print "unreachable"; else print "nil is falsey";`,
			want: "zero is truthy\nempty string is truthy\nnil is falsey\n",
		},
		"while loop": {
			src: `var i = 0;
while (i < 3) {
  print i;
  i = i + 1;
}`,
			want: "0\n1\n2\n",
		},
		"for loop": {
			src:  "for (var i = 0; i < 3; i = i + 1) print i;",
			want: "0\n1\n2\n",
		},
		"functions return nil by default": {
			src:  "fun f() {} print f();",
			want: "nil\n",
		},
		"return unwinds to the call boundary": {
			src: `fun f() {
  while (true) {
    return 1;
  }
}
print f();`,
			want: "1\n",
		},
		"recursion": {
			src: `fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);`,
			want: "55\n",
		},
		"closures capture their defining environment": {
			src: `fun make() { var i = 0; fun inc() { i = i + 1; return i; } return inc; }
var c = make(); print c(); print c(); print c();`,
			want: "1\n2\n3\n",
		},
		"static resolution is not affected by later declarations": {
			src: `var a = "global";
{ fun show() { print a; } show(); var a = "local"; show(); }`,
			want: "global\nglobal\n",
		},
		"functions print with their name": {
			src:  "fun add(a, b) { return a + b; } print add;",
			want: "<fn add>\n",
		},
		"native functions print as native": {
			src:  "print clock;",
			want: "<native fn>\n",
		},
		"clock returns a number of milliseconds": {
			src:  "print clock() > 0;",
			want: "true\n",
		},
		"classes print as their name": {
			src:  "class Foo {} print Foo;",
			want: "Foo\n",
		},
		"instances print as the class name": {
			src:  "class Foo {} print Foo();",
			want: "Foo instance\n",
		},
		"fields can be set and read": {
			src: `class Box {}
var b = Box();
b.value = 42;
print b.value;`,
			want: "42\n",
		},
		"methods are bound to their instance": {
			src: `class Counter {
  init() { this.count = 0; }
  increment() { this.count = this.count + 1; return this.count; }
}
var c = Counter();
var inc = c.increment;
print inc();
print inc();`,
			want: "1\n2\n",
		},
		"fields shadow methods": {
			src: `class A { m() { return "method"; } }
var a = A();
a.m = "field";
print a.m;`,
			want: "field\n",
		},
		"initializer arguments": {
			src: `class P { init(x) { this.x = x; } }
var p = P(42); print p.x;`,
			want: "42\n",
		},
		"initializer returns the instance on early return": {
			src: `class C {
  init() {
    this.x = 1;
    return;
    this.x = 2;
  }
}
print C().x;`,
			want: "1\n",
		},
		"calling init directly returns the instance": {
			src: `class C { init() { this.x = 1; } }
print C().init();`,
			want: "C instance\n",
		},
		"methods are inherited": {
			src: `class A { speak() { print "A"; } }
class B < A {}
B().speak();`,
			want: "A\n",
		},
		"super calls the superclass method": {
			src: `class A { speak() { print "A"; } }
class B < A { speak() { super.speak(); print "B"; } }
B().speak();`,
			want: "A\nB\n",
		},
		"super resolves past the receiver's class": {
			src: `class A { m() { print "A.m"; } }
class B < A { m() { print "B.m"; } test() { super.m(); } }
class C < B {}
C().test();`,
			want: "A.m\n",
		},
		"initializers are inherited": {
			src: `class A { init(x) { this.x = x; } }
class B < A {}
print B(7).x;`,
			want: "7\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := interpret(t, test.src)
			if err != nil {
				t.Fatalf("Interpret returned unexpected error: %s", err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("incorrect output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterpretRuntimeErrors(t *testing.T) {
	tests := map[string]struct {
		src      string
		wantErr  string
		wantLine string
	}{
		"adding a string and a number": {
			src:      `print "a" + 1;`,
			wantErr:  "Operands must be two numbers or two strings.",
			wantLine: "[line 1]",
		},
		"subtracting strings": {
			src:      `print "a" - "b";`,
			wantErr:  "Operands must be numbers.",
			wantLine: "[line 1]",
		},
		"comparing mixed types": {
			src:      `print 1 < "2";`,
			wantErr:  "Operands must be numbers.",
			wantLine: "[line 1]",
		},
		"negating a string": {
			src:      `print -"a";`,
			wantErr:  "Operand must be a number.",
			wantLine: "[line 1]",
		},
		"undefined variable": {
			src:      "print x;",
			wantErr:  "Undefined variable 'x'.",
			wantLine: "[line 1]",
		},
		"assigning to an undefined variable": {
			src:      "x = 1;",
			wantErr:  "Undefined variable 'x'.",
			wantLine: "[line 1]",
		},
		"calling a non-callable": {
			src:      `"not a function"();`,
			wantErr:  "Can only call functions and classes.",
			wantLine: "[line 1]",
		},
		"too few arguments": {
			src:      "fun f(a, b) {}\nf(1);",
			wantErr:  "Expected 2 arguments but got 1.",
			wantLine: "[line 2]",
		},
		"too many arguments": {
			src:      "fun f(a) {}\nf(1, 2);",
			wantErr:  "Expected 1 arguments but got 2.",
			wantLine: "[line 2]",
		},
		"class arity comes from init": {
			src:      "class P { init(x) {} }\nP();",
			wantErr:  "Expected 1 arguments but got 0.",
			wantLine: "[line 2]",
		},
		"property access on a non-instance": {
			src:      `var s = "x";
s.length;`,
			wantErr:  "Only instances have properties.",
			wantLine: "[line 2]",
		},
		"field assignment on a non-instance": {
			src:      "true.x = 1;",
			wantErr:  "Only instances have fields.",
			wantLine: "[line 1]",
		},
		"undefined property": {
			src:      "class A {}\nA().missing;",
			wantErr:  "Undefined property 'missing'.",
			wantLine: "[line 2]",
		},
		"undefined superclass method": {
			src: `class A {}
class B < A { m() { super.missing(); } }
B().m();`,
			wantErr:  "Undefined property 'missing'.",
			wantLine: "[line 2]",
		},
		"superclass must be a class": {
			src:      "var NotAClass = 1;\nclass B < NotAClass {}",
			wantErr:  "Superclass must be a class.",
			wantLine: "[line 2]",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := interpret(t, test.src)
			if err == nil {
				t.Fatalf("Interpret(%q) returned nil error, want error containing %q", test.src, test.wantErr)
			}
			for _, want := range []string{test.wantErr, test.wantLine} {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Interpret(%q) error = %q, want error containing %q", test.src, err, want)
				}
			}
		})
	}
}

// TestInterpretMaintainsGlobalState checks that global state persists across calls to Interpret on the same
// interpreter.
func TestInterpretMaintainsGlobalState(t *testing.T) {
	var stdout bytes.Buffer
	interp := interpreter.New(interpreter.WithStdout(&stdout))

	for _, src := range []string{"var a = 1;", "print a;"} {
		program, err := parser.Parse(strings.NewReader(src), "test.lox")
		if err != nil {
			t.Fatal(err)
		}
		declDistancesByTok, err := resolver.Resolve(program)
		if err != nil {
			t.Fatal(err)
		}
		if err := interp.Interpret(program, declDistancesByTok); err != nil {
			t.Fatal(err)
		}
	}

	if got, want := stdout.String(), "1\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}
