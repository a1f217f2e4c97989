package interpreter

import "time"

// loxNativeFunction is a function implemented by the host rather than in Lox code.
type loxNativeFunction struct {
	name  string
	arity int
	fn    func(args []loxObject) loxObject
}

var _ loxCallable = &loxNativeFunction{}

func (f *loxNativeFunction) String() string {
	return "<native fn>"
}

func (f *loxNativeFunction) Type() loxType {
	return loxTypeFunction
}

func (f *loxNativeFunction) IsTruthy() bool {
	return true
}

func (f *loxNativeFunction) Arity() int {
	return f.arity
}

func (f *loxNativeFunction) Call(_ *Interpreter, args []loxObject) loxObject {
	return f.fn(args)
}

var builtinsByName = map[string]loxObject{
	"clock": &loxNativeFunction{
		name:  "clock",
		arity: 0,
		fn: func([]loxObject) loxObject {
			return loxNumber(time.Now().UnixMilli())
		},
	},
}
