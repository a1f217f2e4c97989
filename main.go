// Entry point for the golox interpreter.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/marcuscaisey/golox/ast"
	"github.com/marcuscaisey/golox/interpreter"
	"github.com/marcuscaisey/golox/parser"
	"github.com/marcuscaisey/golox/resolver"
)

var printAST = flag.Bool("p", false, "Print the AST only")

// nolint:revive
func Usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: golox [options] script\n")
	fmt.Fprintf(flag.CommandLine.Output(), "\n")
	fmt.Fprintf(flag.CommandLine.Output(), "Options:\n")
	flag.PrintDefaults()
}

func main() {
	log.SetFlags(0)

	flag.Usage = Usage
	flag.Parse()

	if len(flag.Args()) != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := runFile(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}

func runFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	program, err := parser.Parse(f, name)
	if *printAST {
		if err == nil {
			ast.Print(program)
		}
		return err
	}
	if err != nil {
		return err
	}
	declDistancesByTok, err := resolver.Resolve(program)
	if err != nil {
		return err
	}
	return interpreter.New().Interpret(program, declDistancesByTok)
}
