package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/example/formjs"
	"github.com/example/formjs/runtime"
)

func main() {
	evalCode := flag.String("e", "", "evaluate inline script code")
	dumpAST := flag.Bool("ast", false, "dump the syntax tree as JSON instead of evaluating")
	flag.Parse()

	var source string

	switch {
	case *evalCode != "":
		source = *evalCode
	case flag.NArg() > 0:
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
	default:
		repl()
		return
	}

	if *dumpAST {
		program, err := formjs.Parse(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(program); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding AST: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx := formjs.NewContext(os.Stdout)
	result, err := formjs.Run(source, ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := ctx.DrainTimers(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if result != nil && result.Type != runtime.TypeUndefined {
		fmt.Println(result.ToString())
	}
}
