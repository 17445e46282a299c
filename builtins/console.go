package builtins

import (
	"fmt"
	"strings"

	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

// installConsole exposes a console object whose methods write one line per
// call to the context's log sink, each argument formatted and joined with
// spaces.
func installConsole(ctx *interpreter.Context) {
	console := runtime.NewObject(ctx.ObjectProto)
	for _, name := range []string{"log", "info", "warn", "error"} {
		level := name
		defineMethod(ctx, console, name, func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = formatValue(a, 0)
			}
			line := strings.Join(parts, " ")
			if level == "warn" || level == "error" {
				line = strings.ToUpper(level) + ": " + line
			}
			if ctx.Log != nil {
				fmt.Fprintln(ctx.Log, line)
			}
			return runtime.Undefined, nil
		})
	}
	ctx.SetGlobal("console", runtime.NewObjectValue(console))
}

const formatDepthLimit = 4

// formatValue renders a value for log output. Unlike ToString it expands
// arrays and objects one level at a time, bottoming out at a fixed depth.
func formatValue(v *runtime.Value, depth int) string {
	if v == nil {
		return "undefined"
	}
	if v.Type != runtime.TypeObject || v.Object == nil {
		return v.ToString()
	}
	if v.IsCallable() {
		return v.ToString()
	}
	if depth >= formatDepthLimit {
		return "..."
	}

	obj := v.Object
	if obj.Kind == runtime.KindArray {
		n := int(obj.Length())
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			el, ok := obj.Index(i)
			if !ok {
				parts[i] = "<hole>"
				continue
			}
			parts[i] = formatLogElement(el, depth+1)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	keys := obj.OwnKeys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		pv, _ := obj.Get(k)
		parts[i] = k + ": " + formatLogElement(pv, depth+1)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// formatLogElement quotes strings nested inside containers so they read
// unambiguously.
func formatLogElement(v *runtime.Value, depth int) string {
	if v != nil && v.Type == runtime.TypeString {
		return "\"" + v.Str + "\""
	}
	return formatValue(v, depth)
}
