package builtins

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

func eval(t *testing.T, source string) *runtime.Value {
	t.Helper()
	ctx := interpreter.NewContext(nil)
	Install(ctx)
	val, _, err := interpreter.Execute(source, ctx)
	if err != nil {
		t.Fatalf("Execute(%q): %v", source, err)
	}
	return val
}

func evalNumber(t *testing.T, source string, expected float64) {
	t.Helper()
	val := eval(t, source)
	if val.Type != runtime.TypeNumber {
		t.Fatalf("source %q: expected number, got type=%v", source, val.Type)
	}
	if math.IsNaN(expected) {
		if !math.IsNaN(val.Number) {
			t.Fatalf("source %q: expected NaN, got %v", source, val.Number)
		}
		return
	}
	if val.Number != expected {
		t.Fatalf("source %q: expected %v, got %v", source, expected, val.Number)
	}
}

func evalString(t *testing.T, source string, expected string) {
	t.Helper()
	val := eval(t, source)
	if val.Type != runtime.TypeString {
		t.Fatalf("source %q: expected string, got type=%v (%v)", source, val.Type, val)
	}
	if val.Str != expected {
		t.Fatalf("source %q: expected %q, got %q", source, expected, val.Str)
	}
}

func evalBool(t *testing.T, source string, expected bool) {
	t.Helper()
	val := eval(t, source)
	if val.Type != runtime.TypeBoolean {
		t.Fatalf("source %q: expected boolean, got type=%v", source, val.Type)
	}
	if val.Bool != expected {
		t.Fatalf("source %q: expected %v, got %v", source, expected, val.Bool)
	}
}

func TestArrayPushPop(t *testing.T) {
	evalNumber(t, "var a = [1]; a.push(2, 3)", 3)
	evalNumber(t, "var a = [1]; a.push(2); a[1]", 2)
	evalNumber(t, "var a = [1, 2]; a.pop()", 2)
	evalNumber(t, "var a = [1, 2]; a.pop(); a.length", 1)
	evalBool(t, "[].pop() === undefined", true)
}

func TestArrayShiftUnshift(t *testing.T) {
	evalNumber(t, "var a = [1, 2, 3]; a.shift()", 1)
	evalString(t, "var a = [1, 2, 3]; a.shift(); a.join()", "2,3")
	evalNumber(t, "var a = [3]; a.unshift(1, 2)", 3)
	evalString(t, "var a = [3]; a.unshift(1, 2); a.join()", "1,2,3")
}

func TestArrayIndexOf(t *testing.T) {
	evalNumber(t, "[10, 20, 30].indexOf(20)", 1)
	evalNumber(t, "[10, 20, 30].indexOf(99)", -1)
	evalNumber(t, "[1, 2, 1].indexOf(1, 1)", 2)
	evalNumber(t, "[1, 2, 1].indexOf(1, -1)", 2)
	// direct comparison, no coercion
	evalNumber(t, `[1, 2].indexOf("1")`, -1)
}

func TestArraySlice(t *testing.T) {
	evalString(t, "[1, 2, 3, 4].slice(1, 3).join()", "2,3")
	evalString(t, "[1, 2, 3, 4].slice(-2).join()", "3,4")
	evalString(t, "[1, 2, 3, 4].slice(0, -1).join()", "1,2,3")
	evalNumber(t, "[1, 2, 3].slice().length", 3)
	// slicing does not alias the source
	evalNumber(t, "var a = [1, 2]; var b = a.slice(); b[0] = 9; a[0]", 1)
}

func TestArraySplice(t *testing.T) {
	evalString(t, "var a = [1, 2, 3, 4]; a.splice(1, 2).join()", "2,3")
	evalString(t, "var a = [1, 2, 3, 4]; a.splice(1, 2); a.join()", "1,4")
	evalString(t, "var a = [1, 4]; a.splice(1, 0, 2, 3); a.join()", "1,2,3,4")
	evalString(t, "var a = [1, 2, 3]; a.splice(1, 1, 9); a.join()", "1,9,3")
	evalNumber(t, "var a = [1, 2, 3]; a.splice(1); a.length", 1)
}

func TestArrayConcat(t *testing.T) {
	evalString(t, "[1, 2].concat([3, 4], 5).join()", "1,2,3,4,5")
	evalNumber(t, "var a = [1]; a.concat([2]); a.length", 1)
}

func TestArrayForEachSkipsHoles(t *testing.T) {
	evalNumber(t, `
var visits = 0;
[1, , 3].forEach(function(x) { visits++; });
visits`, 2)

	evalString(t, `
var out = "";
["a", "b"].forEach(function(x, i) { out += i + x; });
out`, "0a1b")
}

func TestArrayMap(t *testing.T) {
	evalString(t, "[1, 2, 3].map(function(x) { return x * 2; }).join()", "2,4,6")
	// result does not alias the source
	evalNumber(t, "var a = [{n: 1}]; var b = a.map(function(x) { return x.n; }); b[0] = 9; a[0].n", 1)
	// holes stay holes and keep the length
	evalNumber(t, "[1, , 3].map(function(x) { return x; }).length", 3)
	evalBool(t, "[1, , 3].map(function(x) { return x; }).hasOwnProperty(1)", false)
}

func TestArrayFilterReduce(t *testing.T) {
	evalString(t, "[1, 2, 3, 4].filter(function(x) { return x % 2 == 0; }).join()", "2,4")
	evalNumber(t, "[1, 2, 3, 4].reduce(function(acc, x) { return acc + x; }, 0)", 10)
	evalNumber(t, "[1, 2, 3].reduce(function(acc, x) { return acc + x; })", 6)
	// no seed and empty array is an error
	ctx := interpreter.NewContext(nil)
	Install(ctx)
	_, _, err := interpreter.Execute("[].reduce(function(a, b) { return a; })", ctx)
	if err == nil {
		t.Error("expected reduce error on empty array without seed")
	}
}

func TestArraySomeEveryFind(t *testing.T) {
	evalBool(t, "[1, 2, 3].some(function(x) { return x > 2; })", true)
	evalBool(t, "[1, 2, 3].some(function(x) { return x > 9; })", false)
	evalBool(t, "[2, 4].every(function(x) { return x % 2 == 0; })", true)
	evalBool(t, "[2, 3].every(function(x) { return x % 2 == 0; })", false)
	evalNumber(t, "[5, 12, 8].find(function(x) { return x > 9; })", 12)
	evalBool(t, "[5, 8].find(function(x) { return x > 9; }) === undefined", true)
	evalNumber(t, "[5, 12, 8].findIndex(function(x) { return x > 9; })", 1)
	evalNumber(t, "[5, 8].findIndex(function(x) { return x > 9; })", -1)
}

func TestArrayConstructor(t *testing.T) {
	evalNumber(t, "Array(1, 2, 3).length", 3)
	evalNumber(t, "Array(5).length", 5)
	evalBool(t, "Array.isArray([])", true)
	evalBool(t, "Array.isArray({})", false)
	evalBool(t, `Array.isArray("nope")`, false)
}

func TestCallbackErrorsPropagate(t *testing.T) {
	evalString(t, `
var msg = "";
try { [1].forEach(function() { throw "inner"; }); } catch (e) { msg = e; }
msg`, "inner")
}

func TestObjectCreateAndKeys(t *testing.T) {
	evalNumber(t, "var p = { n: 1 }; var o = Object.create(p); o.n", 1)
	evalBool(t, "var o = Object.create(null); o.hasOwnProperty === undefined", true)
	evalString(t, "Object.keys({ b: 1, a: 2 }).join()", "a,b")
	evalString(t, "Object.keys([10, 20]).join()", "0,1")
	// only own keys
	evalNumber(t, "var o = Object.create({ hidden: 1 }); o.own = 2; Object.keys(o).length", 1)
}

func TestObjectAssign(t *testing.T) {
	evalNumber(t, "var t = { a: 1 }; Object.assign(t, { b: 2 }, { c: 3 }); t.a + t.b + t.c", 6)
	evalNumber(t, "var t = {}; var r = Object.assign(t, { a: 1 }); r.a", 1)
	// later sources win
	evalNumber(t, "Object.assign({}, { a: 1 }, { a: 2 }).a", 2)
}

func TestHasOwnProperty(t *testing.T) {
	evalBool(t, "({ a: 1 }).hasOwnProperty('a')", true)
	evalBool(t, "({ a: 1 }).hasOwnProperty('b')", false)
	// inherited keys are not own
	evalBool(t, "var o = Object.create({ p: 1 }); o.hasOwnProperty('p')", false)
	evalBool(t, "[1, 2].hasOwnProperty(1)", true)
}

func TestFunctionCallApplyBind(t *testing.T) {
	evalNumber(t, `
function get() { return this.n; }
get.call({ n: 5 })`, 5)

	evalNumber(t, `
function add(a, b) { return this.base + a + b; }
add.call({ base: 10 }, 1, 2)`, 13)

	evalNumber(t, `
function add(a, b) { return this.base + a + b; }
add.apply({ base: 10 }, [1, 2])`, 13)

	evalNumber(t, `
function noArgs() { return 7; }
noArgs.apply(undefined)`, 7)

	evalNumber(t, `
function add(a, b, c) { return a + b + c; }
var partial = add.bind(undefined, 1, 2);
partial(3)`, 6)

	evalNumber(t, `
function get() { return this.n; }
var bound = get.bind({ n: 42 });
bound()`, 42)
}

func TestGlobalConversions(t *testing.T) {
	evalNumber(t, `parseInt("42")`, 42)
	evalNumber(t, `parseInt("42px")`, 42)
	evalNumber(t, `parseInt("  -7  ")`, -7)
	evalNumber(t, `parseInt("ff", 16)`, 255)
	evalNumber(t, `parseInt("0x10")`, 16)
	evalNumber(t, `parseInt("zz")`, math.NaN())
	evalNumber(t, `parseFloat("3.25rem")`, 3.25)
	evalNumber(t, `parseFloat("1e3")`, 1000)
	evalNumber(t, `parseFloat("x")`, math.NaN())
	evalBool(t, `isNaN(parseInt("zz"))`, true)
	evalBool(t, `isNaN(42)`, false)
	evalString(t, `String(42)`, "42")
	evalString(t, `String(null)`, "null")
	evalNumber(t, `Number("8")`, 8)
	evalBool(t, `Boolean("")`, false)
	evalBool(t, `Boolean(1)`, true)
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	ctx := interpreter.NewContext(&buf)
	Install(ctx)
	_, _, err := interpreter.Execute(`
console.log("hello", 42);
console.log([1, "two"], { a: 1 });
console.warn("careful");
`, ctx)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "hello 42" {
		t.Errorf("line 0: got %q", lines[0])
	}
	if lines[1] != `[1, "two"] {a: 1}` {
		t.Errorf("line 1: got %q", lines[1])
	}
	if lines[2] != "WARN: careful" {
		t.Errorf("line 2: got %q", lines[2])
	}
}

func TestEventObject(t *testing.T) {
	evalString(t, `new Event("click").type`, "click")
	evalBool(t, `new Event("click").defaultPrevented`, false)
	evalBool(t, `
var e = new Event("submit");
e.preventDefault();
e.defaultPrevented`, true)
	evalBool(t, `
var e = new Event("submit");
e.stopPropagation();
e.cancelBubble`, true)
	// flags latch independently
	evalBool(t, `
var e = new Event("x");
e.preventDefault();
e.cancelBubble`, false)
}

func TestTimerBuiltins(t *testing.T) {
	ctx := interpreter.NewContext(nil)
	Install(ctx)
	_, _, err := interpreter.Execute(`
var order = [];
setTimeout(function() { order.push("late", extra); }, 0, "x");
var extra = "y";
var h = setInterval(function() { order.push("tick"); }, 10);
`, ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := ctx.DrainTimers(); err != nil {
		t.Fatal(err)
	}
	if err := ctx.DrainTimers(); err != nil {
		t.Fatal(err)
	}

	val, _, err := interpreter.Execute("clearInterval(h); order.join()", ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := "late,y,tick,tick"
	if val.Str != want {
		t.Errorf("expected %q, got %q", want, val.Str)
	}

	if err := ctx.DrainTimers(); err != nil {
		t.Fatal(err)
	}
	val, _, err = interpreter.Execute("order.length", ctx)
	if err != nil {
		t.Fatal(err)
	}
	if val.Number != 4 {
		t.Errorf("cancelled interval must not fire again, got %v", val.Number)
	}
}
