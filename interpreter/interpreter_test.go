package interpreter

import (
	"math"
	"strings"
	"testing"

	"github.com/example/formjs/runtime"
)

func run(t *testing.T, source string) *runtime.Value {
	t.Helper()
	ctx := NewContext(nil)
	val, _, err := Execute(source, ctx)
	if err != nil {
		t.Fatalf("Execute(%q): %v", source, err)
	}
	return val
}

func runError(t *testing.T, source string) error {
	t.Helper()
	ctx := NewContext(nil)
	_, _, err := Execute(source, ctx)
	if err == nil {
		t.Fatalf("Execute(%q): expected error, got none", source)
	}
	return err
}

func expectNumber(t *testing.T, source string, expected float64) {
	t.Helper()
	val := run(t, source)
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

func expectString(t *testing.T, source string, expected string) {
	t.Helper()
	val := run(t, source)
	if val.Type != runtime.TypeString {
		t.Fatalf("source %q: expected string, got type=%v", source, val.Type)
	}
	if val.Str != expected {
		t.Fatalf("source %q: expected %q, got %q", source, expected, val.Str)
	}
}

func expectBool(t *testing.T, source string, expected bool) {
	t.Helper()
	val := run(t, source)
	if val.Type != runtime.TypeBoolean {
		t.Fatalf("source %q: expected boolean, got type=%v", source, val.Type)
	}
	if val.Bool != expected {
		t.Fatalf("source %q: expected %v, got %v", source, expected, val.Bool)
	}
}

func TestArithmetic(t *testing.T) {
	expectNumber(t, "1 + 2 * 3", 7)
	expectNumber(t, "(1 + 2) * 3", 9)
	expectNumber(t, "10 / 4", 2.5)
	expectNumber(t, "10 % 3", 1)
	expectNumber(t, "2 - -3", 5)
	expectNumber(t, "1 / 0", math.Inf(1))
	expectNumber(t, "0 / 0", math.NaN())
}

func TestStringConcat(t *testing.T) {
	expectString(t, `"a" + "b"`, "ab")
	expectString(t, `"n=" + 5`, "n=5")
	expectString(t, `1 + 2 + "x"`, "3x")
	expectString(t, `"x" + 1 + 2`, "x12")
	expectString(t, `"v:" + undefined`, "v:undefined")
	expectString(t, `"v:" + null`, "v:null")
}

func TestBitwiseOperators(t *testing.T) {
	expectNumber(t, "5 & 3", 1)
	expectNumber(t, "5 | 3", 7)
	expectNumber(t, "5 ^ 3", 6)
	expectNumber(t, "~5", -6)
	expectNumber(t, "1 << 4", 16)
	expectNumber(t, "-8 >> 1", -4)
	expectNumber(t, "-1 >>> 28", 15)
	expectNumber(t, "4294967296 | 0", 0)
	expectNumber(t, "2147483648 | 0", -2147483648)
}

func TestEqualityIsDirect(t *testing.T) {
	expectBool(t, `1 == 1`, true)
	expectBool(t, `1 == "1"`, false)
	expectBool(t, `1 === 1`, true)
	expectBool(t, `null == undefined`, false)
	expectBool(t, `null == null`, true)
	expectBool(t, `0/0 == 0/0`, false)
	expectBool(t, `var a = {}; var b = {}; a == b`, false)
	expectBool(t, `var a = {}; var b = a; a == b`, true)
}

func TestLogicalShortCircuit(t *testing.T) {
	expectNumber(t, `var hits = 0; function bump() { hits++; return true; } false && bump(); hits`, 0)
	expectNumber(t, `var hits = 0; function bump() { hits++; return false; } true || bump(); hits`, 0)
	// the deciding operand is the result, uncoerced
	expectNumber(t, `0 || 42`, 42)
	expectString(t, `"x" && "y"`, "y")
	expectNumber(t, `0 && 42`, 0)
}

func TestVarAndAssignment(t *testing.T) {
	expectNumber(t, "var x = 10; x", 10)
	expectNumber(t, "var x = 1, y = 2; x + y", 3)
	expectNumber(t, "var x; x = 5; x", 5)
	expectNumber(t, "var x = 1; x += 4; x", 5)
	expectNumber(t, "var x = 8; x >>= 2; x", 2)
	expectNumber(t, "var x = 2; x *= x += 1; x", 6)
}

func TestUpdateExpressions(t *testing.T) {
	expectNumber(t, "var x = 5; x++", 5)
	expectNumber(t, "var x = 5; x++; x", 6)
	expectNumber(t, "var x = 5; ++x", 6)
	expectNumber(t, "var x = 5; --x; x", 4)
	expectNumber(t, "var o = {n: 1}; o.n++; o.n", 2)
	expectNumber(t, `var s = "4"; s++; s`, 5)
}

func TestImplicitGlobalAssignment(t *testing.T) {
	expectNumber(t, `
function set() { leaked = 99; }
set();
leaked`, 99)

	// reads of unbound names are undefined, not errors
	val := run(t, "neverDefined")
	if val.Type != runtime.TypeUndefined {
		t.Errorf("expected undefined, got %v", val.Type)
	}
}

func TestClosureCapture(t *testing.T) {
	expectNumber(t, `
function makeCounter() {
	var n = 0;
	return function() { n = n + 1; return n; };
}
var c = makeCounter();
c();
c();
c()`, 3)

	// two closures over the same variable share it
	expectNumber(t, `
function pair() {
	var n = 0;
	return { bump: function() { n++; }, read: function() { return n; } };
}
var p = pair();
p.bump();
p.bump();
p.read()`, 2)
}

func TestFunctionDeclarationHoisting(t *testing.T) {
	expectNumber(t, "var r = early(); function early() { return 7; } r", 7)
	expectNumber(t, `
function outer() {
	return helper();
	function helper() { return 3; }
}
outer()`, 3)
}

func TestNamedFunctionExpressionSelfBinding(t *testing.T) {
	expectNumber(t, `
var f = function fact(n) { return n <= 1 ? 1 : n * fact(n - 1); };
f(5)`, 120)
}

func TestMissingArgumentsAreUndefined(t *testing.T) {
	expectBool(t, "function f(a, b) { return b === undefined; } f(1)", true)
	expectNumber(t, "function f(a, b) { return a; } f(1, 2, 3)", 1)
}

func TestReturnWithoutValue(t *testing.T) {
	val := run(t, "function f() { return; } f()")
	if val.Type != runtime.TypeUndefined {
		t.Errorf("expected undefined, got %v", val.Type)
	}
	val = run(t, "function f() { var x = 1; } f()")
	if val.Type != runtime.TypeUndefined {
		t.Errorf("no return: expected undefined, got %v", val.Type)
	}
}

func TestWhileAndDoWhile(t *testing.T) {
	expectNumber(t, "var s = 0; var i = 0; while (i < 5) { s += i; i++; } s", 10)
	expectNumber(t, "var n = 0; do { n++; } while (false); n", 1)
	expectNumber(t, "var i = 0; do { i++; } while (i < 3); i", 3)
}

func TestForLoop(t *testing.T) {
	expectNumber(t, "var s = 0; for (var i = 0; i < 5; i++) { s += i; } s", 10)
	expectNumber(t, "var s = 0; for (var i = 0; i < 10; i++) { if (i % 2) continue; s += i; } s", 20)
	expectNumber(t, "var i; for (i = 0; ; i++) { if (i == 4) break; } i", 4)
	expectNumber(t, "var n = 0; for (;;) { n++; if (n > 2) break; } n", 3)
}

func TestLabeledBreakAndContinue(t *testing.T) {
	expectNumber(t, `
var count = 0;
outer: for (var i = 0; i < 3; i++) {
	for (var j = 0; j < 3; j++) {
		if (j == 1) break outer;
		count++;
	}
}
count`, 1)

	expectNumber(t, `
var count = 0;
outer: for (var i = 0; i < 3; i++) {
	for (var j = 0; j < 3; j++) {
		if (j == 1) continue outer;
		count++;
	}
}
count`, 3)

	expectNumber(t, `
var n = 0;
lbl: { n = 1; break lbl; n = 2; }
n`, 1)

	// labeled continue resumes the labeled loop, while as well as for
	expectNumber(t, `
var total = 0;
var i = 0;
rows: while (i < 3) {
	i++;
	var j = 0;
	while (j < 3) {
		j++;
		if (j == 2) continue rows;
		total++;
	}
}
total`, 3)
}

func TestVarWithoutInitializer(t *testing.T) {
	// 'var x;' shadows an outer binding even without a value
	expectNumber(t, `
var x = 1;
function g() { var x; x = 2; }
g();
x`, 1)

	// but never clobbers an existing binding in the same scope
	expectNumber(t, `function k() { var z = 7; var z; return z; }
k()`, 7)
}

func TestBreakLeakageIsFatal(t *testing.T) {
	err := runError(t, "function f() { break; } f()")
	if _, ok := err.(*runtime.Thrown); ok {
		t.Errorf("signal leakage must be a host error, not a scripted throw: %v", err)
	}
	runError(t, "break")
	runError(t, "continue two")
}

func TestSwitchFallthrough(t *testing.T) {
	expectNumber(t, `
function classify(x) {
	var r = 0;
	switch (x) {
	case 1:
	case 2: r += 10; break;
	case 3: r += 100;
	default: r += 1000;
	}
	return r;
}
classify(1) + classify(2) + classify(3) + classify(9)`, 10+10+1100+1000)

	// matching is the same direct comparison as ==
	expectString(t, `
var r = "";
switch ("1") { case 1: r = "number"; break; case "1": r = "string"; break; }
r`, "string")
}

func TestThrowAndCatch(t *testing.T) {
	expectNumber(t, "var got; try { throw 5; } catch (e) { got = e; } got", 5)
	expectString(t, `
function risky() { throw "boom"; }
var msg = "";
try { risky(); msg = "unreached"; } catch (err) { msg = err; }
msg`, "boom")

	// thrown objects pass through intact
	expectNumber(t, `
var code;
try { throw { code: 42 }; } catch (e) { code = e.code; }
code`, 42)

	// rethrow propagates to the next enclosing handler
	expectNumber(t, `
var n = 0;
try {
	try { throw 1; } catch (e) { n += e; throw 2; }
} catch (e) { n += e; }
n`, 3)
}

func TestUncaughtThrowSurfacesValue(t *testing.T) {
	err := runError(t, "throw 5")
	thrown, ok := err.(*runtime.Thrown)
	if !ok {
		t.Fatalf("expected *runtime.Thrown, got %T: %v", err, err)
	}
	if thrown.Value.Number != 5 {
		t.Errorf("expected thrown value 5, got %v", thrown.Value)
	}
}

func TestWatchdogAbortsRunaways(t *testing.T) {
	ctx := NewContext(nil)
	ctx.StepLimit = 1000
	_, _, err := Execute("while (true) {}", ctx)
	if err == nil {
		t.Fatal("expected watchdog abort")
	}
	wErr, ok := err.(*WatchdogError)
	if !ok {
		t.Fatalf("expected *WatchdogError, got %T: %v", err, err)
	}
	if wErr.Steps <= 1000-1 {
		t.Errorf("expected steps past the ceiling, got %d", wErr.Steps)
	}

	// the abort is not interceptable by scripted try/catch
	ctx = NewContext(nil)
	ctx.StepLimit = 1000
	_, _, err = Execute("try { while (true) {} } catch (e) {}", ctx)
	if _, ok := err.(*WatchdogError); !ok {
		t.Fatalf("watchdog abort must pass through catch, got %T: %v", err, err)
	}
}

func TestWatchdogReportsCallStack(t *testing.T) {
	ctx := NewContext(nil)
	ctx.StepLimit = 1000
	_, _, err := Execute("function spin() { while (true) {} } function go() { spin(); } go()", ctx)
	wErr, ok := err.(*WatchdogError)
	if !ok {
		t.Fatalf("expected *WatchdogError, got %T", err)
	}
	if len(wErr.Stack) != 2 || wErr.Stack[0] != "go" || wErr.Stack[1] != "spin" {
		t.Errorf("expected stack [go spin], got %v", wErr.Stack)
	}
}

func TestCallDepthLimit(t *testing.T) {
	ctx := NewContext(nil)
	ctx.CallDepthLimit = 50
	_, _, err := Execute("function f() { return f(); } f()", ctx)
	if err == nil {
		t.Fatal("expected depth-limit error")
	}
	thrown, ok := err.(*runtime.Thrown)
	if !ok {
		t.Fatalf("expected *runtime.Thrown, got %T: %v", err, err)
	}
	if !strings.Contains(thrown.Value.ToString(), "depth") {
		t.Errorf("expected depth message, got %q", thrown.Value.ToString())
	}
}

func TestNewConstruction(t *testing.T) {
	expectString(t, `
function Animal(name) { this.name = name; }
Animal.prototype.describe = function() { return "animal " + this.name; };
var a = new Animal("rex");
a.describe()`, "animal rex")

	// the constructor's return value is ignored
	expectNumber(t, `
function C() { this.n = 7; return 123; }
var c = new C();
c.n`, 7)

	expectBool(t, `
function A() {}
function B() {}
var a = new A();
a instanceof A && !(a instanceof B)`, true)

	// instances share prototype state added after construction
	expectNumber(t, `
function T() {}
var t = new T();
T.prototype.late = 5;
t.late`, 5)
}

func TestPrototypeShadowing(t *testing.T) {
	expectNumber(t, `
function P() {}
P.prototype.x = 1;
var p = new P();
p.x = 2;
P.prototype.x + p.x`, 3)
}

func TestThisInMethodCall(t *testing.T) {
	expectNumber(t, `
var obj = { n: 5, get: function() { return this.n; } };
obj.get()`, 5)

	// a bare call has no receiver
	expectBool(t, `
function f() { return this === undefined; }
f()`, true)
}

func TestArrowFunctions(t *testing.T) {
	expectNumber(t, "var f = x => x * 2; f(21)", 42)
	expectNumber(t, "var add = (a, b) => { return a + b; }; add(40, 2)", 42)
	// arrows see the enclosing this
	expectNumber(t, `
var obj = { n: 7, get: function() { var f = () => this.n; return f(); } };
obj.get()`, 7)
}

func TestObjectLiteralsAndMembers(t *testing.T) {
	expectNumber(t, `var o = { a: 1, "b c": 2, 3: 3 }; o.a + o["b c"] + o[3]`, 6)
	expectNumber(t, `var o = {}; o.x = 1; o["y"] = 2; o.x + o.y`, 3)
	expectNumber(t, `var o = { inner: { n: 9 } }; o.inner.n`, 9)
	// computed keys go through string conversion
	expectNumber(t, `var o = {}; o[1 + 1] = 5; o["2"]`, 5)
}

func TestMemberAccessErrors(t *testing.T) {
	err := runError(t, "undefined.x")
	if _, ok := err.(*runtime.Thrown); !ok {
		t.Errorf("expected scripted throw, got %T", err)
	}
	runError(t, "null.x")
	runError(t, "var o; o.a = 1")
	// primitives absorb reads and writes
	val := run(t, "(5).missing")
	if val.Type != runtime.TypeUndefined {
		t.Errorf("expected undefined, got %v", val.Type)
	}
	expectNumber(t, `var n = 5; n.x = 1; n`, 5)
}

func TestStringMembers(t *testing.T) {
	expectNumber(t, `"hello".length`, 5)
	expectString(t, `"hello"[1]`, "e")
	// multi-byte characters count and index as single elements
	expectNumber(t, `"héllo".length`, 5)
	expectString(t, `"héllo"[1]`, "é")
	val := run(t, `"hi"[9]`)
	if val.Type != runtime.TypeUndefined {
		t.Errorf("out-of-range index: expected undefined, got %v", val.Type)
	}
}

func TestArrayBasics(t *testing.T) {
	expectNumber(t, "var a = [1, 2, 3]; a[0] + a[2]", 4)
	expectNumber(t, "var a = [1, 2, 3]; a.length", 3)
	expectNumber(t, "var a = []; a[4] = 1; a.length", 5)
	expectNumber(t, "var a = [1, , 3]; a.length", 3)
	expectBool(t, "var a = [1, , 3]; a[1] === undefined", true)
}

func TestForInSnapshot(t *testing.T) {
	expectString(t, `
var keys = "";
var o = { a: 1, b: 2, c: 3 };
for (var k in o) { keys += k; }
keys`, "abc")

	// array iteration yields index keys in order, skipping holes
	expectString(t, `
var out = "";
var a = [10, , 30];
for (var i in a) { out += i; }
out`, "02")

	// keys added during iteration are not visited
	expectNumber(t, `
var visits = 0;
var o = { a: 1, b: 2 };
for (var k in o) { visits++; o[k + "x"] = 1; }
visits`, 2)

	// non-object targets iterate zero times
	expectNumber(t, `var n = 0; for (var k in null) { n++; } for (var k in 5) { n++; } n`, 0)
}

func TestDeleteSemantics(t *testing.T) {
	expectBool(t, "var o = { a: 1 }; delete o.a", true)
	expectBool(t, `var o = { a: 1 }; delete o.a; o.hasOwn === undefined && o.a === undefined`, true)
	expectBool(t, "var o = {}; delete o.absent", true)
	expectBool(t, "function f() { var loc = 1; return delete loc; } f()", false)
	expectBool(t, "glob = 1; delete glob", true)
	expectBool(t, "glob2 = 1; delete glob2; glob2 === undefined", true)
}

func TestTypeofOperator(t *testing.T) {
	expectString(t, "typeof undefined", "undefined")
	expectString(t, "typeof neverBound", "undefined")
	expectString(t, "typeof null", "object")
	expectString(t, "typeof 1", "number")
	expectString(t, `typeof "s"`, "string")
	expectString(t, "typeof true", "boolean")
	expectString(t, "typeof {}", "object")
	expectString(t, "typeof [1]", "object")
	expectString(t, "typeof function() {}", "function")
}

func TestVoidAndSequence(t *testing.T) {
	val := run(t, "void 42")
	if val.Type != runtime.TypeUndefined {
		t.Errorf("void: expected undefined, got %v", val.Type)
	}
	expectNumber(t, "var x = (1, 2, 3); x", 3)
}

func TestConditionalExpression(t *testing.T) {
	expectString(t, `1 ? "yes" : "no"`, "yes")
	expectString(t, `0 ? "yes" : "no"`, "no")
	expectNumber(t, "var x = 5; x > 3 ? x * 2 : x / 2", 10)
}

func TestPatternLiteralValue(t *testing.T) {
	expectString(t, "var re = /ab+c/gi; re.source", "/ab+c/gi")
	expectString(t, "typeof /x/", "object")
}

func TestInOperator(t *testing.T) {
	expectBool(t, `var o = { a: 1 }; "a" in o`, true)
	expectBool(t, `var o = { a: 1 }; "b" in o`, false)
	// the chain is consulted, not just own keys
	expectBool(t, `
function C() {}
C.prototype.p = 1;
var c = new C();
"p" in c`, true)
	err := runError(t, `"a" in 5`)
	if _, ok := err.(*runtime.Thrown); !ok {
		t.Errorf("expected scripted throw, got %T", err)
	}
}

func TestCallingNonFunction(t *testing.T) {
	err := runError(t, "var x = 5; x()")
	if _, ok := err.(*runtime.Thrown); !ok {
		t.Errorf("expected scripted throw, got %T", err)
	}
	// and it can be caught in script
	expectString(t, `
var msg = "none";
try { (5)(); } catch (e) { msg = "caught"; }
msg`, "caught")
}

func TestNativeFunctionIntegration(t *testing.T) {
	ctx := NewContext(nil)
	ctx.RegisterNative("double", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return nil, runtime.Throwf("double: missing argument")
		}
		return runtime.NewNumber(args[0].ToNumber() * 2), nil
	})

	val, _, err := Execute("double(21)", ctx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if val.Number != 42 {
		t.Errorf("expected 42, got %v", val.Number)
	}

	// native throw is catchable in script
	val, _, err = Execute(`var r; try { double(); } catch (e) { r = "caught " + e; } r`, ctx)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if val.Str != "caught double: missing argument" {
		t.Errorf("got %q", val.Str)
	}
}

func TestGlobalsPersistAcrossExecutes(t *testing.T) {
	ctx := NewContext(nil)
	if _, _, err := Execute("var counter = 1;", ctx); err != nil {
		t.Fatal(err)
	}
	val, _, err := Execute("counter + 1", ctx)
	if err != nil {
		t.Fatal(err)
	}
	if val.Number != 2 {
		t.Errorf("expected 2, got %v", val.Number)
	}
}

func TestSetGlobalHostValue(t *testing.T) {
	ctx := NewContext(nil)
	ctx.SetGlobal("answer", runtime.NewNumber(42))
	val, _, err := Execute("answer", ctx)
	if err != nil {
		t.Fatal(err)
	}
	if val.Number != 42 {
		t.Errorf("expected 42, got %v", val.Number)
	}
}
