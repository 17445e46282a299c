package interpreter

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/example/formjs/ast"
	"github.com/example/formjs/parser"
	"github.com/example/formjs/runtime"
)

// Control flow signals. Statement evaluation returns an explicit result pair
// (value, signal) that callers must check and propagate; scripted throw is
// never conflated with host-level fatal errors.
type signalType int

const (
	sigNone signalType = iota
	sigReturn
	sigBreak
	sigContinue
	sigThrow
	sigAbort // fatal host-level condition (watchdog, signal leakage)
)

type signal struct {
	typ   signalType
	value *runtime.Value
	label string // for labeled break/continue
	err   error  // for sigAbort
}

// WatchdogError reports a script aborted for exceeding the statement
// ceiling, carrying the call-stack labels and the last-evaluated node.
type WatchdogError struct {
	Steps int
	Stack []string
	Node  string
}

func (e *WatchdogError) Error() string {
	stack := "<top level>"
	if len(e.Stack) > 0 {
		stack = strings.Join(e.Stack, " > ")
	}
	return fmt.Sprintf("script aborted after %d statements (call stack: %s; at %s)", e.Steps, stack, e.Node)
}

// Runtime is one evaluator instance: the handle passed to native functions
// and returned from Execute. It carries the watchdog and call-stack
// bookkeeping for a single execution.
type Runtime struct {
	ctx       *Context
	steps     int
	callStack []string
	lastNode  ast.Node
}

func newRuntime(ctx *Context) *Runtime {
	return &Runtime{ctx: ctx}
}

// Context returns the context this runtime evaluates against.
func (rt *Runtime) Context() *Context { return rt.ctx }

// Execute parses and evaluates source in the given context. The returned
// Runtime is the handle natives and DrainTimers callbacks run under.
// Uncaught scripted throws surface as *runtime.Thrown; watchdog aborts and
// control-signal leakage surface as host-level errors.
func Execute(source string, ctx *Context) (*runtime.Value, *Runtime, error) {
	prog, err := parser.Parse(source)
	if err != nil {
		return nil, nil, err
	}
	rt := newRuntime(ctx)
	val, sig := rt.execProgram(prog, ctx.Global)
	switch sig.typ {
	case sigThrow:
		return nil, rt, runtime.Throw(sig.value)
	case sigAbort:
		return nil, rt, sig.err
	case sigBreak, sigContinue:
		return nil, rt, leakError(sig)
	case sigReturn:
		return sig.value, rt, nil
	}
	if val == nil {
		val = runtime.Undefined
	}
	return val, rt, nil
}

// leakError converts a break/continue that escaped every enclosing construct
// into a fatal, named error rather than silently swallowing it.
func leakError(sig signal) error {
	name := "break"
	if sig.typ == sigContinue {
		name = "continue"
	}
	if sig.label != "" {
		return fmt.Errorf("uncaught %s signal with label %q", name, sig.label)
	}
	return fmt.Errorf("uncaught %s signal", name)
}

func (rt *Runtime) execProgram(prog *ast.Program, env *runtime.Environment) (*runtime.Value, signal) {
	rt.declareFunctions(prog.Statements, env)
	var result *runtime.Value
	for _, stmt := range prog.Statements {
		val, sig := rt.execStatement(stmt, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		if val != nil {
			result = val
		}
	}
	return result, signal{}
}

// declareFunctions binds function declarations before a body runs, so a
// call may precede its declaration in source order.
func (rt *Runtime) declareFunctions(stmts []ast.Statement, env *runtime.Environment) {
	for _, stmt := range stmts {
		if fd, ok := stmt.(*ast.FunctionDeclaration); ok {
			env.DeclareLocal(fd.Name.Name, rt.makeFunction(fd.Name.Name, fd.Params, fd.Body, env))
		}
	}
}

func (rt *Runtime) watchdogAbort(node ast.Node) signal {
	stack := make([]string, len(rt.callStack))
	copy(stack, rt.callStack)
	return signal{typ: sigAbort, err: &WatchdogError{
		Steps: rt.steps,
		Stack: stack,
		Node:  ast.NodeType(node),
	}}
}

// execStatement executes one statement. Every statement ticks the watchdog
// counter; exceeding the ceiling aborts deterministically instead of
// hanging.
func (rt *Runtime) execStatement(stmt ast.Statement, env *runtime.Environment) (*runtime.Value, signal) {
	rt.steps++
	rt.lastNode = stmt
	if rt.steps > rt.ctx.StepLimit {
		return nil, rt.watchdogAbort(stmt)
	}

	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		return rt.evalExpression(s.Expression, env)
	case *ast.VariableDeclaration:
		return rt.execVarDecl(s, env)
	case *ast.BlockStatement:
		return rt.execBlock(s, env)
	case *ast.ReturnStatement:
		return rt.execReturn(s, env)
	case *ast.IfStatement:
		return rt.execIf(s, env)
	case *ast.WhileStatement:
		return rt.execWhile(s, env, "")
	case *ast.DoWhileStatement:
		return rt.execDoWhile(s, env, "")
	case *ast.ForStatement:
		return rt.execFor(s, env, "")
	case *ast.ForInStatement:
		return rt.execForIn(s, env, "")
	case *ast.BreakStatement:
		return nil, signal{typ: sigBreak, label: s.Label}
	case *ast.ContinueStatement:
		return nil, signal{typ: sigContinue, label: s.Label}
	case *ast.SwitchStatement:
		return rt.execSwitch(s, env)
	case *ast.ThrowStatement:
		return rt.execThrow(s, env)
	case *ast.TryStatement:
		return rt.execTry(s, env)
	case *ast.FunctionDeclaration:
		env.DeclareLocal(s.Name.Name, rt.makeFunction(s.Name.Name, s.Params, s.Body, env))
		return nil, signal{}
	case *ast.LabeledStatement:
		return rt.execLabeled(s, env)
	case *ast.EmptyStatement:
		return nil, signal{}
	default:
		return nil, rt.throwf("unsupported statement %s", ast.NodeType(stmt))
	}
}

func (rt *Runtime) throwf(format string, args ...interface{}) signal {
	return signal{typ: sigThrow, value: runtime.NewString(fmt.Sprintf(format, args...))}
}

func (rt *Runtime) execVarDecl(s *ast.VariableDeclaration, env *runtime.Environment) (*runtime.Value, signal) {
	for _, decl := range s.Declarations {
		if decl.Value == nil {
			// 'var x;' keeps an existing binding in this scope alive but
			// must still shadow any outer one
			if !env.HasLocal(decl.Name.Name) {
				env.DeclareLocal(decl.Name.Name, runtime.Undefined)
			}
			continue
		}
		val, sig := rt.evalExpression(decl.Value, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		env.DeclareLocal(decl.Name.Name, val)
	}
	return nil, signal{}
}

func (rt *Runtime) execBlock(s *ast.BlockStatement, env *runtime.Environment) (*runtime.Value, signal) {
	var result *runtime.Value
	for _, stmt := range s.Statements {
		val, sig := rt.execStatement(stmt, env)
		if sig.typ != sigNone {
			return val, sig
		}
		if val != nil {
			result = val
		}
	}
	return result, signal{}
}

func (rt *Runtime) execReturn(s *ast.ReturnStatement, env *runtime.Environment) (*runtime.Value, signal) {
	if s.Value == nil {
		return nil, signal{typ: sigReturn, value: runtime.Undefined}
	}
	val, sig := rt.evalExpression(s.Value, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	return nil, signal{typ: sigReturn, value: val}
}

func (rt *Runtime) execIf(s *ast.IfStatement, env *runtime.Environment) (*runtime.Value, signal) {
	cond, sig := rt.evalExpression(s.Condition, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	if cond.ToBoolean() {
		return rt.execStatement(s.Consequence, env)
	}
	if s.Alternative != nil {
		return rt.execStatement(s.Alternative, env)
	}
	return nil, signal{}
}

func (rt *Runtime) execWhile(s *ast.WhileStatement, env *runtime.Environment, label string) (*runtime.Value, signal) {
	var result *runtime.Value
	for {
		cond, sig := rt.evalExpression(s.Condition, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		if !cond.ToBoolean() {
			break
		}
		val, sig := rt.execStatement(s.Body, env)
		if sig.typ == sigBreak {
			if sig.label != "" && sig.label != label {
				return val, sig // some enclosing loop's break
			}
			break
		}
		if sig.typ == sigContinue {
			if sig.label != "" && sig.label != label {
				return val, sig // some enclosing loop's continue
			}
			continue
		}
		if sig.typ != sigNone {
			return val, sig
		}
		if val != nil {
			result = val
		}
	}
	return result, signal{}
}

func (rt *Runtime) execDoWhile(s *ast.DoWhileStatement, env *runtime.Environment, label string) (*runtime.Value, signal) {
	var result *runtime.Value
	for {
		val, sig := rt.execStatement(s.Body, env)
		if sig.typ == sigBreak {
			if sig.label != "" && sig.label != label {
				return val, sig
			}
			break
		}
		if sig.typ == sigContinue {
			if sig.label != "" && sig.label != label {
				return val, sig
			}
			// continue falls through to the condition check
		} else if sig.typ != sigNone {
			return val, sig
		}
		if val != nil {
			result = val
		}
		cond, sig := rt.evalExpression(s.Condition, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		if !cond.ToBoolean() {
			break
		}
	}
	return result, signal{}
}

func (rt *Runtime) execFor(s *ast.ForStatement, env *runtime.Environment, label string) (*runtime.Value, signal) {
	if s.Init != nil {
		switch init := s.Init.(type) {
		case ast.Statement:
			if _, sig := rt.execStatement(init, env); sig.typ != sigNone {
				return nil, sig
			}
		case ast.Expression:
			if _, sig := rt.evalExpression(init, env); sig.typ != sigNone {
				return nil, sig
			}
		}
	}

	var result *runtime.Value
	for {
		if s.Test != nil {
			cond, sig := rt.evalExpression(s.Test, env)
			if sig.typ != sigNone {
				return nil, sig
			}
			if !cond.ToBoolean() {
				break
			}
		}

		val, sig := rt.execStatement(s.Body, env)
		if sig.typ == sigBreak {
			if sig.label != "" && sig.label != label {
				return val, sig
			}
			break
		}
		if sig.typ == sigContinue {
			if sig.label != "" && sig.label != label {
				return val, sig
			}
			// fall through to update
		} else if sig.typ != sigNone {
			return val, sig
		}
		if val != nil {
			result = val
		}

		if s.Update != nil {
			if _, sig := rt.evalExpression(s.Update, env); sig.typ != sigNone {
				return nil, sig
			}
		}
	}
	return result, signal{}
}

// execForIn snapshots the enumerable own keys before iterating; mutating the
// target's key set mid-loop does not affect the snapshot.
func (rt *Runtime) execForIn(s *ast.ForInStatement, env *runtime.Environment, label string) (*runtime.Value, signal) {
	rightVal, sig := rt.evalExpression(s.Right, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	if rightVal.Type != runtime.TypeObject || rightVal.Object == nil {
		return nil, signal{}
	}
	keys := rightVal.Object.OwnKeys()

	var result *runtime.Value
	for _, key := range keys {
		if sig := rt.assignLoopVar(s.Left, runtime.NewString(key), env); sig.typ != sigNone {
			return nil, sig
		}
		val, sig := rt.execStatement(s.Body, env)
		if sig.typ == sigBreak {
			if sig.label != "" && sig.label != label {
				return val, sig
			}
			break
		}
		if sig.typ == sigContinue {
			if sig.label != "" && sig.label != label {
				return val, sig
			}
			continue
		}
		if sig.typ != sigNone {
			return val, sig
		}
		if val != nil {
			result = val
		}
	}
	return result, signal{}
}

func (rt *Runtime) assignLoopVar(left ast.Node, val *runtime.Value, env *runtime.Environment) signal {
	switch l := left.(type) {
	case *ast.VariableDeclaration:
		if len(l.Declarations) > 0 {
			env.DeclareLocal(l.Declarations[0].Name.Name, val)
		}
		return signal{}
	case ast.Expression:
		return rt.assignTo(l, val, env)
	}
	return signal{}
}

func (rt *Runtime) execSwitch(s *ast.SwitchStatement, env *runtime.Environment) (*runtime.Value, signal) {
	disc, sig := rt.evalExpression(s.Discriminant, env)
	if sig.typ != sigNone {
		return nil, sig
	}

	matched := false
	defaultIdx := -1
	for i, c := range s.Cases {
		if c.Test == nil {
			defaultIdx = i
			if matched {
				// already falling through; run the default body too
			} else {
				continue
			}
		}
		if !matched && c.Test != nil {
			testVal, sig := rt.evalExpression(c.Test, env)
			if sig.typ != sigNone {
				return nil, sig
			}
			if runtime.Equals(disc, testVal) {
				matched = true
			}
		}
		if !matched {
			continue
		}
		// case bodies run into the next case unless a break interrupts
		for _, stmt := range c.Consequent {
			val, sig := rt.execStatement(stmt, env)
			if sig.typ == sigBreak && sig.label == "" {
				return val, signal{}
			}
			if sig.typ != sigNone {
				return val, sig
			}
		}
	}

	if !matched && defaultIdx >= 0 {
		for i := defaultIdx; i < len(s.Cases); i++ {
			for _, stmt := range s.Cases[i].Consequent {
				val, sig := rt.execStatement(stmt, env)
				if sig.typ == sigBreak && sig.label == "" {
					return val, signal{}
				}
				if sig.typ != sigNone {
					return val, sig
				}
			}
		}
	}
	return nil, signal{}
}

func (rt *Runtime) execThrow(s *ast.ThrowStatement, env *runtime.Environment) (*runtime.Value, signal) {
	val, sig := rt.evalExpression(s.Argument, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	return nil, signal{typ: sigThrow, value: val}
}

func (rt *Runtime) execTry(s *ast.TryStatement, env *runtime.Environment) (*runtime.Value, signal) {
	val, sig := rt.execBlock(s.Block, env)
	if sig.typ != sigThrow {
		return val, sig
	}

	catchEnv := runtime.NewEnvironment(env)
	catchEnv.DeclareLocal(s.CatchParam.Name, sig.value)
	return rt.execBlock(s.CatchBody, catchEnv)
}

// execLabeled hands its label to a loop body so 'continue label' resumes the
// loop's next iteration there instead of unwinding past it. A matching break
// on a non-loop body (labeled block) ends the statement here.
func (rt *Runtime) execLabeled(s *ast.LabeledStatement, env *runtime.Environment) (*runtime.Value, signal) {
	var val *runtime.Value
	var sig signal
	switch body := s.Body.(type) {
	case *ast.WhileStatement:
		val, sig = rt.execWhile(body, env, s.Label)
	case *ast.DoWhileStatement:
		val, sig = rt.execDoWhile(body, env, s.Label)
	case *ast.ForStatement:
		val, sig = rt.execFor(body, env, s.Label)
	case *ast.ForInStatement:
		val, sig = rt.execForIn(body, env, s.Label)
	default:
		val, sig = rt.execStatement(s.Body, env)
	}
	if sig.typ == sigBreak && sig.label == s.Label {
		return val, signal{}
	}
	return val, sig
}

// ---------- Function values ----------

func (rt *Runtime) makeFunction(name string, params []*ast.Identifier, body *ast.BlockStatement, env *runtime.Environment) *runtime.Value {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	fn := &runtime.Function{Name: name, Params: names, Body: body, Env: env}
	obj := runtime.NewFunctionObject(fn, rt.ctx.FunctionProto, rt.ctx.ObjectProto)
	return runtime.NewObjectValue(obj)
}

func (rt *Runtime) makeArrow(e *ast.ArrowFunctionLiteral, env *runtime.Environment) *runtime.Value {
	names := make([]string, len(e.Params))
	for i, p := range e.Params {
		names[i] = p.Name
	}
	fn := &runtime.Function{Params: names, Env: env, Arrow: true}
	switch body := e.Body.(type) {
	case *ast.BlockStatement:
		fn.Body = body
	case ast.Expression:
		fn.Expr = body
	}
	obj := runtime.NewFunctionObject(fn, rt.ctx.FunctionProto, rt.ctx.ObjectProto)
	return runtime.NewObjectValue(obj)
}

// Call invokes a function value. Script calls, 'new', builtin callbacks and
// timer drains all enter through here, so the call-stack push is always
// matched by a pop, including on error paths.
func (rt *Runtime) Call(fn, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
	if !fn.IsCallable() {
		return nil, runtime.Throwf("%s is not a function", fn.ToString())
	}
	if len(rt.callStack) >= rt.ctx.CallDepthLimit {
		return nil, runtime.Throwf("call depth limit of %d exceeded", rt.ctx.CallDepthLimit)
	}

	f := fn.Object.Fn
	label := f.Name
	if label == "" {
		label = "<anonymous>"
	}
	rt.callStack = append(rt.callStack, label)
	defer func() {
		rt.callStack = rt.callStack[:len(rt.callStack)-1]
	}()

	if f.IsNative() {
		return f.Native(rt, this, args)
	}

	env := runtime.NewEnvironment(f.Env)
	if !f.Arrow {
		// arrows see the enclosing 'this' through the closure chain
		env.DeclareLocal("this", this)
	}
	for i, p := range f.Params {
		if i < len(args) && args[i] != nil {
			env.DeclareLocal(p, args[i])
		} else {
			env.DeclareLocal(p, runtime.Undefined)
		}
	}
	if f.Name != "" {
		env.DeclareLocal(f.Name, fn)
	}

	if f.Expr != nil {
		val, sig := rt.evalExpression(f.Expr, env)
		return rt.finishCall(val, sig)
	}

	rt.declareFunctions(f.Body.Statements, env)
	for _, stmt := range f.Body.Statements {
		_, sig := rt.execStatement(stmt, env)
		if sig.typ == sigReturn {
			return sig.value, nil
		}
		if sig.typ != sigNone {
			return rt.finishCall(nil, sig)
		}
	}
	return runtime.Undefined, nil
}

// finishCall converts a trailing signal at a call boundary into the host
// error convention.
func (rt *Runtime) finishCall(val *runtime.Value, sig signal) (*runtime.Value, error) {
	switch sig.typ {
	case sigNone:
		if val == nil {
			val = runtime.Undefined
		}
		return val, nil
	case sigReturn:
		return sig.value, nil
	case sigThrow:
		return nil, runtime.Throw(sig.value)
	case sigAbort:
		return nil, sig.err
	default:
		return nil, leakError(sig)
	}
}

// callToSignal adapts the error convention of Call back into a signal.
func callToSignal(val *runtime.Value, err error) (*runtime.Value, signal) {
	if err == nil {
		return val, signal{}
	}
	if thrown, ok := err.(*runtime.Thrown); ok {
		return nil, signal{typ: sigThrow, value: thrown.Value}
	}
	return nil, signal{typ: sigAbort, err: err}
}

// ---------- Expressions ----------

func (rt *Runtime) evalExpression(expr ast.Expression, env *runtime.Environment) (*runtime.Value, signal) {
	rt.lastNode = expr
	switch e := expr.(type) {
	case *ast.Identifier:
		// an unbound name reads as undefined at the language level
		v, _ := env.Get(e.Name)
		return v, signal{}
	case *ast.NumberLiteral:
		return runtime.NewNumber(e.Value), signal{}
	case *ast.StringLiteral:
		return runtime.NewString(e.Value), signal{}
	case *ast.BooleanLiteral:
		return runtime.NewBool(e.Value), signal{}
	case *ast.NullLiteral:
		return runtime.Null, signal{}
	case *ast.UndefinedLiteral:
		return runtime.Undefined, signal{}
	case *ast.PatternLiteral:
		// raw-text fidelity only; the pattern is never compiled
		obj := runtime.NewObject(rt.ctx.ObjectProto)
		obj.Set("source", runtime.NewString(e.Raw))
		return runtime.NewObjectValue(obj), signal{}
	case *ast.ThisExpression:
		v, _ := env.Get("this")
		return v, signal{}
	case *ast.ArrayLiteral:
		return rt.evalArrayLiteral(e, env)
	case *ast.ObjectLiteral:
		return rt.evalObjectLiteral(e, env)
	case *ast.FunctionLiteral:
		name := ""
		if e.Name != nil {
			name = e.Name.Name
		}
		return rt.makeFunction(name, e.Params, e.Body, env), signal{}
	case *ast.ArrowFunctionLiteral:
		return rt.makeArrow(e, env), signal{}
	case *ast.UnaryExpression:
		return rt.evalUnary(e, env)
	case *ast.UpdateExpression:
		return rt.evalUpdate(e, env)
	case *ast.BinaryExpression:
		return rt.evalBinary(e, env)
	case *ast.LogicalExpression:
		return rt.evalLogical(e, env)
	case *ast.AssignmentExpression:
		return rt.evalAssignment(e, env)
	case *ast.ConditionalExpression:
		cond, sig := rt.evalExpression(e.Test, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		if cond.ToBoolean() {
			return rt.evalExpression(e.Consequent, env)
		}
		return rt.evalExpression(e.Alternate, env)
	case *ast.CallExpression:
		return rt.evalCall(e, env)
	case *ast.MemberExpression:
		objVal, key, sig := rt.evalMemberTarget(e, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		return rt.getMember(objVal, key)
	case *ast.NewExpression:
		return rt.evalNew(e, env)
	case *ast.SequenceExpression:
		var last *runtime.Value
		for _, sub := range e.Expressions {
			val, sig := rt.evalExpression(sub, env)
			if sig.typ != sigNone {
				return nil, sig
			}
			last = val
		}
		return last, signal{}
	default:
		return nil, rt.throwf("unsupported expression %s", ast.NodeType(expr))
	}
}

func (rt *Runtime) evalArrayLiteral(e *ast.ArrayLiteral, env *runtime.Environment) (*runtime.Value, signal) {
	elements := make([]*runtime.Value, len(e.Elements))
	for i, el := range e.Elements {
		if el == nil {
			continue // elided hole
		}
		val, sig := rt.evalExpression(el, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		elements[i] = val
	}
	return rt.ctx.NewArrayValue(elements), signal{}
}

func (rt *Runtime) evalObjectLiteral(e *ast.ObjectLiteral, env *runtime.Environment) (*runtime.Value, signal) {
	obj := runtime.NewObject(rt.ctx.ObjectProto)
	for _, prop := range e.Properties {
		val, sig := rt.evalExpression(prop.Value, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		obj.Set(prop.Key, val)
	}
	return runtime.NewObjectValue(obj), signal{}
}

func (rt *Runtime) evalUnary(e *ast.UnaryExpression, env *runtime.Environment) (*runtime.Value, signal) {
	if e.Operator == "delete" {
		return rt.evalDelete(e.Operand, env)
	}

	val, sig := rt.evalExpression(e.Operand, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	switch e.Operator {
	case "-":
		return runtime.NewNumber(-val.ToNumber()), signal{}
	case "+":
		return runtime.NewNumber(val.ToNumber()), signal{}
	case "!":
		return runtime.NewBool(!val.ToBoolean()), signal{}
	case "~":
		return runtime.NewNumber(float64(^val.ToInt32())), signal{}
	case "typeof":
		return runtime.NewString(typeofValue(val)), signal{}
	case "void":
		return runtime.Undefined, signal{}
	default:
		return nil, rt.throwf("unsupported unary operator %q", e.Operator)
	}
}

func typeofValue(val *runtime.Value) string {
	switch val.Type {
	case runtime.TypeUndefined:
		return "undefined"
	case runtime.TypeNull:
		return "object"
	case runtime.TypeBoolean:
		return "boolean"
	case runtime.TypeNumber:
		return "number"
	case runtime.TypeString:
		return "string"
	case runtime.TypeObject:
		if val.IsCallable() {
			return "function"
		}
		return "object"
	default:
		return "undefined"
	}
}

// evalDelete removes an own property (always reporting success) or a global
// binding; a local binding is never removed.
func (rt *Runtime) evalDelete(operand ast.Expression, env *runtime.Environment) (*runtime.Value, signal) {
	switch target := operand.(type) {
	case *ast.MemberExpression:
		objVal, key, sig := rt.evalMemberTarget(target, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		if objVal.Type == runtime.TypeObject && objVal.Object != nil {
			objVal.Object.Delete(key)
		}
		return runtime.True, signal{}
	case *ast.Identifier:
		return runtime.NewBool(env.Remove(target.Name)), signal{}
	default:
		return runtime.True, signal{}
	}
}

func (rt *Runtime) evalUpdate(e *ast.UpdateExpression, env *runtime.Environment) (*runtime.Value, signal) {
	old, sig := rt.evalExpression(e.Operand, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	n := old.ToNumber()
	delta := 1.0
	if e.Operator == "--" {
		delta = -1
	}
	updated := runtime.NewNumber(n + delta)
	if sig := rt.assignTo(e.Operand, updated, env); sig.typ != sigNone {
		return nil, sig
	}
	if e.Prefix {
		return updated, signal{}
	}
	return runtime.NewNumber(n), signal{}
}

func (rt *Runtime) evalBinary(e *ast.BinaryExpression, env *runtime.Environment) (*runtime.Value, signal) {
	left, sig := rt.evalExpression(e.Left, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	right, sig := rt.evalExpression(e.Right, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	return rt.applyBinary(e.Operator, left, right)
}

func (rt *Runtime) applyBinary(op string, left, right *runtime.Value) (*runtime.Value, signal) {
	switch op {
	case "+":
		if left.Type == runtime.TypeString || right.Type == runtime.TypeString {
			return runtime.NewString(left.ToString() + right.ToString()), signal{}
		}
		return runtime.NewNumber(left.ToNumber() + right.ToNumber()), signal{}
	case "-":
		return runtime.NewNumber(left.ToNumber() - right.ToNumber()), signal{}
	case "*":
		return runtime.NewNumber(left.ToNumber() * right.ToNumber()), signal{}
	case "/":
		return runtime.NewNumber(left.ToNumber() / right.ToNumber()), signal{}
	case "%":
		return runtime.NewNumber(math.Mod(left.ToNumber(), right.ToNumber())), signal{}
	case "==", "===":
		return runtime.NewBool(runtime.Equals(left, right)), signal{}
	case "!=", "!==":
		return runtime.NewBool(!runtime.Equals(left, right)), signal{}
	case "<", ">", "<=", ">=":
		return runtime.NewBool(runtime.Compare(op, left, right)), signal{}
	case "&":
		return runtime.NewNumber(float64(left.ToInt32() & right.ToInt32())), signal{}
	case "|":
		return runtime.NewNumber(float64(left.ToInt32() | right.ToInt32())), signal{}
	case "^":
		return runtime.NewNumber(float64(left.ToInt32() ^ right.ToInt32())), signal{}
	case "<<":
		return runtime.NewNumber(float64(left.ToInt32() << (right.ToUint32() & 31))), signal{}
	case ">>":
		return runtime.NewNumber(float64(left.ToInt32() >> (right.ToUint32() & 31))), signal{}
	case ">>>":
		return runtime.NewNumber(float64(left.ToUint32() >> (right.ToUint32() & 31))), signal{}
	case "in":
		return rt.evalIn(left, right)
	case "instanceof":
		return rt.evalInstanceof(left, right)
	default:
		return nil, rt.throwf("unsupported binary operator %q", op)
	}
}

func (rt *Runtime) evalIn(left, right *runtime.Value) (*runtime.Value, signal) {
	if right.Type != runtime.TypeObject || right.Object == nil {
		return nil, rt.throwf("cannot use 'in' operator on %s", right.Type)
	}
	_, found := right.Object.Get(left.ToString())
	return runtime.NewBool(found), signal{}
}

func (rt *Runtime) evalInstanceof(left, right *runtime.Value) (*runtime.Value, signal) {
	if !right.IsCallable() {
		return nil, rt.throwf("right-hand side of 'instanceof' is not a function")
	}
	protoVal, ok := right.Object.Props["prototype"]
	if !ok || protoVal.Type != runtime.TypeObject {
		return runtime.False, signal{}
	}
	if left.Type != runtime.TypeObject || left.Object == nil {
		return runtime.False, signal{}
	}
	for cur := left.Object.Proto; cur != nil; cur = cur.Proto {
		if cur == protoVal.Object {
			return runtime.True, signal{}
		}
	}
	return runtime.False, signal{}
}

// evalLogical short-circuits: the right operand is evaluated only when the
// left does not decide the result.
func (rt *Runtime) evalLogical(e *ast.LogicalExpression, env *runtime.Environment) (*runtime.Value, signal) {
	left, sig := rt.evalExpression(e.Left, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	if e.Operator == "&&" {
		if !left.ToBoolean() {
			return left, signal{}
		}
	} else {
		if left.ToBoolean() {
			return left, signal{}
		}
	}
	return rt.evalExpression(e.Right, env)
}

func (rt *Runtime) evalAssignment(e *ast.AssignmentExpression, env *runtime.Environment) (*runtime.Value, signal) {
	var val *runtime.Value
	if e.Operator == "=" {
		v, sig := rt.evalExpression(e.Right, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		val = v
	} else {
		// compound form desugars to: target = target OP value, with the
		// target read before the value is evaluated
		current, sig := rt.evalExpression(e.Left, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		right, sig := rt.evalExpression(e.Right, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		op := strings.TrimSuffix(e.Operator, "=")
		val, sig = rt.applyBinary(op, current, right)
		if sig.typ != sigNone {
			return nil, sig
		}
	}

	if sig := rt.assignTo(e.Left, val, env); sig.typ != sigNone {
		return nil, sig
	}
	return val, signal{}
}

func (rt *Runtime) assignTo(target ast.Expression, val *runtime.Value, env *runtime.Environment) signal {
	switch t := target.(type) {
	case *ast.Identifier:
		env.Set(t.Name, val)
		return signal{}
	case *ast.MemberExpression:
		objVal, key, sig := rt.evalMemberTarget(t, env)
		if sig.typ != sigNone {
			return sig
		}
		return rt.setMember(objVal, key, val)
	default:
		return rt.throwf("invalid assignment target %s", ast.NodeType(target))
	}
}

// evalMemberTarget evaluates the object and the property key of a member
// expression, resolving computed keys through ToString.
func (rt *Runtime) evalMemberTarget(e *ast.MemberExpression, env *runtime.Environment) (*runtime.Value, string, signal) {
	objVal, sig := rt.evalExpression(e.Object, env)
	if sig.typ != sigNone {
		return nil, "", sig
	}
	if !e.Computed {
		return objVal, e.Property.(*ast.Identifier).Name, signal{}
	}
	keyVal, sig := rt.evalExpression(e.Property, env)
	if sig.typ != sigNone {
		return nil, "", sig
	}
	return objVal, keyVal.ToString(), signal{}
}

func (rt *Runtime) getMember(objVal *runtime.Value, key string) (*runtime.Value, signal) {
	switch objVal.Type {
	case runtime.TypeObject:
		if objVal.Object == nil {
			return runtime.Undefined, signal{}
		}
		v, _ := objVal.Object.Get(key)
		return v, signal{}
	case runtime.TypeString:
		// strings index and measure by rune, not byte
		if key == "length" {
			return runtime.NewNumber(float64(utf8.RuneCountInString(objVal.Str))), signal{}
		}
		if idx, ok := runtime.ArrayIndex(key); ok {
			runes := []rune(objVal.Str)
			if idx < len(runes) {
				return runtime.NewString(string(runes[idx])), signal{}
			}
		}
		return runtime.Undefined, signal{}
	case runtime.TypeUndefined, runtime.TypeNull:
		return nil, rt.throwf("cannot read property %q of %s", key, objVal.Type)
	default:
		return runtime.Undefined, signal{}
	}
}

func (rt *Runtime) setMember(objVal *runtime.Value, key string, val *runtime.Value) signal {
	switch objVal.Type {
	case runtime.TypeObject:
		if objVal.Object != nil {
			objVal.Object.Set(key, val)
		}
		return signal{}
	case runtime.TypeUndefined, runtime.TypeNull:
		return rt.throwf("cannot set property %q of %s", key, objVal.Type)
	default:
		// writes on primitives are silently dropped
		return signal{}
	}
}

func (rt *Runtime) evalCall(e *ast.CallExpression, env *runtime.Environment) (*runtime.Value, signal) {
	var fnVal, thisVal *runtime.Value

	if member, ok := e.Callee.(*ast.MemberExpression); ok {
		objVal, key, sig := rt.evalMemberTarget(member, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		fn, sig := rt.getMember(objVal, key)
		if sig.typ != sigNone {
			return nil, sig
		}
		fnVal, thisVal = fn, objVal
	} else {
		fn, sig := rt.evalExpression(e.Callee, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		fnVal, thisVal = fn, runtime.Undefined
	}

	args, sig := rt.evalArguments(e.Arguments, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	return callToSignal(rt.Call(fnVal, thisVal, args))
}

func (rt *Runtime) evalArguments(exprs []ast.Expression, env *runtime.Environment) ([]*runtime.Value, signal) {
	args := make([]*runtime.Value, 0, len(exprs))
	for _, arg := range exprs {
		val, sig := rt.evalExpression(arg, env)
		if sig.typ != sigNone {
			return nil, sig
		}
		args = append(args, val)
	}
	return args, signal{}
}

// evalNew constructs an object: a fresh plain object whose prototype is the
// callee's own "prototype" property, passed as 'this'. The constructed
// object is always the result; the function's own return value is ignored.
func (rt *Runtime) evalNew(e *ast.NewExpression, env *runtime.Environment) (*runtime.Value, signal) {
	fnVal, sig := rt.evalExpression(e.Callee, env)
	if sig.typ != sigNone {
		return nil, sig
	}
	if !fnVal.IsCallable() {
		return nil, rt.throwf("%s is not a constructor", fnVal.ToString())
	}
	args, sig := rt.evalArguments(e.Arguments, env)
	if sig.typ != sigNone {
		return nil, sig
	}

	proto := rt.ctx.ObjectProto
	if pv, ok := fnVal.Object.Props["prototype"]; ok && pv.Type == runtime.TypeObject && pv.Object != nil {
		proto = pv.Object
	}
	thisVal := runtime.NewObjectValue(runtime.NewObject(proto))
	if _, err := rt.Call(fnVal, thisVal, args); err != nil {
		return callToSignal(nil, err)
	}
	return thisVal, signal{}
}
