package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/example/formjs/interpreter"
	"github.com/example/formjs/runtime"
)

// installGlobals exposes the free-standing conversion helpers.
func installGlobals(ctx *interpreter.Context) {
	ctx.SetGlobal("NaN", runtime.NewNumber(math.NaN()))
	ctx.SetGlobal("Infinity", runtime.NewNumber(math.Inf(1)))

	ctx.RegisterNative("parseInt", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewNumber(parseIntString(arg(args, 0).ToString(), arg(args, 1).ToNumber())), nil
	})

	ctx.RegisterNative("parseFloat", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewNumber(parseFloatString(arg(args, 0).ToString())), nil
	})

	ctx.RegisterNative("isNaN", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewBool(math.IsNaN(arg(args, 0).ToNumber())), nil
	})

	ctx.RegisterNative("String", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NewString(""), nil
		}
		return runtime.NewString(args[0].ToString()), nil
	})

	ctx.RegisterNative("Number", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		if len(args) == 0 {
			return runtime.NewNumber(0), nil
		}
		return runtime.NewNumber(args[0].ToNumber()), nil
	})

	ctx.RegisterNative("Boolean", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		return runtime.NewBool(arg(args, 0).ToBoolean()), nil
	})
}

// installTimers exposes the deferred-call queue. No wall clock is involved:
// delay arguments are accepted and ignored, and queued entries run only when
// the host drains the context.
func installTimers(ctx *interpreter.Context) {
	ctx.RegisterNative("setTimeout", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		fn, err := callback("setTimeout", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(float64(ctx.Schedule(fn, extraArgs(args)))), nil
	})

	ctx.RegisterNative("setInterval", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		fn, err := callback("setInterval", arg(args, 0))
		if err != nil {
			return nil, err
		}
		return runtime.NewNumber(float64(ctx.ScheduleRepeating(fn, extraArgs(args)))), nil
	})

	ctx.RegisterNative("clearInterval", func(rt runtime.Caller, this *runtime.Value, args []*runtime.Value) (*runtime.Value, error) {
		ctx.CancelRepeating(int(arg(args, 0).ToNumber()))
		return runtime.Undefined, nil
	})
}

// extraArgs collects the values after the callback and delay, forwarded to
// the callback on each run.
func extraArgs(args []*runtime.Value) []*runtime.Value {
	if len(args) <= 2 {
		return nil
	}
	out := make([]*runtime.Value, len(args)-2)
	copy(out, args[2:])
	return out
}

func parseIntString(s string, radixArg float64) float64 {
	s = strings.TrimSpace(s)
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	radix := 10
	if !math.IsNaN(radixArg) && radixArg != 0 {
		radix = int(radixArg)
		if radix < 2 || radix > 36 {
			return math.NaN()
		}
	}
	if (radix == 16 || radixArg == 0 || math.IsNaN(radixArg)) &&
		(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		radix = 16
		s = s[2:]
	}

	// longest valid digit prefix
	end := 0
	for end < len(s) {
		if digitValue(s[end]) >= radix {
			break
		}
		end++
	}
	if end == 0 {
		return math.NaN()
	}
	n, err := strconv.ParseInt(s[:end], radix, 64)
	if err != nil {
		// overflow of int64; fall back to float accumulation
		acc := 0.0
		for i := 0; i < end; i++ {
			acc = acc*float64(radix) + float64(digitValue(s[i]))
		}
		return sign * acc
	}
	return sign * float64(n)
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

func parseFloatString(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit := false
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	if strings.HasPrefix(s[end:], "Infinity") {
		f, _ := strconv.ParseFloat(s[:end]+"Inf", 64)
		return f
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		seenDigit = true
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			seenDigit = true
		}
	}
	if seenDigit && end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		mark := end
		end++
		if end < len(s) && (s[end] == '+' || s[end] == '-') {
			end++
		}
		expDigits := false
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			expDigits = true
		}
		if !expDigits {
			end = mark
		}
	}
	if !seenDigit {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
