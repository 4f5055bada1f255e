// Package command implements the text command language used to drive
// the simulator: a line of text split into `&&`-joined statements,
// each resolved against a registry of named handlers whose argument
// shape is declared by a docstring-like spec string, positionals
// consumed before flags, with single-value, variadic, and boolean
// flag forms.
package command

import (
	"fmt"
	"strconv"
	"strings"
)

// ArgError reports that a statement's arguments didn't match its
// registered ArgSpec.
type ArgError struct {
	Command string
	Reason  string
	Spec    string
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("command %q failed: %s (expected: %s)", e.Command, e.Reason, e.Spec)
}

// flagKind distinguishes the three declared flag shapes.
type flagKind int

const (
	flagValue flagKind = iota // -f V
	flagList                  // --f V1 V2 ...
	flagBool                  // -+f (presence alone sets true)
)

// PositionalSpec is one declared positional argument. Variadic,
// meaning it greedily collects every remaining positional token, is
// set for a docstring line beginning with `*`.
type PositionalSpec struct {
	Name     string
	Desc     string
	Variadic bool
}

// FlagSpec is one declared flag argument, keyed at registration by its
// bare name (without the leading dash(es)).
type FlagSpec struct {
	Name string
	Desc string
	Kind flagKind
}

// ArgSpec is the parsed shape of one command's arguments, built once
// at registration time from a docstring-style spec string rather than
// re-parsed on every call.
type ArgSpec struct {
	Desc        string
	Positionals []PositionalSpec
	Flags       map[string]FlagSpec // keyed by bare flag name, lowercased
	spec        string
}

// String returns the compact "POS1 POS2 -f NAME --g NAME" form used in
// error messages.
func (s *ArgSpec) String() string { return s.spec }

// ParseArgSpec builds an ArgSpec from a docstring of the form:
//
//	One-line description
//	___
//	VARNAME Description of positional
//	*VARNAME Description of variadic positional (must come last)
//	-f VARNAME Description of single-value flag
//	--f VARNAME Description of variadic flag
//	-+f VARNAME Description of boolean flag
//
// The `___` separator line is optional; blank lines are ignored.
func ParseArgSpec(docstring string) (*ArgSpec, error) {
	lines := splitNonEmpty(docstring)
	desc := "__MISSING DESCRIPTION__"
	if len(lines) > 0 && lines[0] != "___" {
		desc = lines[0]
		lines = lines[1:]
	} else if len(lines) > 0 {
		lines = lines[1:]
	}

	var positionals []PositionalSpec
	flags := make(map[string]FlagSpec)
	sawFlag := false
	for _, line := range lines {
		if line == "___" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "--"):
			name, d, err := splitFlagLine(line, 2)
			if err != nil {
				return nil, err
			}
			flags[strings.ToLower(name)] = FlagSpec{Name: strings.ToUpper(name), Desc: d, Kind: flagList}
			sawFlag = true
		case strings.HasPrefix(line, "-+"):
			name, d, err := splitFlagLine(line, 2)
			if err != nil {
				return nil, err
			}
			flags[strings.ToLower(name)] = FlagSpec{Name: strings.ToUpper(name), Desc: d, Kind: flagBool}
			sawFlag = true
		case strings.HasPrefix(line, "-"):
			name, d, err := splitFlagLine(line, 1)
			if err != nil {
				return nil, err
			}
			flags[strings.ToLower(name)] = FlagSpec{Name: strings.ToUpper(name), Desc: d, Kind: flagValue}
			sawFlag = true
		case strings.HasPrefix(line, "*"):
			if sawFlag {
				return nil, fmt.Errorf("command: positional argument after flags in docstring: %q", line)
			}
			name, d, ok := cut(line[1:])
			if !ok {
				return nil, fmt.Errorf("command: variadic positional requires a name and description: %q", line)
			}
			positionals = append(positionals, PositionalSpec{Name: strings.ToUpper(name), Desc: d, Variadic: true})
		default:
			if sawFlag {
				return nil, fmt.Errorf("command: positional argument after flags in docstring: %q", line)
			}
			name, d, ok := cut(line)
			if !ok {
				return nil, fmt.Errorf("command: positional argument requires a name and description: %q", line)
			}
			positionals = append(positionals, PositionalSpec{Name: strings.ToUpper(name), Desc: d})
		}
	}

	return &ArgSpec{Desc: desc, Positionals: positionals, Flags: flags, spec: formatSpec(positionals, flags)}, nil
}

func splitFlagLine(line string, dashLen int) (name, desc string, err error) {
	body := line[dashLen:]
	name, rest, ok := cut(body)
	if !ok {
		return "", "", fmt.Errorf("command: flag line requires a name: %q", line)
	}
	d, r, ok := cut(rest)
	if ok {
		return name, d + " " + r, nil
	}
	return name, d, nil
}

func cut(s string) (first, rest string, ok bool) {
	s = strings.TrimSpace(s)
	idx := strings.IndexByte(s, ' ')
	if idx < 0 {
		return s, "", s != ""
	}
	return s[:idx], strings.TrimSpace(s[idx+1:]), true
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func formatSpec(positionals []PositionalSpec, flags map[string]FlagSpec) string {
	var parts []string
	for _, p := range positionals {
		if p.Variadic {
			parts = append(parts, "*"+p.Name)
		} else {
			parts = append(parts, p.Name)
		}
	}
	for key, f := range flags {
		prefix := "-"
		if f.Kind == flagList {
			prefix = "--"
		} else if f.Kind == flagBool {
			prefix = "-+"
		}
		parts = append(parts, fmt.Sprintf("%s%s %s", prefix, key, f.Name))
	}
	return strings.Join(parts, " ")
}

// Args is the result of parsing one statement's argument string
// against its ArgSpec: positional values in declaration order (a
// trailing variadic positional becomes a []interface{}), and flag
// values keyed by lowercased flag name.
type Args struct {
	Positional []interface{}
	Flags      map[string]interface{}
}

// tryNumber coerces tok to an int or float64 if it parses as one,
// otherwise returns the original string unchanged.
func tryNumber(tok string) interface{} {
	if i, err := strconv.Atoi(tok); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}

// Parse tokenizes argString on whitespace and matches it against spec:
// positionals are consumed until a flag token (leading `-`) is seen,
// then flags are consumed in turn. A declared variadic positional
// absorbs every remaining non-flag token. A declared list flag
// consumes values until the next flag or end of input. A boolean flag
// needs no value and is set true by its mere presence.
func (spec *ArgSpec) Parse(argString string) (*Args, error) {
	tokens := strings.Fields(argString)
	i := 0
	var positional []interface{}

	declaredCount := len(spec.Positionals)
	variadic := declaredCount > 0 && spec.Positionals[declaredCount-1].Variadic
	fixedCount := declaredCount
	if variadic {
		fixedCount--
	}

	for i < len(tokens) && !strings.HasPrefix(tokens[i], "-") {
		positional = append(positional, tryNumber(tokens[i]))
		i++
	}

	if variadic {
		if len(positional) < fixedCount {
			return nil, &ArgError{Reason: "missing positional arguments", Spec: spec.spec}
		}
		fixed := positional[:fixedCount]
		rest := append([]interface{}{}, positional[fixedCount:]...)
		positional = append(append([]interface{}{}, fixed...), interface{}(rest))
	} else if len(positional) != fixedCount {
		if len(positional) < fixedCount {
			return nil, &ArgError{Reason: "missing positional arguments", Spec: spec.spec}
		}
		return nil, &ArgError{Reason: "unexpected positional arguments", Spec: spec.spec}
	}

	flags := make(map[string]interface{})
	for i < len(tokens) {
		tok := tokens[i]
		i++
		if !strings.HasPrefix(tok, "-") {
			return nil, &ArgError{Reason: fmt.Sprintf("unexpected argument: %s", tok), Spec: spec.spec}
		}
		name := strings.ToLower(strings.TrimLeft(tok, "-+"))
		fs, ok := spec.Flags[name]
		if !ok {
			return nil, &ArgError{Reason: fmt.Sprintf("unexpected flag: %s", tok), Spec: spec.spec}
		}
		switch fs.Kind {
		case flagBool:
			flags[name] = true
		case flagList:
			var values []interface{}
			for i < len(tokens) && !strings.HasPrefix(tokens[i], "-") {
				values = append(values, tryNumber(tokens[i]))
				i++
			}
			flags[name] = values
		default:
			if i >= len(tokens) || strings.HasPrefix(tokens[i], "-") {
				flags[name] = true
				continue
			}
			flags[name] = tryNumber(tokens[i])
			i++
		}
	}

	return &Args{Positional: positional, Flags: flags}, nil
}
