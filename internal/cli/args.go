package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// flagDef describes one accepted flag spelling.
type flagDef struct {
	name  string // canonical name
	value bool   // takes a value
}

type flagSet map[string]flagDef

var (
	solveFlags = flagSet{
		"g":       {name: "graph"},
		"graph":   {name: "graph"},
		"e":       {name: "explain"},
		"explain": {name: "explain"},
		"json":    {name: "json"},
	}
	batchFlags = flagSet{
		"w":       {name: "workers", value: true},
		"workers": {name: "workers", value: true},
		"json":    {name: "json"},
	}
	historyFlags = flagSet{
		"n":     {name: "limit", value: true},
		"limit": {name: "limit", value: true},
		"type":  {name: "type", value: true},
		"json":  {name: "json"},
	}
)

// parsedArgs is the result of parseArgs.
type parsedArgs struct {
	positional []string
	bools      map[string]bool
	values     map[string]string
}

// parseArgs splits raw into known flags and positional arguments.
//
// Equations often start with '-' ("-X^2 = 4"), so a single-dash token is
// only a flag when its name is in flags; anything else stays positional.
// An unknown "--name" is an error. "--" ends flag parsing.
func parseArgs(raw []string, flags flagSet) (*parsedArgs, error) {
	p := &parsedArgs{bools: map[string]bool{}, values: map[string]string{}}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		if arg == "--" {
			p.positional = append(p.positional, raw[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			p.positional = append(p.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		def, known := flags[name]
		if !known {
			if strings.HasPrefix(arg, "--") && isFlagName(name) {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
			p.positional = append(p.positional, arg)
			continue
		}

		if !def.value {
			if !hasValue {
				p.bools[def.name] = true
				continue
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("flag %s: %q is not a boolean", arg, value)
			}
			p.bools[def.name] = b
			continue
		}

		if !hasValue {
			if i+1 >= len(raw) {
				return nil, fmt.Errorf("flag %s needs a value", arg)
			}
			i++
			value = raw[i]
		}
		p.values[def.name] = value
	}
	return p, nil
}

// joined returns the positional arguments as one string, so an equation
// split by the shell is put back together.
func (p *parsedArgs) joined() string {
	return strings.TrimSpace(strings.Join(p.positional, " "))
}

// intValue parses a value flag, returning def when it is absent.
func (p *parsedArgs) intValue(name string, def, lo, hi int) (int, error) {
	v, ok := p.values[name]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("--%s must be an integer between %d and %d, got %q", name, lo, hi, v)
	}
	return n, nil
}

func isFlagName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != '-' {
			return false
		}
	}
	return true
}
