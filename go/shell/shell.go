// Package shell is a small command language for issuing foreign calls
// against a shim by hand.
package shell

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/lunixbochs/argjoy"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
)

type Command struct {
	Name string
	Desc string
	// Run is a func taking *Context first. Remaining parameters are parsed from the command line.
	Run interface{}
}

var Commands = make(map[string]*Command)

func cmd(c *Command) *Command {
	fn := reflect.ValueOf(c.Run)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		panic(fmt.Sprintf("Command.Run must be a func: got (%T) %#v\n", c.Run, c.Run))
	}
	Commands[c.Name] = c
	return c
}

// strToInt accepts decimal, 0x hex, 0 octal and negative numbers.
func strToInt(arg interface{}, vals []interface{}) error {
	s, ok := vals[0].(string)
	if !ok {
		return argjoy.NoMatch
	}
	if v, ok := arg.(*string); ok {
		*v = s
		return nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		u, uerr := strconv.ParseUint(s, 0, 64)
		if uerr != nil {
			switch arg.(type) {
			case *int, *int64, *uint64:
				return errors.Errorf("bad number %q", s)
			}
			return argjoy.NoMatch
		}
		n = int64(u)
	}
	switch v := arg.(type) {
	case *int:
		*v = int(n)
	case *int64:
		*v = n
	case *uint64:
		*v = uint64(n)
	default:
		return argjoy.NoMatch
	}
	return nil
}

var aj = argjoy.NewArgjoy(strToInt)

func convert(types []reflect.Type, words []string) ([]reflect.Value, error) {
	vals := make([]interface{}, len(words))
	for i, w := range words {
		vals[i] = w
	}
	return aj.Convert(types, false, vals)
}

// bind parses words into the parameters of fn after the context.
func bind(fn reflect.Value, words []string) ([]reflect.Value, error) {
	t := fn.Type()
	var fixed []reflect.Type
	for i := 1; i < t.NumIn(); i++ {
		fixed = append(fixed, t.In(i))
	}
	var elem reflect.Type
	if t.IsVariadic() {
		elem = fixed[len(fixed)-1].Elem()
		fixed = fixed[:len(fixed)-1]
	}
	if len(words) < len(fixed) || (elem == nil && len(words) > len(fixed)) {
		return nil, errors.Errorf("expected %d arguments, got %d", len(fixed), len(words))
	}
	in, err := convert(fixed, words[:len(fixed)])
	if err != nil {
		return nil, err
	}
	for _, w := range words[len(fixed):] {
		v, err := convert([]reflect.Type{elem}, []string{w})
		if err != nil {
			return nil, err
		}
		in = append(in, v...)
	}
	return in, nil
}

// Run parses and executes one line. Command failures are printed, not returned;
// the error is only for output failures.
func Run(c *Context, line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		_, err = c.Printf("parse error: %v\n", err)
		return err
	}
	if len(args) == 0 {
		return nil
	}
	name, args := args[0], c.expand(args[1:])
	command, ok := Commands[name]
	if !ok {
		_, err := c.Printf("command not found: %s\n", name)
		return err
	}
	fn := reflect.ValueOf(command.Run)
	in, err := bind(fn, args)
	if err != nil {
		_, err = c.Printf("%s: %v\n", name, err)
		return err
	}
	out := fn.Call(append([]reflect.Value{reflect.ValueOf(c)}, in...))
	if len(out) > 0 {
		if err, ok := out[0].Interface().(error); ok && err != nil {
			_, err = c.Printf("error: %v\n", err)
			return err
		}
	}
	return nil
}

// RunScript runs every line of r, stopping at the first output failure.
func RunScript(c *Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "reading script")
	}
	for _, line := range strings.Split(string(data), "\n") {
		if err := Run(c, line); err != nil {
			return err
		}
	}
	return nil
}

func names() []string {
	out := make([]string, 0, len(Commands))
	for name := range Commands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
