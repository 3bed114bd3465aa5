package dump

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/lunixbochs/fxshim/go/cmd"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
	"github.com/lunixbochs/fxshim/go/models/trace"
)

// Format writes one op as a line of text.
func Format(w io.Writer, op interface{}) {
	switch o := op.(type) {
	case *trace.OpCall:
		ret := fmt.Sprintf("%#x", o.Ret)
		if o.Ret < 0 && o.Ret > -4096 {
			ret = "-1 " + linux.ErrnoName(int(-o.Ret))
		}
		fmt.Fprintf(w, "%s(%#x, %#x, %#x, %#x, %#x, %#x) = %s\n", linux.Name(int(o.Num)),
			o.Args[0], o.Args[1], o.Args[2], o.Args[3], o.Args[4], o.Args[5], ret)
	case *trace.OpCwd:
		fmt.Fprintf(w, "# cwd %s\n", o.Dir)
	case *trace.OpExit:
		fmt.Fprintf(w, "# exit %d\n", o.Code)
	}
}

// Dump prints every op in r, as text or one JSON object per line.
func Dump(w io.Writer, r *trace.TraceReader, asJSON bool) error {
	if asJSON {
		header, err := json.Marshal(r.Header)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n", header)
	} else {
		fmt.Fprintf(w, "# %s/%s calls on %s\n", r.Header.OS, r.Header.Arch, r.Header.Native)
	}
	for {
		op, err := r.Next()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrap(err, "reading trace")
		}
		if asJSON {
			line, err := json.Marshal(op)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\n", line)
		} else {
			Format(w, op)
		}
	}
}

func Main(args []string) int {
	fs := pflag.NewFlagSet("dump", pflag.ContinueOnError)
	asJSON := fs.Bool("json", false, "print ops as JSON lines")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [--json] <record file>\n", args[0])
		fmt.Fprint(os.Stderr, fs.FlagUsages())
	}
	if err := fs.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	r, err := trace.NewReader(f)
	if err != nil {
		f.Close()
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer r.Close()
	if err := Dump(os.Stdout, r, *asJSON); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() { cmd.Register("dump", "print a recorded call file", Main) }
