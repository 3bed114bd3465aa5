package repl

import (
	"github.com/lunixbochs/fxshim/go/cmd"
	"github.com/lunixbochs/fxshim/go/ui"
)

func Main(args []string) int {
	c := cmd.NewShimCmd("")
	c.RunShim = func(args []string) error {
		repl, err := ui.NewRepl(c.Shell)
		if err != nil {
			return err
		}
		if c.TraceStderr {
			c.Config.Output = repl.Stderr()
		}
		return repl.Run()
	}
	return c.Run(args)
}

func init() { cmd.Register("repl", "issue calls interactively", Main) }
