package run

import (
	"os"

	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/cmd"
	"github.com/lunixbochs/fxshim/go/shell"
)

func Main(args []string) int {
	c := cmd.NewShimCmd("<script> [args...]")
	c.RunShim = func(args []string) error {
		if len(args) < 1 {
			c.Flags.Usage()
			return errors.New("no script given")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "opening script")
		}
		defer f.Close()
		return shell.RunScript(c.Shell, f)
	}
	return c.Run(args)
}

func init() { cmd.Register("run", "run a script of shell commands", Main) }
