package ui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"

	"github.com/lunixbochs/fxshim/go/shell"
)

type Repl struct {
	ctx *shell.Context
	rl  *readline.Instance
}

// NewRepl attaches a line editor to ctx. Command output goes to the editor's
// stdout so the prompt is redrawn after it.
func NewRepl(ctx *shell.Context) (*Repl, error) {
	// get history path
	configDirs := configdir.New("fxshim", "repl")
	cacheDir := configDirs.QueryCacheFolder()
	historyPath := ""
	if err := cacheDir.MkdirAll(); err == nil {
		historyPath = filepath.Join(cacheDir.Path, "history")
	}
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryFile:     historyPath,
		AutoComplete:    completer(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "starting line editor")
	}
	ctx.Writer = rl.Stdout()
	return &Repl{ctx: ctx, rl: rl}, nil
}

func completer() readline.AutoCompleter {
	var items []readline.PrefixCompleterInterface
	for name := range shell.Commands {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewPrefixCompleter(items...)
}

func (r *Repl) setPrompt() {
	r.rl.SetPrompt(fmt.Sprintf("%s> ", r.ctx.K.Cwd()))
}

// Run reads and executes lines until EOF.
func (r *Repl) Run() error {
	defer r.rl.Close()
	for {
		r.setPrompt()
		line, err := r.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrap(err, "reading line")
		}
		if err := shell.Run(r.ctx, line); err != nil {
			return err
		}
	}
}

// Stderr is where trace output should go while the editor owns the terminal.
func (r *Repl) Stderr() io.Writer {
	return r.rl.Stderr()
}
