package main

import (
	"github.com/lunixbochs/fxshim/go/cmd"

	_ "github.com/lunixbochs/fxshim/go/cmd/dump"
	_ "github.com/lunixbochs/fxshim/go/cmd/repl"
	_ "github.com/lunixbochs/fxshim/go/cmd/run"
)

func main() { cmd.Main() }
