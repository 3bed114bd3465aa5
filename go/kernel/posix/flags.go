package posix

import (
	"github.com/lunixbochs/fxshim/go/kernel/fornax"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

// openPlan is how a set of Linux open flags is carried out natively.
// Native open has no flags; create takes only the directory and append bits.
type openPlan struct {
	create   bool
	flags    uint64
	truncate bool
}

func planOpen(flags int) openPlan {
	if flags&linux.O_CREAT != 0 {
		var fx uint64
		if flags&linux.O_DIRECTORY != 0 {
			fx |= fornax.O_DIR
		}
		if flags&linux.O_APPEND != 0 {
			fx |= fornax.O_APPEND
		}
		return openPlan{create: true, flags: fx}
	}
	return openPlan{truncate: flags&linux.O_TRUNC != 0}
}
