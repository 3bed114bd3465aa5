package models

import "io"

// Op is one record in a call trace stream.
type Op interface {
	Sizeof() int
	Pack(p []byte)
	Unpack(r io.Reader) (int, error)
}
