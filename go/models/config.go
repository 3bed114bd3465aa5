package models

import (
	"io"
	"os"

	hclog "github.com/hashicorp/go-hclog"
)

type Config struct {
	// TraceSys prints every foreign call and its result.
	TraceSys bool
	// TraceNative logs every native call issued on behalf of a foreign call.
	TraceNative bool
	Color       bool
	Strsize     int

	Output io.Writer
	Logger hclog.Logger
}

func (c *Config) Init() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Output == nil {
		c.Output = os.Stderr
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
	if c.Strsize == 0 {
		c.Strsize = 30
	}
	return c
}
