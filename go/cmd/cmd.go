package cmd

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"strings"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/lunixbochs/fxshim/go/kernel/fornax/vfornax"
	"github.com/lunixbochs/fxshim/go/kernel/fornax/vfornax/hostfs"
	"github.com/lunixbochs/fxshim/go/kernel/fornax/vfornax/memfs"
	"github.com/lunixbochs/fxshim/go/kernel/posix"
	"github.com/lunixbochs/fxshim/go/log"
	"github.com/lunixbochs/fxshim/go/models"
	"github.com/lunixbochs/fxshim/go/models/mem"
	"github.com/lunixbochs/fxshim/go/models/trace"
	"github.com/lunixbochs/fxshim/go/shell"
)

// ShimCmd builds a shim over an in-process native kernel from command line flags.
type ShimCmd struct {
	Config *models.Config
	Flags  *pflag.FlagSet
	Usage  string

	Space  *mem.Space
	Native *vfornax.Kernel
	Kernel *posix.PosixKernel
	Shell  *shell.Context

	// RunShim is called on the initial thread once the stack is built.
	RunShim func(args []string) error
	// TraceStderr is set when traces go to the terminal rather than a file.
	TraceStderr bool

	rec *trace.TraceWriter
}

func NewShimCmd(usage string) *ShimCmd {
	fs := pflag.NewFlagSet("fxshim", pflag.ContinueOnError)
	return &ShimCmd{Flags: fs, Usage: usage, Config: &models.Config{}}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (c *ShimCmd) PrintError(err error) {
	// print an error, and a stacktrace if available
	fmt.Fprintf(os.Stderr, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if err, ok := err.(stackTracer); ok {
		var frames [][2]string
		width := 0
		for _, f := range err.StackTrace() {
			frame := [2]string{fmt.Sprintf("%s:%d", f, f), fmt.Sprintf("%n", f)}
			if len(frame[0]) > width {
				width = len(frame[0])
			}
			frames = append(frames, frame)
			if frame[1] == "main" {
				break
			}
		}
		for _, f := range frames {
			fmt.Fprintf(os.Stderr, "%-*s | %s()\n", width, f[0], f[1])
		}
	}
}

func (c *ShimCmd) output(path string) (io.Writer, bool, error) {
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, false, errors.Wrap(err, "opening trace output")
		}
		return f, false, nil
	}
	tty := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return colorable.NewColorableStderr(), tty, nil
}

// Setup parses flags and builds the address space, native kernel, shim and shell.
func (c *ShimCmd) Setup(argv []string) ([]string, error) {
	fs := c.Flags
	root := fs.String("root", "", "serve files from this host directory (default: empty in-memory filesystem)")
	strace := fs.Bool("strace", false, "trace foreign calls")
	ntrace := fs.Bool("ntrace", false, "trace native calls")
	color := fs.String("color", "auto", "colorize traces: auto, always or never")
	strsize := fs.Int("strsize", 30, "limit traced strings to this length (0 disables)")
	record := fs.String("record", "", "record every foreign call to this file")
	outfile := fs.StringP("output", "o", "", "write traces to this file (default stderr)")
	cwd := fs.String("cwd", "/", "initial working directory")
	pid := fs.Uint64("pid", 1, "process id reported by the native kernel")
	verbose := fs.BoolP("verbose", "v", false, "log unsupported calls")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] %s\n\nOptions:\n", argv[0], c.Usage)
		fmt.Fprint(os.Stderr, fs.FlagUsages())
	}
	if err := fs.Parse(argv[1:]); err != nil {
		return nil, err
	}

	out, tty, err := c.output(*outfile)
	if err != nil {
		return nil, err
	}
	switch *color {
	case "always":
		c.Config.Color = true
	case "never":
	case "auto":
		c.Config.Color = tty
	default:
		return nil, errors.Errorf("bad --color value %q", *color)
	}
	logger := log.Named("posix")
	if *ntrace {
		log.L.SetLevel(hclog.Trace)
	} else if *verbose {
		log.L.SetLevel(hclog.Debug)
	}
	c.Config.TraceSys = *strace
	c.Config.TraceNative = *ntrace
	c.Config.Strsize = *strsize
	c.Config.Output = out
	c.TraceStderr = *outfile == ""
	c.Config.Logger = logger

	var backend vfornax.FS
	if *root != "" {
		if backend, err = hostfs.New(*root); err != nil {
			return nil, err
		}
	} else {
		backend = memfs.New()
	}
	c.Space = mem.NewSpace()
	c.Native = vfornax.New(c.Space, backend, &vfornax.Options{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Random: rand.Reader,
		Logger: log.Named("vfornax"),
		Pid:    *pid,
	})
	if c.Kernel, err = posix.New(c.Native, c.Space, c.Config); err != nil {
		return nil, err
	}
	if err := c.Kernel.SetCwd(*cwd); err != nil {
		return nil, err
	}
	if *record != "" {
		f, err := os.Create(*record)
		if err != nil {
			return nil, errors.Wrap(err, "creating record file")
		}
		if c.rec, err = trace.NewWriter(models.NewAsyncStream(f), "vfornax"); err != nil {
			f.Close()
			return nil, err
		}
		c.Kernel.Recorder = c.rec
		if err := c.rec.Pack(&trace.OpCwd{Dir: *cwd}); err != nil {
			return nil, err
		}
	}
	args := fs.Args()
	if err := c.Native.SetArgs(append([]string{argv[0]}, args...)); err != nil {
		return nil, err
	}
	c.Shell = shell.NewContext(os.Stdout, c.Kernel, c.Native)
	return args, nil
}

func (c *ShimCmd) teardown(code int) {
	c.Native.WaitThreads()
	if c.rec != nil {
		if err := c.rec.Pack(&trace.OpExit{Code: int32(code)}); err != nil {
			c.PrintError(err)
		}
		if err := c.rec.Close(); err != nil {
			c.PrintError(err)
		}
		log.L.Debug("recorded calls", "count", c.rec.Calls)
	}
	if f, ok := c.Config.Output.(io.Closer); ok && !c.TraceStderr {
		f.Close()
	}
}

// Run builds the stack and runs RunShim as the initial thread. It returns the exit code.
func (c *ShimCmd) Run(argv []string) int {
	args, err := c.Setup(argv)
	if err == pflag.ErrHelp {
		return 0
	} else if err != nil {
		c.PrintError(err)
		return 1
	}
	var runErr error
	code := c.Native.Run(func() {
		runErr = c.RunShim(args)
	})
	if runErr != nil {
		c.PrintError(runErr)
		if code == 0 {
			code = 1
		}
	}
	c.teardown(code)
	return code
}
