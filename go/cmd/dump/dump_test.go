package dump

import (
	"bytes"
	"io/ioutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/fxshim/go/models/trace"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func record(t *testing.T) []byte {
	var buf bytes.Buffer
	w, err := trace.NewWriter(nopWriteCloser{&buf}, "vfornax")
	require.NoError(t, err)
	require.NoError(t, w.Pack(&trace.OpCwd{Dir: "/"}))
	require.NoError(t, w.Record(39, [6]int64{}, 1))
	require.NoError(t, w.Record(2, [6]int64{0x1000, 0}, -2))
	require.NoError(t, w.Pack(&trace.OpExit{Code: 7}))
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDumpText(t *testing.T) {
	r, err := trace.NewReader(ioutil.NopCloser(bytes.NewReader(record(t))))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, Dump(&out, r, false))
	assert.Equal(t, "# linux/x86_64 calls on vfornax\n"+
		"# cwd /\n"+
		"getpid(0x0, 0x0, 0x0, 0x0, 0x0, 0x0) = 0x1\n"+
		"open(0x1000, 0x0, 0x0, 0x0, 0x0, 0x0) = -1 ENOENT\n"+
		"# exit 7\n", out.String())
}

func TestDumpJSON(t *testing.T) {
	r, err := trace.NewReader(ioutil.NopCloser(bytes.NewReader(record(t))))
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, Dump(&out, r, true))
	assert.Equal(t, `{"version":1,"arch":"x86_64","os":"linux","native":"vfornax"}`+"\n"+
		`{"op":2,"dir":"/"}`+"\n"+
		`{"op":1,"num":39,"args":[0,0,0,0,0,0],"ret":1}`+"\n"+
		`{"op":1,"num":2,"args":[4096,0,0,0,0,0],"ret":-2}`+"\n"+
		`{"op":3,"code":7}`+"\n", out.String())
}
