package trace

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunixbochs/fxshim/go/models"
)

var allOps = []models.Op{
	&OpNop{},
	&OpCwd{"/home/fornax"},
	&OpCall{Num: 1, Args: [6]int64{1, 0x100000, 2, 0, 0, -1}, Ret: 2},
	&OpCall{Num: 41, Ret: -38},
	&OpCwd{""},
	&OpExit{Code: -3},
}

func TestOpPack(t *testing.T) {
	for _, op := range allOps {
		buf := make([]byte, op.Sizeof())
		op.Pack(buf)
		got, n, err := Unpack(bytes.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, len(buf), n)
		assert.Equal(t, op, got)
	}
	_, _, err := Unpack(bytes.NewReader([]byte{0x7f}))
	assert.Error(t, err)
	_, _, err = Unpack(bytes.NewReader([]byte{OP_CALL, 1, 2}))
	assert.Error(t, err, "truncated op")
}

func TestOpJSON(t *testing.T) {
	out, err := json.Marshal(allOps)
	require.NoError(t, err)
	assert.Equal(t, `[{"op":0},{"op":2,"dir":"/home/fornax"},`+
		`{"op":1,"num":1,"args":[1,1048576,2,0,0,-1],"ret":2},`+
		`{"op":1,"num":41,"args":[0,0,0,0,0,0],"ret":-38},`+
		`{"op":2,"dir":""},{"op":3,"code":-3}]`, string(out))
}

type closeBuffer struct {
	bytes.Buffer
	closed bool
}

func (c *closeBuffer) Close() error {
	c.closed = true
	return nil
}

func TestTraceFile(t *testing.T) {
	var file closeBuffer
	w, err := NewWriter(&file, "vfornax")
	require.NoError(t, err)
	require.NoError(t, w.Pack(&OpCwd{"/"}))
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.NoError(t, w.Record(int64(i), [6]int64{int64(j)}, int64(j)))
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, w.Pack(&OpExit{Code: 0}))
	require.NoError(t, w.Close())
	assert.True(t, file.closed)
	assert.Equal(t, 200, w.Calls)

	r, err := NewReader(ioutil.NopCloser(bytes.NewReader(file.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, "x86_64", r.Header.Arch)
	assert.Equal(t, "linux", r.Header.OS)
	assert.Equal(t, "vfornax", r.Header.Native)

	var ops []models.Op
	for {
		op, err := r.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ops = append(ops, op)
	}
	r.Close()
	require.Len(t, ops, 202)
	assert.Equal(t, &OpCwd{"/"}, ops[0])
	assert.Equal(t, &OpExit{}, ops[201])
	perThread := map[int64]int64{}
	for _, op := range ops[1:201] {
		call := op.(*OpCall)
		assert.Equal(t, perThread[call.Num], call.Ret, "calls from one thread stay in order")
		perThread[call.Num]++
	}
}

func TestBadHeader(t *testing.T) {
	_, err := NewReader(ioutil.NopCloser(bytes.NewReader([]byte("UCIR\x01\x00\x00\x00" + string(make([]byte, 96))))))
	assert.Error(t, err)
	_, err = NewReader(ioutil.NopCloser(bytes.NewReader([]byte("FX"))))
	assert.Error(t, err)
}
