package posix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	co "github.com/lunixbochs/fxshim/go/kernel/common"
	"github.com/lunixbochs/fxshim/go/kernel/linux"
)

func TestStubsAreDefined(t *testing.T) {
	h := newHarness(t, nil, nil)
	for name, p := range Stubs {
		_, ok := linux.Numbers[name]
		assert.True(t, ok, "%s has no number", name)
		assert.NotNil(t, co.Lookup(h.k, name), "%s has no handler", name)
		assert.NotEqual(t, "unknown", p.Class.String(), name)
		assert.NotEmpty(t, p.Note, name)
		if p.Class == Fail {
			assert.NotZero(t, p.Errno, name)
		}
	}
}

func TestStubResults(t *testing.T) {
	h := newHarness(t, nil, nil)
	for name, p := range Stubs {
		if p.Class == Synthesize || name == "fcntl" {
			continue
		}
		h.rec.reset()
		assert.Equal(t, p.Ret(), h.call(name, 1, 2, 3, 4, 5, 6), name)
		assert.Len(t, h.rec.calls, 0, "%s reached the kernel", name)
	}
	assert.Equal(t, int64(0), Policy{Class: Succeed, Errno: linux.EIO}.Ret())
	assert.Equal(t, -int64(linux.EINVAL), Stubs["readlink"].Ret())
	assert.Equal(t, "unknown", Class(9).String())
}

func TestFcntlPolicy(t *testing.T) {
	h := newHarness(t, nil, nil)
	for cmd, p := range FcntlStubs {
		h.rec.reset()
		assert.Equal(t, p.Ret(), h.call("fcntl", 0, int64(cmd), 0), "cmd %d", cmd)
		assert.Len(t, h.rec.calls, 0, "cmd %d reached the kernel", cmd)
	}
	assert.Equal(t, Stubs["fcntl"].Ret(), h.call("fcntl", 0, 1030, 0))
	assert.Equal(t, -int64(linux.ENOSYS), Stubs["fcntl"].Ret())
	assert.NotContains(t, FcntlStubs, linux.F_DUPFD)
}
