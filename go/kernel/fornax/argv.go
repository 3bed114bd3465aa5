package fornax

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/lunixbochs/fxshim/go/models"
)

// ReadArgs decodes the argc/argv block the kernel leaves at ArgvBase.
func ReadArgs(m models.Memory) ([]string, error) {
	head, err := m.MemRead(ArgvBase, 8)
	if err != nil {
		return nil, errors.Wrap(err, "reading argc")
	}
	argc := binary.LittleEndian.Uint64(head)
	if argc > 4096 {
		return nil, errors.Errorf("implausible argc %d", argc)
	}
	vec, err := m.MemRead(ArgvBase+8, argc*8)
	if err != nil {
		return nil, errors.Wrap(err, "reading argv")
	}
	args := make([]string, argc)
	for i := range args {
		addr := binary.LittleEndian.Uint64(vec[i*8:])
		if args[i], err = m.ReadStrAt(addr); err != nil {
			return nil, errors.Wrapf(err, "reading argv[%d]", i)
		}
	}
	return args, nil
}
