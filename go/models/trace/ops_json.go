package trace

import (
	"encoding/json"
	"fmt"
)

func bprintf(f string, args ...interface{}) []byte {
	return []byte(fmt.Sprintf(f, args...))
}

func (o *OpNop) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d}`, OP_NOP), nil
}

func (o *OpCall) MarshalJSON() ([]byte, error) {
	args, _ := json.Marshal(o.Args)
	return bprintf(`{"op":%d,"num":%d,"args":%s,"ret":%d}`, OP_CALL, o.Num, args, o.Ret), nil
}

func (o *OpCwd) MarshalJSON() ([]byte, error) {
	dir, err := json.Marshal(o.Dir)
	if err != nil {
		return nil, err
	}
	return bprintf(`{"op":%d,"dir":%s}`, OP_CWD, dir), nil
}

func (o *OpExit) MarshalJSON() ([]byte, error) {
	return bprintf(`{"op":%d,"code":%d}`, OP_EXIT, o.Code), nil
}
