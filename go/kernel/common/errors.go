package common

import "github.com/pkg/errors"

var ErrNoSyscall = errors.New("no such syscall")
