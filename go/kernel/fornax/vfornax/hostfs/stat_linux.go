package hostfs

import "golang.org/x/sys/unix"

func mtime(st *unix.Stat_t) int64 {
	return int64(st.Mtim.Sec)
}
