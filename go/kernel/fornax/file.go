package fornax

// File is an open file as a kernel filesystem backend serves it.
// Backends report failures as Errno values where one applies.
type File interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Seek(off int64, whence int) (int64, error)
	Truncate(size int64) error
	Stat() (Stat, error)
	Close() error
}
