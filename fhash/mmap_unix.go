//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly || solaris || aix

package fhash

import (
	"hash"
	"os"

	"golang.org/x/sys/unix"
)

// sum feeds the file into digest through a read-only mapping. Files that cannot be mapped
// are streamed instead.
func sum(digest hash.Hash, file *os.File) error {
	info, err := file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size == 0 || int64(int(size)) != size {
		return copyTo(digest, file)
	}
	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return copyTo(digest, file)
	}
	defer func() { _ = unix.Munmap(data) }()
	_, err = digest.Write(data)
	return err
}
