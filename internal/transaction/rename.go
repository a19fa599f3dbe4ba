package transaction

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
)

// renameFile moves from to to atomically. os.Rename is atomic on one
// volume; when the staging directory sits on a different volume it
// fails with EXDEV, and the file is instead copied to a unique temp
// name in the destination directory and renamed from there.
func renameFile(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return fmt.Errorf("transaction: promote %s: %w", to, err)
	}
	return copyAcrossVolumes(from, to)
}

func copyAcrossVolumes(from, to string) error {
	tmp := filepath.Join(filepath.Dir(to), "."+filepath.Base(to)+"."+uuid.NewString())
	if err := copyFile(from, tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("transaction: copy %s across volumes: %w", to, err)
	}
	if err := os.Rename(tmp, to); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("transaction: promote %s: %w", to, err)
	}
	return os.Remove(from)
}

func copyFile(from, to string) error {
	src, err := os.Open(from)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
