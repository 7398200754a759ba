package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/i1is/trustplane/pkg/models"
	"golang.org/x/sys/unix"
)

// DefaultBinDirs are the standard bin directories walked one level deep.
var DefaultBinDirs = []string{
	"/usr/bin", "/usr/sbin", "/usr/local/bin", "/usr/local/sbin", "/bin", "/sbin",
}

const hashBufSize = 64 * 1024

// DiscoverBinaries walks each directory in dirs one level deep, without
// following symlinks, hashing every regular file with any execute bit set.
// Individual file failures are logged and skipped; they never abort the
// walk (spec §4.2, §7).
func DiscoverBinaries(ctx context.Context, dirs []string) ([]models.BinaryInfo, error) {
	var out []models.BinaryInfo
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Printf("[audit] skipping bin dir %s: %v", dir, err)
			continue
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			bi, err := discoverOneBinary(dir, entry)
			if err != nil {
				if err != ErrNotExecutable {
					log.Printf("[audit] skipping %s/%s: %v", dir, entry.Name(), err)
				}
				continue
			}
			if bi != nil {
				out = append(out, *bi)
			}
		}
	}
	return out, nil
}

func discoverOneBinary(dir string, entry os.DirEntry) (*models.BinaryInfo, error) {
	if !entry.Type().IsRegular() {
		return nil, nil // directories and symlinks are silently skipped, not errors
	}
	info, err := entry.Info()
	if err != nil {
		return nil, err
	}
	if info.Mode()&0o111 == 0 {
		return nil, ErrNotExecutable
	}

	path := filepath.Join(dir, entry.Name())

	sha, size, err := hashFile(path)
	if err != nil {
		return nil, err
	}

	identity := fileIdentity(info)
	created := creationTime(path, info.ModTime())

	return &models.BinaryInfo{
		Path:       path,
		SHA256:     sha,
		SizeBytes:  size,
		CreatedAt:  created.UTC(),
		ModifiedAt: info.ModTime().UTC(),
		Identity:   identity,
	}, nil
}

func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashBufSize)
	var total int64
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			total += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", 0, rerr
		}
	}
	return hex.EncodeToString(h.Sum(nil)), total, nil
}

func fileIdentity(info os.FileInfo) models.FileIdentity {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return models.FileIdentity{}
	}
	return models.FileIdentity{
		Inode:  st.Ino,
		Device: uint64(st.Dev),
	}
}

// creationTime attempts the statx birth-time and falls back to mtime when
// the filesystem doesn't report one (spec §4.2).
func creationTime(path string, mtime time.Time) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return mtime
	}
	return time.Unix(int64(stx.Btime.Sec), int64(stx.Btime.Nsec))
}
