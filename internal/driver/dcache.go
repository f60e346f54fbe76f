package driver

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"alox/internal/diag"
	"alox/internal/ir"
	"alox/internal/project"
	"alox/internal/source"
	"alox/internal/version"
)

// Current schema version - increment when DiskPayload or the IR changes shape.
const diskCacheSchemaVersion uint16 = 2

// DiskCache stores lowered modules keyed by the digest of their parser
// output. Modules are cached before any pass runs, since passes depend on
// the other modules of a build.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached module together with the diagnostics lowering
// produced for it.
type DiskPayload struct {
	Schema  uint16
	Version string

	// Source is the file the program was parsed from; spans point into it.
	Source      string
	Module      *ir.Module
	Diagnostics []diag.Diagnostic
}

// OpenDiskCache initializes a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache uses dir as the cache root.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Key derives the cache key for a parser output file.
func (c *DiskCache) Key(content []byte) project.Digest {
	var schema [2]byte
	binary.LittleEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	return project.Combine(project.Hash(content), schema[:], []byte(version.Version))
}

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "mods", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	payload.Version = version.Version
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	if err := os.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads a payload. A missing entry, or one written by another schema or
// version, is a miss.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Version != version.Version || payload.Module == nil {
		return false, nil
	}
	*out = payload
	return true, nil
}

// DropAll removes every entry. The cache stays usable afterwards.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "mods"))
}

// rebase points every span of the payload at file. A module's spans all
// refer to its one source file, whose id differs from run to run.
func (p *DiskPayload) rebase(file source.FileID) {
	var visit func(d *ir.Declaration)
	visit = func(d *ir.Declaration) {
		if d == nil {
			return
		}
		d.Span = d.Span.InFile(file)
		if fn := d.Function; fn != nil {
			for i := range fn.Blocks {
				for j := range fn.Blocks[i].Instrs {
					ins := &fn.Blocks[i].Instrs[j]
					ins.Span = ins.Span.InFile(file)
				}
			}
		}
		for _, m := range d.Members {
			visit(m)
		}
	}
	if p.Module != nil {
		for _, d := range p.Module.Declarations {
			visit(d)
		}
	}
	for i := range p.Diagnostics {
		d := &p.Diagnostics[i]
		if d.HasSpan {
			d.Primary = d.Primary.InFile(file)
		}
		for k := range d.Notes {
			d.Notes[k].Span = d.Notes[k].Span.InFile(file)
		}
	}
}
