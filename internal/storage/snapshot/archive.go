package snapshot

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/argon2"

	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/storage"
)

// magicBytes identify archive files.
var magicBytes = []byte("PGKPSNAP")

const (
	archiveExtension = ".pksnap"
	checksumSize     = 32
	headerVersion    = 1

	DefaultRetentionCount = 10
	DefaultRetentionDays  = 30

	kdfArgon2id   = "argon2id"
	saltLength    = 16
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

var (
	ErrInvalidMagic     = errors.New("archive: invalid magic bytes")
	ErrChecksumMismatch = errors.New("archive: checksum mismatch")
	ErrNotFound         = errors.New("archive: not found")
	ErrNoArchives       = errors.New("archive: no archives available")
	ErrKeyRequired      = errors.New("archive: encrypted, key or passphrase required")
)

type archiveHeader struct {
	Version     int    `json:"version"`
	CreatedAt   int64  `json:"created_at"`
	StoreKey    string `json:"store_key"`
	RegionCount int    `json:"region_count"`
	Algorithm   string `json:"algorithm"`
	Fingerprint string `json:"fingerprint"`
	Encrypted   bool   `json:"encrypted"`
	KDF         string `json:"kdf,omitempty"`
	Salt        []byte `json:"salt,omitempty"`
}

// ArchiveConfig configures an Archive.
type ArchiveConfig struct {
	Dir string

	RetentionCount int
	RetentionDays  int

	// Cipher seals archives with a configured key.
	Cipher storage.Cipher

	// Passphrase seals archives with a per-archive Argon2id key.
	// Takes precedence over Cipher.
	Passphrase []byte

	Hasher Hasher
}

// DefaultArchiveConfig returns the default archive configuration.
func DefaultArchiveConfig(dir string) ArchiveConfig {
	return ArchiveConfig{
		Dir:            dir,
		RetentionCount: DefaultRetentionCount,
		RetentionDays:  DefaultRetentionDays,
	}
}

// Archive manages point-in-time snapshot files in a directory.
//
// File layout: magic, header length (uint32 BE), header JSON, payload
// length (uint32 BE), payload, SHA-256 of everything before it.
type Archive struct {
	cfg ArchiveConfig
}

// ArchiveInfo describes one archive file.
type ArchiveInfo struct {
	ID          string `json:"id"`
	CreatedAt   int64  `json:"created_at"`
	StoreKey    string `json:"store_key,omitempty"`
	RegionCount int    `json:"region_count"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Encrypted   bool   `json:"encrypted"`
	Size        int64  `json:"size"`
	Path        string `json:"path"`
	Checksum    string `json:"checksum,omitempty"`
}

// NewArchive creates the archive directory if needed.
func NewArchive(cfg ArchiveConfig) (*Archive, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("archive: dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("archive: create dir: %w", err)
	}
	if cfg.RetentionCount == 0 {
		cfg.RetentionCount = DefaultRetentionCount
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = DefaultRetentionDays
	}
	if cfg.Hasher == nil {
		cfg.Hasher = RollingHasher{}
	}
	return &Archive{cfg: cfg}, nil
}

// Create writes snap to a new archive file named by a ULID.
func (a *Archive) Create(storeKey string, snap domain.Snapshot) (*ArchiveInfo, error) {
	now := time.Now()
	id := ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()

	payload, err := Canonical(snap)
	if err != nil {
		return nil, fmt.Errorf("archive: encode snapshot: %w", err)
	}

	hdr := archiveHeader{
		Version:     headerVersion,
		CreatedAt:   now.UnixMilli(),
		StoreKey:    storeKey,
		RegionCount: len(snap),
		Algorithm:   string(a.cfg.Hasher.Algorithm()),
		Fingerprint: a.cfg.Hasher.Sum(payload),
	}

	c, err := a.sealer(&hdr, true)
	if err != nil {
		return nil, err
	}
	if c != nil {
		hdr.Encrypted = true
		payload, err = c.Encrypt(payload, []byte(id))
		if err != nil {
			return nil, fmt.Errorf("archive: encrypt: %w", err)
		}
	}

	tempPath := filepath.Join(a.cfg.Dir, id+".tmp")
	file, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("archive: create temp file: %w", err)
	}
	defer os.Remove(tempPath)

	hash := sha256.New()
	writer := io.MultiWriter(file, hash)

	hdrJSON, err := json.Marshal(hdr)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("archive: marshal header: %w", err)
	}

	for _, chunk := range [][]byte{magicBytes, lengthPrefix(hdrJSON), hdrJSON, lengthPrefix(payload), payload} {
		if _, err := writer.Write(chunk); err != nil {
			file.Close()
			return nil, fmt.Errorf("archive: write: %w", err)
		}
	}

	// Checksum trailer is not part of the hash.
	sum := hash.Sum(nil)
	if _, err := file.Write(sum); err != nil {
		file.Close()
		return nil, fmt.Errorf("archive: write checksum: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return nil, fmt.Errorf("archive: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("archive: close: %w", err)
	}

	stat, err := os.Stat(tempPath)
	if err != nil {
		return nil, err
	}

	finalPath := filepath.Join(a.cfg.Dir, id+archiveExtension)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return nil, fmt.Errorf("archive: rename: %w", err)
	}

	return &ArchiveInfo{
		ID:          id,
		CreatedAt:   hdr.CreatedAt,
		StoreKey:    storeKey,
		RegionCount: hdr.RegionCount,
		Fingerprint: hdr.Fingerprint,
		Encrypted:   hdr.Encrypted,
		Size:        stat.Size(),
		Path:        finalPath,
		Checksum:    hex.EncodeToString(sum),
	}, nil
}

// Load reads the archive with the given ID. An empty ID loads the newest
// archive that passes verification, skipping corrupted ones.
func (a *Archive) Load(id string) (domain.Snapshot, *ArchiveInfo, error) {
	if id != "" {
		path := filepath.Join(a.cfg.Dir, id+archiveExtension)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, nil, ErrNotFound
			}
			return nil, nil, err
		}
		return a.loadFile(path)
	}

	infos, err := a.List()
	if err != nil {
		return nil, nil, err
	}
	for i := len(infos) - 1; i >= 0; i-- {
		snap, info, err := a.loadFile(infos[i].Path)
		if err == nil {
			return snap, info, nil
		}
		if errors.Is(err, ErrChecksumMismatch) || errors.Is(err, ErrInvalidMagic) {
			continue
		}
		return nil, nil, err
	}
	return nil, nil, ErrNoArchives
}

func (a *Archive) loadFile(path string) (domain.Snapshot, *ArchiveInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	if stat.Size() < int64(len(magicBytes))+checksumSize {
		return nil, nil, ErrChecksumMismatch
	}

	dataLen := stat.Size() - checksumSize
	expected := make([]byte, checksumSize)
	if _, err := io.ReadFull(io.NewSectionReader(f, dataLen, checksumSize), expected); err != nil {
		return nil, nil, err
	}
	h := sha256.New()
	if _, err := io.CopyN(h, io.NewSectionReader(f, 0, dataLen), dataLen); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(h.Sum(nil), expected) {
		return nil, nil, ErrChecksumMismatch
	}

	br := bufio.NewReader(io.NewSectionReader(f, 0, dataLen))

	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, nil, err
	}
	if !bytes.Equal(magic, magicBytes) {
		return nil, nil, ErrInvalidMagic
	}

	remaining := dataLen - int64(len(magicBytes))
	hdrJSON, err := readLengthPrefixed(br, &remaining)
	if err != nil {
		return nil, nil, fmt.Errorf("archive: read header: %w", err)
	}
	var hdr archiveHeader
	if err := json.Unmarshal(hdrJSON, &hdr); err != nil {
		return nil, nil, fmt.Errorf("archive: unmarshal header: %w", err)
	}

	payload, err := readLengthPrefixed(br, &remaining)
	if err != nil {
		return nil, nil, fmt.Errorf("archive: read payload: %w", err)
	}

	id := strings.TrimSuffix(filepath.Base(path), archiveExtension)
	if hdr.Encrypted {
		c, err := a.sealer(&hdr, false)
		if err != nil {
			return nil, nil, err
		}
		if c == nil {
			return nil, nil, ErrKeyRequired
		}
		payload, err = c.Decrypt(payload, []byte(id))
		if err != nil {
			return nil, nil, fmt.Errorf("archive: decrypt: %w", err)
		}
	}

	doc, err := domain.DecodeDocument(payload)
	if err != nil {
		return nil, nil, err
	}
	snap := domain.SnapshotFromDocument(doc)

	return snap, &ArchiveInfo{
		ID:          id,
		CreatedAt:   hdr.CreatedAt,
		StoreKey:    hdr.StoreKey,
		RegionCount: hdr.RegionCount,
		Fingerprint: hdr.Fingerprint,
		Encrypted:   hdr.Encrypted,
		Size:        stat.Size(),
		Path:        path,
		Checksum:    hex.EncodeToString(expected),
	}, nil
}

// sealer returns the cipher for an archive, or nil when archives are
// stored in the clear. When creating, a fresh salt is recorded in hdr.
func (a *Archive) sealer(hdr *archiveHeader, creating bool) (storage.Cipher, error) {
	if len(a.cfg.Passphrase) > 0 && (creating || hdr.KDF == kdfArgon2id) {
		if creating {
			hdr.KDF = kdfArgon2id
			hdr.Salt = make([]byte, saltLength)
			if _, err := rand.Read(hdr.Salt); err != nil {
				return nil, fmt.Errorf("archive: salt: %w", err)
			}
		}
		key := argon2.IDKey(a.cfg.Passphrase, hdr.Salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
		return storage.NewCipher(key, storage.CipherChaCha20)
	}
	if !creating && hdr.KDF == kdfArgon2id {
		return nil, ErrKeyRequired
	}
	if a.cfg.Cipher != nil {
		return a.cfg.Cipher, nil
	}
	return nil, nil
}

// List lists archive files oldest first (metadata from the file system only).
func (a *Archive) List() ([]*ArchiveInfo, error) {
	entries, err := os.ReadDir(a.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), archiveExtension) {
			names = append(names, e.Name())
		}
	}
	// ULIDs sort by creation time.
	sort.Strings(names)

	infos := make([]*ArchiveInfo, 0, len(names))
	for _, name := range names {
		p := filepath.Join(a.cfg.Dir, name)
		stat, err := os.Stat(p)
		if err != nil {
			continue
		}
		id := strings.TrimSuffix(name, archiveExtension)
		info := &ArchiveInfo{ID: id, Path: p, Size: stat.Size()}
		if parsed, err := ulid.ParseStrict(id); err == nil {
			info.CreatedAt = int64(parsed.Time())
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Prune applies the retention policy and returns the number of removed
// archives. The newest archive is always kept.
func (a *Archive) Prune() (int, error) {
	infos, err := a.List()
	if err != nil {
		return 0, err
	}
	if len(infos) <= 1 {
		return 0, nil
	}

	keep := make(map[string]struct{}, len(infos))

	if a.cfg.RetentionCount > 0 {
		start := max(len(infos)-a.cfg.RetentionCount, 0)
		for _, info := range infos[start:] {
			keep[info.Path] = struct{}{}
		}
	}

	if a.cfg.RetentionDays > 0 {
		cutoff := time.Now().Add(-time.Duration(a.cfg.RetentionDays) * 24 * time.Hour).UnixMilli()
		for _, info := range infos {
			if info.CreatedAt > cutoff {
				keep[info.Path] = struct{}{}
			}
		}
	}

	keep[infos[len(infos)-1].Path] = struct{}{}

	removed := 0
	for _, info := range infos {
		if _, ok := keep[info.Path]; ok {
			continue
		}
		if err := os.Remove(info.Path); err == nil {
			removed++
		}
	}
	return removed, nil
}

func lengthPrefix(b []byte) []byte {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(b)))
	return n[:]
}

// readLengthPrefixed reads one section. remaining is the number of unread
// bytes before the checksum; a length beyond it is rejected before any
// allocation.
func readLengthPrefixed(r io.Reader, remaining *int64) ([]byte, error) {
	var n [4]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return nil, err
	}
	*remaining -= int64(len(n))
	size := binary.BigEndian.Uint32(n[:])
	if size == 0 {
		return nil, fmt.Errorf("empty section")
	}
	if int64(size) > *remaining {
		return nil, fmt.Errorf("section length %d exceeds %d remaining bytes", size, *remaining)
	}
	*remaining -= int64(size)
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
