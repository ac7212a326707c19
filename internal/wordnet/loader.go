package wordnet

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/golang/glog"
)

// LoadMode selects how the loader brings each WordNet file into memory.
// Both modes produce an identical in-memory shape — callers can't tell
// them apart once Load returns.
type LoadMode int

const (
	// Mmap memory-maps each file read-only and parses it from the
	// OS-managed pages, which fault in on demand. This is the default.
	Mmap LoadMode = iota
	// Owned reads each file fully into a heap buffer and parses it from
	// that buffer instead.
	Owned
)

// Sentinel error kinds returned by Load. They are startup failures:
// never surfaced to HTTP clients, the process exits non-zero instead.
var (
	ErrIO             = errors.New("wordnet: io error")
	ErrUnsupported    = errors.New("wordnet: unsupported format")
	ErrCorruptWordNet = errors.New("wordnet: corrupt data")
)

// droppedPointerAbortRatio bounds how much pointer corruption a load
// tolerates: abort if more than this fraction of all parsed pointers
// fail to resolve to a real synset, rather than either aborting on the
// first dangling pointer or silently accepting an arbitrarily broken
// dataset.
const droppedPointerAbortRatio = 0.001

// backing owns the raw bytes of one WordNet file. It is either an
// mmap.MMap (Mmap mode) or a plain []byte (Owned mode). The parsed
// records hold copies of their strings, so they do not depend on it;
// LoadedWordNet keeps every backing until Close.
type backing struct {
	mm   mmap.MMap // set in Mmap mode
	buf  []byte    // set in Owned mode
	mode LoadMode
}

func (b *backing) bytes() []byte {
	if b.mode == Mmap {
		return b.mm
	}
	return b.buf
}

func (b *backing) close() {
	if b.mode == Mmap && b.mm != nil {
		_ = b.mm.Unmap()
	}
}

func openBacking(path string, mode LoadMode) (*backing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	if mode == Mmap {
		mm, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: mmap %s: %w", ErrIO, path, err)
		}
		return &backing{mm: mm, mode: Mmap}, nil
	}

	buf, err := readAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, path, err)
	}
	return &backing{buf: buf, mode: Owned}, nil
}

func readAll(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	if _, err := readFull(f, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readFull(f *os.File, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := f.Read(buf[n:])
		n += m
		if err != nil {
			if n == len(buf) {
				return n, nil
			}
			return n, err
		}
	}
	return n, nil
}

// posData holds one POS's fully parsed files before cross-validation.
type posData struct {
	pos        POS
	synsets    map[uint32]*Synset
	index      map[string]*IndexEntry // keyed by lowercased, space-normalized lemma
	exceptions map[string][]string
	backings   []*backing
	pointerN   int
}

// LoadedWordNet is the complete, immutable, shared WordNet database.
// It is built once at startup and never mutated again; every accessor
// is safe to call concurrently with no locking, because there is
// nothing left to synchronize against.
type LoadedWordNet struct {
	pos      [len(posFiles)]*posData
	backings []*backing
}

// Close releases the backing mmaps, if any. The service holds a
// LoadedWordNet for the life of the process, so in practice Close only
// runs during tests or graceful-shutdown paths.
func (wn *LoadedWordNet) Close() {
	for _, b := range wn.backings {
		b.close()
	}
}

// Synset resolves a SynsetID to its record, or (nil, false) if unknown.
func (wn *LoadedWordNet) Synset(id SynsetID) (*Synset, bool) {
	pd := wn.pos[id.POS]
	if pd == nil {
		return nil, false
	}
	s, ok := pd.synsets[id.Offset]
	return s, ok
}

// Index looks up a lemma's index.POS row. lemma must already be
// normalized (lowercase, spaces not underscores); see Normalize.
func (wn *LoadedWordNet) Index(pos POS, lemma string) (*IndexEntry, bool) {
	pd := wn.pos[pos]
	if pd == nil {
		return nil, false
	}
	e, ok := pd.index[lemma]
	return e, ok
}

// Exceptions returns the base forms surface maps to for pos, or nil if
// there are none.
func (wn *LoadedWordNet) Exceptions(pos POS, surface string) []string {
	pd := wn.pos[pos]
	if pd == nil {
		return nil
	}
	return pd.exceptions[surface]
}

// LemmaExists reports whether some IndexEntry has exactly this lemma for
// pos. Comparison is on the already-normalized form.
func (wn *LoadedWordNet) LemmaExists(pos POS, lemma string) bool {
	_, ok := wn.Index(pos, lemma)
	return ok
}

// Stats reports the number of synsets and distinct lemmas loaded for
// pos, for operator tooling (cmd/wnstat) rather than the query path.
func (wn *LoadedWordNet) Stats(pos POS) (synsets, lemmas int) {
	pd := wn.pos[pos]
	if pd == nil {
		return 0, 0
	}
	return len(pd.synsets), len(pd.index)
}

// Normalize lowercases s and collapses runs of whitespace and
// underscores into single spaces, the form WordNet's own lemma keys
// are stored in. It is exported because Morphy's normalization step
// must match it exactly.
func Normalize(s string) string {
	out := make([]byte, 0, len(s))
	lastSpace := true // collapse leading whitespace too
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if isSpace(c) || c == '_' {
			if !lastSpace {
				out = append(out, ' ')
				lastSpace = true
			}
			continue
		}
		out = append(out, c)
		lastSpace = false
	}
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out)
}

// Load parses every data.POS/index.POS/POS.exc file in dir for all four
// parts of speech concurrently, then cross-validates pointers across the
// whole database. Each POS's three files load in their own goroutine —
// there are only four of them, so one worker per POS is simpler than a
// pool with a work queue.
func Load(dir string, mode LoadMode) (*LoadedWordNet, error) {
	type result struct {
		pd  *posData
		err error
	}

	results := make([]result, len(AllPOS))
	var wg sync.WaitGroup
	wg.Add(len(AllPOS))
	for i, pos := range AllPOS {
		go func(i int, pos POS) {
			defer wg.Done()
			pd, err := loadPOS(dir, pos, mode)
			results[i] = result{pd: pd, err: err}
		}(i, pos)
	}
	wg.Wait()

	wn := &LoadedWordNet{}
	for i, r := range results {
		if r.err != nil {
			wn.Close()
			return nil, r.err
		}
		wn.pos[AllPOS[i]] = r.pd
		wn.backings = append(wn.backings, r.pd.backings...)
	}

	if err := crossValidate(wn); err != nil {
		wn.Close()
		return nil, err
	}
	return wn, nil
}

func loadPOS(dir string, pos POS, mode LoadMode) (*posData, error) {
	suffix, err := pos.suffixOf()
	if err != nil {
		return nil, err
	}

	pd := &posData{
		pos:        pos,
		synsets:    make(map[uint32]*Synset),
		index:      make(map[string]*IndexEntry),
		exceptions: make(map[string][]string),
	}

	dataPath := filepath.Join(dir, "data."+suffix)
	dataBacking, err := openBacking(dataPath, mode)
	if err != nil {
		return nil, err
	}
	pd.backings = append(pd.backings, dataBacking)
	if err := parseDataFile(dataBacking.bytes(), dataPath, pos, pd); err != nil {
		return nil, err
	}

	indexPath := filepath.Join(dir, "index."+suffix)
	indexBacking, err := openBacking(indexPath, mode)
	if err != nil {
		return nil, err
	}
	pd.backings = append(pd.backings, indexBacking)
	if err := parseIndexFile(indexBacking.bytes(), indexPath, pos, pd); err != nil {
		return nil, err
	}

	excPath := filepath.Join(dir, suffix+".exc")
	if _, statErr := os.Stat(excPath); statErr == nil {
		excBacking, err := openBacking(excPath, mode)
		if err != nil {
			return nil, err
		}
		pd.backings = append(pd.backings, excBacking)
		if err := parseExceptionFile(excBacking.bytes(), excPath, pd); err != nil {
			return nil, err
		}
	}

	return pd, nil
}

func forEachLine(data []byte, fn func(lineNo int, line []byte) error) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := fn(lineNo, scanner.Bytes()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func parseDataFile(data []byte, path string, pos POS, pd *posData) error {
	return forEachLine(data, func(lineNo int, line []byte) error {
		if isLicenseOrComment(line) {
			return nil
		}
		dl, err := parseDataLine(line)
		if err != nil {
			return fmt.Errorf("%w: %s:%d: %w", ErrCorruptWordNet, path, lineNo, err)
		}
		if _, dup := pd.synsets[dl.offset]; dup {
			return fmt.Errorf("%w: %s:%d: duplicate offset %d", ErrCorruptWordNet, path, lineNo, dl.offset)
		}
		pd.pointerN += len(dl.pointers)
		pd.synsets[dl.offset] = &Synset{
			ID:         SynsetID{POS: pos, Offset: dl.offset},
			LexFilenum: dl.lexFilenum,
			SSType:     dl.ssType,
			Lemmas:     dl.lemmas,
			Pointers:   dl.pointers,
			Frames:     dl.frames,
			Gloss:      dl.gloss,
		}
		return nil
	})
}

func parseIndexFile(data []byte, path string, pos POS, pd *posData) error {
	return forEachLine(data, func(lineNo int, line []byte) error {
		if isLicenseOrComment(line) {
			return nil
		}
		il, err := parseIndexLine(line)
		if err != nil {
			return fmt.Errorf("%w: %s:%d: %w", ErrCorruptWordNet, path, lineNo, err)
		}
		pd.index[il.lemma] = &IndexEntry{Lemma: il.lemma, POS: pos, Offsets: il.offsets}
		return nil
	})
}

func parseExceptionFile(data []byte, path string, pd *posData) error {
	return forEachLine(data, func(lineNo int, line []byte) error {
		if len(line) == 0 {
			return nil
		}
		surface, bases, err := parseExceptionLine(line)
		if err != nil {
			return fmt.Errorf("%w: %s:%d: %w", ErrCorruptWordNet, path, lineNo, err)
		}
		pd.exceptions[surface] = bases
		return nil
	})
}

// crossValidate checks every pointer target against the loaded synset
// maps. Unresolvable pointers are dropped and logged (lenient mode);
// the load only aborts if the dropped ratio exceeds
// droppedPointerAbortRatio.
func crossValidate(wn *LoadedWordNet) error {
	totalPointers := 0
	for _, pd := range wn.pos {
		if pd != nil {
			totalPointers += pd.pointerN
		}
	}
	if totalPointers == 0 {
		return nil
	}

	dropped := 0
	for _, pd := range wn.pos {
		if pd == nil {
			continue
		}
		for offset, s := range pd.synsets {
			kept := s.Pointers[:0]
			for _, p := range s.Pointers {
				if _, ok := wn.Synset(p.Target); ok {
					kept = append(kept, p)
				} else {
					dropped++
					glog.Warningf("wordnet: dropping pointer %s %s -> %s (unresolved target)",
						SynsetID{POS: pd.pos, Offset: offset}, p.Symbol, p.Target)
				}
			}
			s.Pointers = kept
		}
	}

	ratio := float64(dropped) / float64(totalPointers)
	if ratio > droppedPointerAbortRatio {
		return fmt.Errorf("%w: %d/%d pointers (%.4f%%) failed to resolve, exceeding the %.4f%% abort threshold",
			ErrCorruptWordNet, dropped, totalPointers, ratio*100, droppedPointerAbortRatio*100)
	}
	if dropped > 0 {
		glog.Infof("wordnet: loaded with %d/%d pointers dropped (%.4f%%)", dropped, totalPointers, ratio*100)
	}
	return nil
}
