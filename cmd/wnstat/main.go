// Command wnstat loads a WordNet directory and reports basic load
// statistics: per-POS synset/lemma counts and the memory overhead of the
// load, in the style of kho-fslm/cmd/score's before/after
// runtime.ReadMemStats delta print.
package main

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/golang/glog"
	"github.com/wordcraftio/wordcraft/internal/wordnet"
)

func main() {
	dir := flag.String("dir", "", "WordNet directory containing data.*, index.*, *.exc")
	mode := flag.String("mode", "mmap", "load mode: mmap or owned")
	flag.Parse()
	defer glog.Flush()

	if *dir == "" {
		glog.Fatal("wnstat: -dir is required")
	}

	loadMode := wordnet.Mmap
	if *mode == "owned" {
		loadMode = wordnet.Owned
	} else if *mode != "mmap" {
		glog.Fatalf("wnstat: -mode must be mmap or owned, got %q", *mode)
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	wn, err := wordnet.Load(*dir, loadMode)
	if err != nil {
		glog.Fatalf("wnstat: %v", err)
	}
	defer wn.Close()

	runtime.GC()
	runtime.ReadMemStats(&after)
	glog.Infof("wnstat: load memory overhead: %.2f MB", float64(after.Alloc-before.Alloc)/float64(1<<20))

	for _, pos := range wordnet.AllPOS {
		synsets, lemmas := wn.Stats(pos)
		fmt.Printf("%-10s synsets=%-8d lemmas=%-8d\n", pos, synsets, lemmas)
	}
}
