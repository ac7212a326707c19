// Command server runs the wordcraft HTTP API: pattern/anagram queries
// against a wordlist index and dictionary/related queries against a
// loaded WordNet. Loading is synchronous and happens entirely before
// the listener accepts a connection, so every request sees a fully
// built index and no load-in-progress state ever leaks to a client.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/golang/glog"
	"github.com/wordcraftio/wordcraft/internal/config"
	"github.com/wordcraftio/wordcraft/internal/httpapi"
	"github.com/wordcraftio/wordcraft/internal/wordlist"
	"github.com/wordcraftio/wordcraft/internal/wordnet"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load()
	if err != nil {
		glog.Fatalf("server: %v", err)
	}

	idx, err := loadWordlist(cfg.WordlistPath, cfg.MaxLen)
	if err != nil {
		glog.Fatalf("server: loading wordlist: %v", err)
	}
	glog.Infof("server: wordlist loaded from %s", cfg.WordlistPath)

	var wn *wordnet.LoadedWordNet
	if cfg.WordnetDir != "" {
		wn, err = wordnet.Load(cfg.WordnetDir, cfg.WordnetMode)
		if err != nil {
			glog.Fatalf("server: loading wordnet: %v", err)
		}
		defer wn.Close()
		glog.Infof("server: wordnet loaded from %s", cfg.WordnetDir)
	} else {
		glog.Warning("server: WORDNET_DIR not set; dictionary/related endpoints will report 503")
	}

	srv := &httpapi.Server{Index: idx, WN: wn}
	glog.Infof("server: listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Routes()); err != nil {
		glog.Fatalf("server: %v", err)
	}
}

func loadWordlist(path string, maxLen int) (*wordlist.Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	words, err := wordlist.Load(f, maxLen)
	if err != nil {
		return nil, err
	}
	return wordlist.BuildIndex(words, maxLen), nil
}
