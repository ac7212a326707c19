package wordnet

import (
	"fmt"
	"strconv"
)

// lexer walks one line of a WordNet data/index/exception file. It never
// copies: every token it returns that represents a string is a subslice
// of the line it was given. That line is the line scanner's buffer, not
// the loader's backing buffer, and the parse functions below convert
// every token they keep into a Go string, which copies it.
type lexer struct {
	line []byte
	pos  int
}

func newLexer(line []byte) *lexer { return &lexer{line: line} }

func (l *lexer) chomp() {
	for l.pos < len(l.line) && isSpace(l.line[l.pos]) {
		l.pos++
	}
}

func (l *lexer) eof() bool {
	l.chomp()
	return l.pos >= len(l.line)
}

// word reads a whitespace-delimited token without copying.
func (l *lexer) word() ([]byte, error) {
	l.chomp()
	start := l.pos
	for l.pos < len(l.line) && !isSpace(l.line[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		return nil, fmt.Errorf("unexpected end of line")
	}
	return l.line[start:l.pos], nil
}

func (l *lexer) decimal() (int64, error) {
	tok, err := l.word()
	if err != nil {
		return 0, fmt.Errorf("expected a decimal number: %w", err)
	}
	n, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal number %q: %w", tok, err)
	}
	return n, nil
}

func (l *lexer) hex() (int64, error) {
	tok, err := l.word()
	if err != nil {
		return 0, fmt.Errorf("expected a hex number: %w", err)
	}
	n, err := strconv.ParseInt(string(tok), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex number %q: %w", tok, err)
	}
	return n, nil
}

// offset reads an 8-digit zero-padded synset byte offset.
func (l *lexer) offset() (uint32, error) {
	tok, err := l.word()
	if err != nil {
		return 0, fmt.Errorf("expected an offset: %w", err)
	}
	n, err := strconv.ParseUint(string(tok), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", tok, err)
	}
	return uint32(n), nil
}

func (l *lexer) partOfSpeech() (POS, error) {
	tok, err := l.word()
	if err != nil {
		return 0, fmt.Errorf("expected a part-of-speech marker: %w", err)
	}
	if len(tok) != 1 {
		return 0, fmt.Errorf("invalid part-of-speech marker %q", tok)
	}
	switch tok[0] {
	case 'n':
		return Noun, nil
	case 'v':
		return Verb, nil
	case 'a', 's':
		return Adjective, nil
	case 'r':
		return Adverb, nil
	}
	return 0, fmt.Errorf("invalid part-of-speech marker %q", tok)
}

// rest returns everything remaining on the line, unparsed.
func (l *lexer) rest() []byte {
	return l.line[l.pos:]
}

// dataLine is one parsed data.POS row. lexFilenum and ssType mirror the
// on-disk fields; its strings are copies of the line's bytes, not
// references into them. The conversion into a Synset happens one level
// up, in parseDataFile.
type dataLine struct {
	offset     uint32
	lexFilenum uint8
	ssType     byte
	lemmas     []Lemma
	pointers   []Pointer
	frames     []Frame
	gloss      string
}

// isLicenseOrComment reports whether line is part of the leading license
// header WordNet data files carry (lines beginning with two spaces), or
// is blank. Both are skipped before parsing.
func isLicenseOrComment(line []byte) bool {
	if len(line) == 0 {
		return true
	}
	return len(line) >= 2 && line[0] == ' ' && line[1] == ' '
}

// parseDataLine parses one data.POS line per WordNet's own grammar:
// "offset lex_filenum ss_type w_cnt (word lex_id)* p_cnt
// (ptr_symbol ptr_offset ptr_pos ptr_src_tgt)* [f_cnt (+ f_num w_num)*] |
// gloss". w_cnt, lex_id, the source/target field and the frame word
// number are hex; p_cnt, f_cnt and the frame number are decimal, exactly
// as Princeton WordNet's own grammar specifies.
func parseDataLine(line []byte) (*dataLine, error) {
	l := newLexer(line)

	offset, err := l.offset()
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	lexFilenum, err := l.decimal()
	if err != nil {
		return nil, fmt.Errorf("lex_filenum: %w", err)
	}
	ssTypeTok, err := l.word()
	if err != nil {
		return nil, fmt.Errorf("ss_type: %w", err)
	}
	if len(ssTypeTok) != 1 {
		return nil, fmt.Errorf("ss_type: invalid marker %q", ssTypeTok)
	}
	ssType := ssTypeTok[0]

	wCnt, err := l.hex()
	if err != nil {
		return nil, fmt.Errorf("w_cnt: %w", err)
	}

	d := &dataLine{offset: offset, lexFilenum: uint8(lexFilenum), ssType: ssType}
	for i := int64(0); i < wCnt; i++ {
		w, err := l.word()
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}
		lexID, err := l.hex()
		if err != nil {
			return nil, fmt.Errorf("lex_id %d: %w", i, err)
		}
		d.lemmas = append(d.lemmas, Lemma{Word: underscoresToSpaces(string(w)), LexID: uint8(lexID)})
	}

	pCnt, err := l.decimal()
	if err != nil {
		return nil, fmt.Errorf("p_cnt: %w", err)
	}
	for i := int64(0); i < pCnt; i++ {
		symTok, err := l.word()
		if err != nil {
			return nil, fmt.Errorf("pointer %d symbol: %w", i, err)
		}
		targetOffset, err := l.offset()
		if err != nil {
			return nil, fmt.Errorf("pointer %d target offset: %w", i, err)
		}
		targetPOS, err := l.partOfSpeech()
		if err != nil {
			return nil, fmt.Errorf("pointer %d target pos: %w", i, err)
		}
		srcTgt, err := l.hex()
		if err != nil {
			return nil, fmt.Errorf("pointer %d source/target: %w", i, err)
		}
		d.pointers = append(d.pointers, Pointer{
			Symbol:        Relation(symTok),
			Target:        SynsetID{POS: targetPOS, Offset: targetOffset},
			SourceWordIdx: uint8(srcTgt >> 8),
			TargetWordIdx: uint8(srcTgt & 0xff),
		})
	}

	// Verb sentence frames are optional and only present for ss_type 'v'.
	if ssType == 'v' && !l.eof() {
		if peeked := peekIsDecimal(l); peeked {
			fCnt, err := l.decimal()
			if err != nil {
				return nil, fmt.Errorf("f_cnt: %w", err)
			}
			for i := int64(0); i < fCnt; i++ {
				plus, err := l.word()
				if err != nil {
					return nil, fmt.Errorf("frame %d marker: %w", i, err)
				}
				if len(plus) != 1 || plus[0] != '+' {
					return nil, fmt.Errorf("frame %d: expected '+' marker, got %q", i, plus)
				}
				frameNum, err := l.decimal()
				if err != nil {
					return nil, fmt.Errorf("frame %d number: %w", i, err)
				}
				wordNum, err := l.hex()
				if err != nil {
					return nil, fmt.Errorf("frame %d word number: %w", i, err)
				}
				d.frames = append(d.frames, Frame{FrameNum: uint8(frameNum), WordIdx: uint8(wordNum)})
			}
		}
	}

	gloss, err := lexGloss(l)
	if err != nil {
		return nil, fmt.Errorf("gloss: %w", err)
	}
	d.gloss = gloss
	return d, nil
}

// peekIsDecimal reports whether the lexer's next token looks like a bare
// decimal number rather than the '|' that introduces the gloss. It does
// not consume input.
func peekIsDecimal(l *lexer) bool {
	save := l.pos
	defer func() { l.pos = save }()
	l.chomp()
	if l.pos >= len(l.line) {
		return false
	}
	c := l.line[l.pos]
	return c >= '0' && c <= '9'
}

func lexGloss(l *lexer) (string, error) {
	l.chomp()
	if l.pos >= len(l.line) || l.line[l.pos] != '|' {
		return "", fmt.Errorf("expected '|' before gloss")
	}
	l.pos++
	return trimSpace(string(l.rest())), nil
}

// underscoresToSpaces turns WordNet's multiword lemma encoding
// ("ice_cream") into the human-readable surface form ("ice cream").
// Collocations are stored internally with spaces; Normalize (used by
// lemma lookups and by Morphy) maps underscores to spaces the same way,
// so normalized input matches the stored keys.
func underscoresToSpaces(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c == '_' {
			b[i] = ' '
		}
	}
	return string(b)
}

// indexLine is one parsed index.POS row.
type indexLine struct {
	lemma   string
	pos     POS
	offsets []uint32
}

// parseIndexLine parses: "lemma pos synset_cnt p_cnt [ptr_symbol]*
// sense_cnt tagsense_cnt synset_offset*". p_cnt distinct pointer symbols
// are skipped (ptr_symbol is a word, not a number, so it must be read
// with word() rather than decimal()); synset_cnt is validated against
// the offsets actually present, sense_cnt and tagsense_cnt are read and
// discarded without validation, and none of the counts is retained.
func parseIndexLine(line []byte) (*indexLine, error) {
	l := newLexer(line)

	lemmaTok, err := l.word()
	if err != nil {
		return nil, fmt.Errorf("lemma: %w", err)
	}
	pos, err := l.partOfSpeech()
	if err != nil {
		return nil, fmt.Errorf("pos: %w", err)
	}
	synsetCnt, err := l.decimal()
	if err != nil {
		return nil, fmt.Errorf("synset_cnt: %w", err)
	}
	pCnt, err := l.decimal()
	if err != nil {
		return nil, fmt.Errorf("p_cnt: %w", err)
	}
	for i := int64(0); i < pCnt; i++ {
		if _, err := l.word(); err != nil {
			return nil, fmt.Errorf("ptr_symbol %d: %w", i, err)
		}
	}
	if _, err := l.decimal(); err != nil { // sense_cnt
		return nil, fmt.Errorf("sense_cnt: %w", err)
	}
	if _, err := l.decimal(); err != nil { // tagsense_cnt
		return nil, fmt.Errorf("tagsense_cnt: %w", err)
	}

	idx := &indexLine{lemma: underscoresToSpaces(string(lemmaTok)), pos: pos}
	for !l.eof() {
		off, err := l.offset()
		if err != nil {
			return nil, fmt.Errorf("synset_offset: %w", err)
		}
		idx.offsets = append(idx.offsets, off)
	}
	if int64(len(idx.offsets)) != synsetCnt {
		return nil, fmt.Errorf("synset_cnt mismatch: header says %d, found %d offsets", synsetCnt, len(idx.offsets))
	}
	return idx, nil
}

// parseExceptionLine parses one P.exc row: "surface base1 [base2 ...]".
func parseExceptionLine(line []byte) (surface string, bases []string, err error) {
	l := newLexer(line)
	surfaceTok, err := l.word()
	if err != nil {
		return "", nil, fmt.Errorf("surface form: %w", err)
	}
	surface = underscoresToSpaces(string(surfaceTok))
	for !l.eof() {
		base, err := l.word()
		if err != nil {
			return "", nil, fmt.Errorf("base form: %w", err)
		}
		bases = append(bases, underscoresToSpaces(string(base)))
	}
	if len(bases) == 0 {
		return "", nil, fmt.Errorf("exception row has no base forms")
	}
	return surface, bases, nil
}
