package dat

import (
	"fmt"
	"regexp"

	apperrors "rom-manager/core/errors"
)

// tokenPattern matches, in priority order: bareword runs, quoted strings, parentheses.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_.\-]+|"[^"]*"|\(|\)`)

// Pair is one key/value entry of a clrmamepro document. Group entries carry their
// nested pairs in Children and leave Value empty.
type Pair struct {
	Key      string
	Value    string
	Children []Pair
	IsGroup  bool
}

// token is a lexed word. Quoted tokens are never treated as delimiters.
type token struct {
	text   string
	quoted bool
}

func (t token) is(delim string) bool {
	return !t.quoted && t.text == delim
}

func tokenize(text string) []token {
	matches := tokenPattern.FindAllString(text, -1)
	tokens := make([]token, 0, len(matches))
	for _, m := range matches {
		if len(m) >= 2 && m[0] == '"' {
			tokens = append(tokens, token{text: m[1 : len(m)-1], quoted: true})
			continue
		}
		tokens = append(tokens, token{text: m})
	}
	return tokens
}

// itemKind tags the result of reading one entry.
type itemKind int

const (
	itemPair itemKind = iota
	itemEndOfGroup
	itemEndOfInput
)

// item is the sum-typed result of cmParser.next: a pair, the close of the current
// group, or exhaustion of the token stream.
type item struct {
	kind itemKind
	pair Pair
}

type cmParser struct {
	tokens []token
	pos    int
}

func (p *cmParser) take() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, true
}

func (p *cmParser) next() (item, error) {
	key, ok := p.take()
	if !ok {
		return item{kind: itemEndOfInput}, nil
	}
	if key.is(")") {
		return item{kind: itemEndOfGroup}, nil
	}
	if key.is("(") {
		return item{}, fmt.Errorf("unexpected '(' at token %d", p.pos)
	}

	value, ok := p.take()
	if !ok || value.is(")") {
		return item{}, fmt.Errorf("key %q at token %d has no value", key.text, p.pos)
	}
	if !value.is("(") {
		return item{kind: itemPair, pair: Pair{Key: key.text, Value: value.text}}, nil
	}

	children := []Pair{}
	for {
		child, err := p.next()
		if err != nil {
			return item{}, err
		}
		switch child.kind {
		case itemEndOfGroup:
			return item{kind: itemPair, pair: Pair{Key: key.text, Children: children, IsGroup: true}}, nil
		case itemEndOfInput:
			return item{}, fmt.Errorf("unmatched '(' after %q", key.text)
		}
		children = append(children, child.pair)
	}
}

// ParseEntries splits clrmamepro text into its top-level entries.
func ParseEntries(text string) ([]Pair, error) {
	p := &cmParser{tokens: tokenize(text)}

	var entries []Pair
	for {
		it, err := p.next()
		if err != nil {
			return nil, err
		}
		switch it.kind {
		case itemEndOfInput:
			return entries, nil
		case itemEndOfGroup:
			return nil, fmt.Errorf("unexpected ')' at token %d", p.pos)
		}
		entries = append(entries, it.pair)
	}
}

// fields flattens the scalar children of a group. Later keys win.
func fields(pairs []Pair) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if !p.IsGroup {
			out[p.Key] = p.Value
		}
	}
	return out
}

func parseClrMamePro(text string) (*Database, error) {
	entries, err := ParseEntries(text)
	if err != nil {
		return nil, fmt.Errorf("malformed clrmamepro dat: %w", err)
	}

	db := NewDatabase()
	for _, entry := range entries {
		if !entry.IsGroup {
			continue
		}

		switch entry.Key {
		case "clrmamepro":
			h := fields(entry.Children)
			db.Name = h["name"]
			db.Description = h["description"]
			db.Category = h["category"]
			db.Version = h["version"]
			db.Author = h["author"]

		case "game", "machine":
			game, err := buildCMGame(entry.Children)
			if err != nil {
				return nil, err
			}
			db.AddGame(game)
		}
	}

	return db, nil
}

func buildCMGame(children []Pair) (*Game, error) {
	attrs := fields(children)
	if attrs["name"] == "" {
		return nil, apperrors.NewFormatError("", "game entry without name", nil)
	}

	game := &Game{
		Name:         attrs["name"],
		Description:  attrs["description"],
		Year:         attrs["year"],
		Manufacturer: attrs["manufacturer"],
		SourceFile:   attrs["sourcefile"],
		CloneOf:      attrs["cloneof"],
		RomOf:        attrs["romof"],
		Roms:         []Rom{},
	}

	for _, child := range children {
		if !child.IsGroup || child.Key != "rom" {
			continue
		}
		r := fields(child.Children)
		rom, ok, err := romFields{
			name:   r["name"],
			size:   r["size"],
			crc:    r["crc"],
			sha1:   r["sha1"],
			merge:  r["merge"],
			status: r["status"],
		}.build(game.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			game.Roms = append(game.Roms, rom)
		}
	}

	return game, nil
}
