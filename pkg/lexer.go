package synparse

import (
	"regexp"
	"sort"
	"strings"
)

// lexerMode is the Lexer's current accumulation mode.
type lexerMode int

const (
	modeNormal lexerMode = iota
	modeLineComment
	modeBlockComment
)

// Whitespace character codes that terminate a lexeme in NORMAL mode, outside
// an open literal delimiter.
const (
	wsTab       = 9
	wsLineBreak = 10
	wsVTab      = 11
	wsFormFeed  = 12
	wsSpace     = 32
)

// Lexer segments a character stream into Tokens according to its configured
// TokenTypes. A Lexer is not safe for concurrent use and should never be
// reused across input streams once SetInputStream has been called; build a
// fresh one (or call NewLexer again) per parse.
type Lexer struct {
	buf *inputBuffer

	keywords   map[string]*Keyword
	words      []*Word
	prefixes   []*Prefix
	postfixes  []*Postfix
	separators []*Separator
	literal    *Literal

	literalDelims []rune
	hasEscape     bool
	escapeChar    rune

	lineCommentEnabled  bool
	lineCommentRe       *regexp.Regexp
	blockCommentEnabled bool
	blockCommentEnd     string
	blockCommentRe      *regexp.Regexp

	mode            lexerMode
	currentLitDelim rune

	line   int
	column int

	stack []Token
}

// NewLexer builds an unconfigured Lexer. Use AddTokenType to register
// classifiers before calling SetInputStream.
func NewLexer() *Lexer {
	return &Lexer{keywords: make(map[string]*Keyword)}
}

// AddTokenType registers a TokenType with the lexer. Prefixes, postfixes,
// and separators are kept sorted longest-pattern-first (ties broken by
// insertion order) so classification greedily prefers the longest match.
func (l *Lexer) AddTokenType(tt TokenType) {
	switch v := tt.(type) {
	case *Keyword:
		l.keywords[v.text] = v
		if !v.caseSensitive {
			l.keywords[strings.ToUpper(v.text)] = v
		}
	case *Word:
		l.words = append(l.words, v)
	case *Prefix:
		l.prefixes = append(l.prefixes, v)
		sort.SliceStable(l.prefixes, func(i, j int) bool { return l.prefixes[i].patternLen() > l.prefixes[j].patternLen() })
	case *Postfix:
		l.postfixes = append(l.postfixes, v)
		sort.SliceStable(l.postfixes, func(i, j int) bool { return l.postfixes[i].patternLen() > l.postfixes[j].patternLen() })
	case *Separator:
		l.separators = append(l.separators, v)
		sort.SliceStable(l.separators, func(i, j int) bool { return l.separators[i].patternLen() > l.separators[j].patternLen() })
	case *Literal:
		l.literal = v
		l.literalDelims = v.delimiters
		l.hasEscape = true
		l.escapeChar = v.escape
	}
}

// EnableLineComments turns on single-line comments starting with start.
func (l *Lexer) EnableLineComments(start string) {
	l.lineCommentEnabled = true
	l.lineCommentRe = regexp.MustCompile(`^` + escapeStar(start) + `.*$`)
}

// EnableBlockComments turns on block comments delimited by start and end.
func (l *Lexer) EnableBlockComments(start, end string) {
	l.blockCommentEnabled = true
	l.blockCommentEnd = end
	l.blockCommentRe = regexp.MustCompile(`^` + escapeStar(start) + `.*$`)
}

func escapeStar(s string) string {
	return strings.ReplaceAll(s, "*", `\*`)
}

// SetInputStream resets the lexer's position tracking and attaches stream as
// its source. Call once per parse.
func (l *Lexer) SetInputStream(stream InputStream) {
	l.buf = newInputBuffer(stream, 2)
	l.mode = modeNormal
	l.line = 1
	l.column = 0
	l.currentLitDelim = 0
	l.stack = nil
}

// NextToken returns the next Token in the stream. ok is false once the
// stream is exhausted; err is non-nil if no classifier accepts a lexeme.
func (l *Lexer) NextToken() (tok Token, ok bool, err error) {
	if l.buf == nil {
		return Token{}, false, nil
	}

	if n := len(l.stack); n > 0 {
		tok = l.stack[n-1]
		l.stack = l.stack[:n-1]
		return tok, true, nil
	}

	var consumed []rune
	startLine, startColumn := 0, 0

	for {
		content := l.buf.peekContent()
		if content == "" {
			break
		}

		consumedChars, isTermination := l.consume()
		curLine, curCol, hadStart := l.updatePosInfo(consumedChars)

		if l.mode == modeNormal {
			if len(consumed) == 0 && hadStart {
				startLine, startColumn = curLine, curCol
			}
			consumed = append(consumed, []rune(consumedChars)...)
		}

		if isTermination {
			if l.mode == modeNormal {
				tok, ok, err = l.handleConsumption(string(consumed), startLine, startColumn)
				if err != nil {
					return Token{}, false, err
				}
				if ok {
					return tok, true, nil
				}
				consumed = nil
			} else {
				l.checkForModeChange(content)
			}
		}
	}

	if len(consumed) > 0 {
		return l.handleConsumption(string(consumed), startLine, startColumn)
	}
	return Token{}, false, nil
}

// handleConsumption re-checks consumed for a comment-mode transition, then
// classifies it into one or more Tokens, stashing all but the first (in
// emission order) on the emission stack.
func (l *Lexer) handleConsumption(consumed string, startLine, startColumn int) (Token, bool, error) {
	consumed = l.checkForModeChange(consumed)
	if consumed == "" {
		return Token{}, false, nil
	}

	toks, err := l.classify(consumed, startLine, startColumn)
	if err != nil {
		return Token{}, false, err
	}
	if len(toks) == 0 {
		return Token{}, false, &LexError{Pos: Position{startLine, startColumn}, Text: consumed}
	}

	l.stack = toks
	n := len(l.stack)
	tok := l.stack[n-1]
	l.stack = l.stack[:n-1]
	return tok, true, nil
}

// consume pulls characters from the buffer according to the current mode,
// returning what was consumed and whether it hit a termination string.
func (l *Lexer) consume() (string, bool) {
	switch l.mode {
	case modeNormal:
		return l.consumeNormal()
	case modeLineComment:
		content := l.buf.peekContent()
		isTermination := len(content) > 0 && content[0] == '\n'
		return l.buf.consumeAll(), isTermination
	case modeBlockComment:
		content := l.buf.peekContent()
		isTermination := content == l.blockCommentEnd
		return l.buf.consumeAll(), isTermination
	default:
		return "", false
	}
}

// consumeNormal implements the NORMAL-mode termination rule: accumulate
// until whitespace outside an open literal delimiter, honoring a single
// escape character immediately before a delimiter. A trailing escape
// character with no buffered successor yet is left unconsumed.
func (l *Lexer) consumeNormal() (string, bool) {
	text := []rune(l.buf.peekContent())
	textLen := len(text)
	lastIdx := textLen - 1

	var consumed []rune
	isTermination := false
	var prevChar rune
	havePrev := false

	for idx := 0; idx < textLen; idx++ {
		ch := text[idx]
		if l.hasEscape && idx == lastIdx && ch == l.escapeChar && textLen != 1 {
			break
		}

		consumedChar, ok := l.buf.consumeChar()
		if !ok {
			break
		}

		prevIsEscape := havePrev && l.hasEscape && prevChar == l.escapeChar
		if !prevIsEscape {
			isTermination = l.isWhitespace(consumedChar)
			if isTermination {
				prevChar = consumedChar
				havePrev = true
				break
			}
			consumed = append(consumed, consumedChar)
		} else if !runeIn(consumedChar, l.literalDelims) {
			consumed = append(consumed, consumedChar)
		} else {
			consumed[len(consumed)-1] = consumedChar
		}

		prevChar = consumedChar
		havePrev = true
	}

	return string(consumed), isTermination
}

// isWhitespace reports whether ch terminates the current lexeme, tracking
// literal-delimiter state as a side effect: a delimiter character opens or
// closes currentLitDelim and never itself counts as whitespace; while a
// literal is open, no character counts as whitespace.
func (l *Lexer) isWhitespace(ch rune) bool {
	if runeIn(ch, l.literalDelims) {
		if l.currentLitDelim != 0 {
			if ch == l.currentLitDelim {
				l.currentLitDelim = 0
			}
		} else {
			l.currentLitDelim = ch
		}
		return false
	}
	if l.currentLitDelim != 0 {
		return false
	}
	switch ch {
	case wsTab, wsLineBreak, wsVTab, wsFormFeed, wsSpace:
		return true
	}
	return false
}

func runeIn(ch rune, set []rune) bool {
	for _, c := range set {
		if c == ch {
			return true
		}
	}
	return false
}

// updatePosInfo advances the lexer's line/column counters over consumed,
// returning the position of its first character (if any).
func (l *Lexer) updatePosInfo(consumed string) (line, column int, hadStart bool) {
	for i, ch := range []rune(consumed) {
		if i == 0 {
			line, column, hadStart = l.line, l.column, true
		}
		if ch == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
	}
	return
}

// checkForModeChange inspects consumed for a comment-start marker (when in
// NORMAL mode) or unconditionally reverts to NORMAL (when leaving a comment
// mode), resetting the input buffer's lookahead window accordingly. It
// returns consumed, or "" if a mode switch discarded it.
func (l *Lexer) checkForModeChange(consumed string) string {
	if consumed == "" {
		return consumed
	}

	if l.mode == modeNormal {
		if l.lineCommentEnabled && l.lineCommentRe.MatchString(consumed) {
			l.mode = modeLineComment
			l.buf = newInputBuffer(l.buf.stream, 1)
			return ""
		}
		if l.blockCommentEnabled && l.blockCommentRe.MatchString(consumed) {
			l.mode = modeBlockComment
			l.buf = newInputBuffer(l.buf.stream, len([]rune(l.blockCommentEnd)))
			return ""
		}
		return consumed
	}

	l.mode = modeNormal
	l.buf = newInputBuffer(l.buf.stream, 2)
	return ""
}

// classify turns a non-empty lexeme into one or more Tokens, in left-to-right
// emission order, per the category precedence: Literal, Separator, Prefix,
// Postfix, Keyword/Word.
func (l *Lexer) classify(text string, startLine, startColumn int) ([]Token, error) {
	if l.literal != nil {
		if tok, ok := l.literal.createToken(text); ok {
			tok.Pos = Position{startLine, startColumn}
			return []Token{tok}, nil
		}
	}

	for _, sep := range l.separators {
		tok, ok := sep.createToken(text)
		if !ok {
			continue
		}
		left := sep.RemainingLeft(text)
		right := sep.RemainingRight(text)

		var res []Token
		if right != "" {
			col := startColumn + len([]rune(left)) + len([]rune(tok.Text))
			r, err := l.classify(right, startLine, col)
			if err != nil {
				return nil, err
			}
			res = r
		}

		tok.Pos = Position{startLine, startColumn + len([]rune(left))}
		res = append(res, tok)

		if left != "" {
			lres, err := l.classify(left, startLine, startColumn)
			if err != nil {
				return nil, err
			}
			res = append(res, lres...)
		}
		return res, nil
	}

	for _, pre := range l.prefixes {
		tok, ok := pre.createToken(text)
		if !ok {
			continue
		}
		right := pre.RemainingRight(text)

		var res []Token
		if right != "" {
			col := startColumn + len([]rune(tok.Text))
			r, err := l.classify(right, startLine, col)
			if err != nil {
				return nil, err
			}
			res = r
		}

		tok.Pos = Position{startLine, startColumn}
		res = append(res, tok)
		return res, nil
	}

	for _, post := range l.postfixes {
		tok, ok := post.createToken(text)
		if !ok {
			continue
		}
		left := post.RemainingLeft(text)
		col := startColumn + len([]rune(left))
		tok.Pos = Position{startLine, col}

		res := []Token{tok}
		if left != "" {
			lres, err := l.classify(left, startLine, startColumn)
			if err != nil {
				return nil, err
			}
			res = append(res, lres...)
		}
		return res, nil
	}

	var matching []TokenType
	if kw, ok := l.keywords[text]; ok {
		matching = append(matching, kw)
	} else if kw, ok := l.keywords[strings.ToUpper(text)]; ok && !kw.CaseSensitive() {
		matching = append(matching, kw)
	}
	for _, w := range l.words {
		if w.matches(text) {
			matching = append(matching, w)
		}
	}

	if len(matching) > 0 {
		return []Token{{Text: text, Pos: Position{startLine, startColumn}, MatchedTypes: matching}}, nil
	}

	return nil, &LexError{Pos: Position{startLine, startColumn}, Text: text}
}
