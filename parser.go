/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package ftl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const eof byte = 0

// Parser is an object for parsing message tables.
type Parser struct {
	withSpans      bool
	detachComments bool
}

// NewParser creates new Parser.
// Available options:
// - WithSpans(b bool) - records byte ranges of every entry.
// - WithDetachedComments(b bool) - keeps "#" comments as standalone entries.
func NewParser(opts ...ParserOption) *Parser {
	pOpts := makeParserOptions(opts...)
	return &Parser{
		withSpans:      pOpts.withSpans,
		detachComments: pOpts.detachComments,
	}
}

// Parse parses input string as a message table.
// The resource is always returned. Malformed entries are kept as Junk and the
// returned error describes all of them; well-formed entries are unaffected.
func Parse(input string, opts ...ParserOption) (*Resource, error) {
	return NewParser(opts...).Parse(input)
}

// MustParse parses input string as a message table and panics on any syntax error.
func MustParse(input string, opts ...ParserOption) *Resource {
	res, err := NewParser(opts...).Parse(input)
	if err != nil {
		panic(err)
	}
	return res
}

// Parse parses input string as a message table. See Parse for details.
func (p *Parser) Parse(input string) (*Resource, error) {
	res := p.ParseResource(input)
	return res, res.Errors()
}

// ParseResource parses input string and never fails: syntax errors are reported
// through Junk entries only.
func (p *Parser) ParseResource(input string) *Resource {
	src := strings.ReplaceAll(input, "\r\n", "\n")
	c := &cursor{src: src}
	res := &Resource{}

	var pending *Comment
	flush := func() {
		if pending != nil {
			res.Body = append(res.Body, pending)
			pending = nil
		}
	}

	c.skipBlankBlock()
	for !c.eof() {
		start := c.pos
		entry, perr := p.parseEntry(c)
		if perr != nil {
			c.pos = start
			c.skipJunk()
			junk := &Junk{Content: src[start:c.pos], Annotations: []*ParseError{perr}}
			if p.withSpans {
				junk.Span = &Span{Start: start, End: c.pos}
			}
			flush()
			res.Body = append(res.Body, junk)
			continue
		}
		end := c.pos
		blank := c.skipBlankBlock()

		switch e := entry.(type) {
		case *Comment:
			if p.withSpans {
				e.Span = &Span{Start: start, End: end}
			}
			flush()
			if e.Level == CommentLevelComment && blank == 0 && !p.detachComments && !c.eof() {
				pending = e
				continue
			}
			res.Body = append(res.Body, e)
		case *Message:
			if p.withSpans {
				e.Span = &Span{Start: start, End: end}
			}
			e.Comment, pending = pending, nil
			res.Body = append(res.Body, e)
		case *Term:
			if p.withSpans {
				e.Span = &Span{Start: start, End: end}
			}
			e.Comment, pending = pending, nil
			res.Body = append(res.Body, e)
		}
	}
	flush()
	return res
}

func (p *Parser) parseEntry(c *cursor) (Entry, *ParseError) {
	switch ch := c.peek(); {
	case ch == '#':
		return p.parseComment(c)
	case ch == '-':
		return p.parseTerm(c)
	case isAlpha(ch):
		return p.parseMessage(c)
	}
	return nil, c.errorf(CodeExpectedEntry, "expected an entry start")
}

func (p *Parser) parseComment(c *cursor) (Entry, *ParseError) {
	level := c.commentSigil()
	if level == 0 {
		if n := c.count('#'); n > 3 {
			return nil, c.errorf(CodeExpectedToken, `expected a comment sigil of at most three "#"`)
		}
		return nil, c.errorf(CodeExpectedToken, `expected token: " "`)
	}

	var lines []string
	for {
		c.pos += level
		if c.peek() == ' ' {
			c.pos++
		}
		lines = append(lines, c.readLine())
		c.consumeEOL()
		if c.eof() || c.commentSigil() != level {
			break
		}
	}
	return &Comment{Level: CommentLevel(level), Content: strings.Join(lines, "\n")}, nil
}

func (p *Parser) parseMessage(c *cursor) (Entry, *ParseError) {
	id := c.readIdentifier()
	c.skipBlankInline()
	if perr := c.expect('='); perr != nil {
		return nil, perr
	}
	value, perr := p.maybeParsePattern(c)
	if perr != nil {
		return nil, perr
	}
	attrs, perr := p.parseAttributes(c)
	if perr != nil {
		return nil, perr
	}
	if value == nil && len(attrs) == 0 {
		return nil, c.errorf(CodeMessageWithoutValue, fmt.Sprintf("expected message %q to have a value or attributes", id))
	}
	if perr := c.expectLineEnd(); perr != nil {
		return nil, perr
	}
	return &Message{ID: id, Value: value, Attributes: attrs}, nil
}

func (p *Parser) parseTerm(c *cursor) (Entry, *ParseError) {
	c.pos++ // cut "-" prefix
	if !isAlpha(c.peek()) {
		return nil, c.errorf(CodeExpectedCharRange, `expected a character from range: "a-zA-Z"`)
	}
	id := c.readIdentifier()
	c.skipBlankInline()
	if perr := c.expect('='); perr != nil {
		return nil, perr
	}
	value, perr := p.maybeParsePattern(c)
	if perr != nil {
		return nil, perr
	}
	if value == nil {
		return nil, c.errorf(CodeTermWithoutValue, fmt.Sprintf("expected term %q to have a value", "-"+id))
	}
	attrs, perr := p.parseAttributes(c)
	if perr != nil {
		return nil, perr
	}
	if perr := c.expectLineEnd(); perr != nil {
		return nil, perr
	}
	return &Term{ID: id, Value: value, Attributes: attrs}, nil
}

func (p *Parser) parseAttributes(c *cursor) ([]*Attribute, *ParseError) {
	var attrs []*Attribute
	for c.peek() == '\n' {
		j := c.pos
		for j < len(c.src) && (c.src[j] == '\n' || c.src[j] == ' ') {
			j++
		}
		if j >= len(c.src) || c.src[j] != '.' {
			break
		}
		c.pos = j + 1
		if !isAlpha(c.peek()) {
			return nil, c.errorf(CodeExpectedCharRange, `expected a character from range: "a-zA-Z"`)
		}
		id := c.readIdentifier()
		c.skipBlankInline()
		if perr := c.expect('='); perr != nil {
			return nil, perr
		}
		value, perr := p.maybeParsePattern(c)
		if perr != nil {
			return nil, perr
		}
		if value == nil {
			return nil, c.errorf(CodeMissingValue, "expected value")
		}
		attrs = append(attrs, &Attribute{ID: id, Value: value})
	}
	return attrs, nil
}

func (p *Parser) maybeParsePattern(c *cursor) (*Pattern, *ParseError) {
	c.skipBlankInline()
	if !c.eof() && c.peek() != '\n' {
		return p.parsePattern(c, false)
	}
	if _, _, _, ok := c.lookContinuation(); ok {
		return p.parsePattern(c, true)
	}
	return nil, nil
}

type rawElement struct {
	text      string
	indent    int
	isIndent  bool
	placeable *Placeable
}

func (p *Parser) parsePattern(c *cursor, block bool) (*Pattern, *ParseError) {
	var elems []rawElement
	common := -1

	if block {
		next, _, width, _ := c.lookContinuation()
		elems = append(elems, rawElement{isIndent: true, indent: width})
		common = width
		c.pos = next
	}

loop:
	for {
		switch ch := c.peek(); {
		case c.eof():
			break loop
		case ch == '\n':
			next, breaks, width, ok := c.lookContinuation()
			if !ok {
				break loop
			}
			elems = append(elems,
				rawElement{text: strings.Repeat("\n", breaks)},
				rawElement{isIndent: true, indent: width})
			if common < 0 || width < common {
				common = width
			}
			c.pos = next
		case ch == '{':
			pl, perr := p.parsePlaceable(c)
			if perr != nil {
				return nil, perr
			}
			elems = append(elems, rawElement{placeable: pl})
		case ch == '}':
			return nil, c.errorf(CodeUnbalancedBrace, "unbalanced closing brace in text")
		default:
			start := c.pos
			for !c.eof() {
				if b := c.peek(); b == '{' || b == '}' || b == '\n' {
					break
				}
				c.pos++
			}
			elems = append(elems, rawElement{text: c.src[start:c.pos]})
		}
	}

	if common < 0 {
		common = 0
	}
	var out []PatternElement
	var buf strings.Builder
	flushText := func() {
		if buf.Len() > 0 {
			out = append(out, &TextElement{Value: buf.String()})
			buf.Reset()
		}
	}
	for _, e := range elems {
		switch {
		case e.isIndent:
			buf.WriteString(strings.Repeat(" ", e.indent-common))
		case e.placeable != nil:
			flushText()
			out = append(out, e.placeable)
		default:
			buf.WriteString(e.text)
		}
	}
	flushText()

	if n := len(out); n > 0 {
		if t, ok := out[n-1].(*TextElement); ok {
			t.Value = strings.TrimRight(t.Value, " \n")
			if t.Value == "" {
				out = out[:n-1]
			}
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &Pattern{Elements: out}, nil
}

func (p *Parser) parsePlaceable(c *cursor) (*Placeable, *ParseError) {
	c.pos++ // cut "{"
	c.skipBlank()
	expr, perr := p.parseExpression(c)
	if perr != nil {
		return nil, perr
	}
	c.skipBlank()
	if perr := c.expect('}'); perr != nil {
		return nil, perr
	}
	return &Placeable{Expression: expr}, nil
}

func (p *Parser) parseExpression(c *cursor) (Expression, *ParseError) {
	selector, perr := p.parseInlineExpression(c)
	if perr != nil {
		return nil, perr
	}
	c.skipBlank()

	if c.peek() != '-' || c.peekAt(1) != '>' {
		if ref, ok := selector.(*TermReference); ok && ref.Attribute != "" {
			return nil, c.errorf(CodeTermAttrAsPlaceable, "attributes of terms cannot be used as placeables")
		}
		return selector, nil
	}

	switch ref := selector.(type) {
	case *MessageReference:
		if ref.Attribute == "" {
			return nil, c.errorf(CodeMessageAsSelector, "message references cannot be used as selectors")
		}
		return nil, c.errorf(CodeMessageAttrAsSelector, "attributes of messages cannot be used as selectors")
	case *TermReference:
		if ref.Attribute == "" {
			return nil, c.errorf(CodeTermAsSelector, "terms cannot be used as selectors")
		}
	}

	c.pos += 2 // cut "->"
	c.skipBlankInline()
	if c.peek() != '\n' {
		return nil, c.errorf(CodeExpectedToken, `expected token: "\n"`)
	}
	variants, perr := p.parseVariants(c)
	if perr != nil {
		return nil, perr
	}
	return &SelectExpression{Selector: selector, Variants: variants}, nil
}

func (p *Parser) parseVariants(c *cursor) ([]*Variant, *ParseError) {
	var variants []*Variant
	hasDefault := false
	for {
		c.skipBlank()
		ch := c.peek()
		if ch != '[' && ch != '*' {
			break
		}
		isDefault := false
		if ch == '*' {
			isDefault = true
			c.pos++
		}
		if perr := c.expect('['); perr != nil {
			return nil, perr
		}
		if isDefault && hasDefault {
			return nil, c.errorf(CodeMultipleDefaultVariants, "a select expression can only have one default variant")
		}
		hasDefault = hasDefault || isDefault

		c.skipBlank()
		var key VariantKey
		switch ch := c.peek(); {
		case isDigit(ch) || ch == '-':
			num, perr := c.parseNumber()
			if perr != nil {
				return nil, perr
			}
			key = num
		case isAlpha(ch):
			key = &Identifier{Name: c.readIdentifier()}
		default:
			return nil, c.errorf(CodeMissingVariantKey, "expected a variant key")
		}
		c.skipBlank()
		if perr := c.expect(']'); perr != nil {
			return nil, perr
		}

		value, perr := p.maybeParsePattern(c)
		if perr != nil {
			return nil, perr
		}
		if value == nil {
			return nil, c.errorf(CodeMissingValue, "expected value")
		}
		variants = append(variants, &Variant{Key: key, Value: value, Default: isDefault})
	}
	if len(variants) == 0 {
		return nil, c.errorf(CodeMissingVariants, "expected at least one variant after \"->\"")
	}
	if !hasDefault {
		return nil, c.errorf(CodeMissingDefaultVariant, "expected one of the variants to be marked as default (*)")
	}
	return variants, nil
}

func (p *Parser) parseInlineExpression(c *cursor) (Expression, *ParseError) {
	switch ch := c.peek(); {
	case ch == '{':
		return p.parsePlaceable(c)
	case ch == '"':
		return c.parseString()
	case isDigit(ch) || (ch == '-' && isDigit(c.peekAt(1))):
		return c.parseNumber()
	case ch == '-':
		c.pos++
		if !isAlpha(c.peek()) {
			return nil, c.errorf(CodeExpectedCharRange, `expected a character from range: "a-zA-Z"`)
		}
		ref := &TermReference{ID: c.readIdentifier()}
		if c.peek() == '.' {
			attr, perr := c.parseAttributeAccessor()
			if perr != nil {
				return nil, perr
			}
			ref.Attribute = attr
		}
		save := c.pos
		c.skipBlank()
		if c.peek() == '(' {
			args, perr := p.parseCallArguments(c)
			if perr != nil {
				return nil, perr
			}
			ref.Arguments = args
		} else {
			c.pos = save
		}
		return ref, nil
	case ch == '$':
		c.pos++
		if !isAlpha(c.peek()) {
			return nil, c.errorf(CodeExpectedCharRange, `expected a character from range: "a-zA-Z"`)
		}
		return &VariableReference{ID: c.readIdentifier()}, nil
	case isAlpha(ch):
		id := c.readIdentifier()
		save := c.pos
		c.skipBlank()
		if c.peek() == '(' {
			if !isCallee(id) {
				return nil, c.errorf(CodeCalleeNotUppercase, "the callee has to be an upper-case identifier or a term")
			}
			args, perr := p.parseCallArguments(c)
			if perr != nil {
				return nil, perr
			}
			return &FunctionReference{ID: id, Arguments: args}, nil
		}
		c.pos = save
		ref := &MessageReference{ID: id}
		if c.peek() == '.' {
			attr, perr := c.parseAttributeAccessor()
			if perr != nil {
				return nil, perr
			}
			ref.Attribute = attr
		}
		return ref, nil
	}
	return nil, c.errorf(CodeExpectedInlineExpr, "expected an inline expression")
}

func (p *Parser) parseCallArguments(c *cursor) (*CallArguments, *ParseError) {
	c.pos++ // cut "("
	args := &CallArguments{}
	seen := map[string]struct{}{}
	for {
		c.skipBlank()
		if c.peek() == ')' {
			c.pos++
			return args, nil
		}
		if c.eof() {
			return nil, c.errorf(CodeExpectedToken, `expected token: ")"`)
		}
		expr, perr := p.parseInlineExpression(c)
		if perr != nil {
			return nil, perr
		}
		c.skipBlank()

		if c.peek() == ':' {
			ref, ok := expr.(*MessageReference)
			if !ok || ref.Attribute != "" {
				return nil, c.errorf(CodeNamedArgumentName, "the argument name has to be a simple identifier")
			}
			c.pos++
			c.skipBlank()
			var value Expression
			switch ch := c.peek(); {
			case ch == '"':
				value, perr = c.parseString()
			case isDigit(ch) || ch == '-':
				value, perr = c.parseNumber()
			default:
				return nil, c.errorf(CodeExpectedLiteral, "expected a string or number literal")
			}
			if perr != nil {
				return nil, perr
			}
			if _, dup := seen[ref.ID]; dup {
				return nil, c.errorf(CodeDuplicateNamedArgument, fmt.Sprintf("the %q argument appears twice", ref.ID))
			}
			seen[ref.ID] = struct{}{}
			args.Named = append(args.Named, &NamedArgument{Name: ref.ID, Value: value})
		} else {
			if len(args.Named) > 0 {
				return nil, c.errorf(CodePositionalAfterNamed, "positional arguments must not follow named arguments")
			}
			args.Positional = append(args.Positional, expr)
		}

		c.skipBlank()
		switch c.peek() {
		case ',':
			c.pos++
		case ')':
		default:
			return nil, c.errorf(CodeExpectedToken, `expected token: ")"`)
		}
	}
}

// cursor walks the normalized source byte by byte. All syntax characters are ASCII,
// so multi-byte UTF-8 sequences are only ever copied, never split.
type cursor struct {
	src string
	pos int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

func (c *cursor) peek() byte {
	return c.peekAt(0)
}

func (c *cursor) peekAt(offset int) byte {
	if i := c.pos + offset; i < len(c.src) {
		return c.src[i]
	}
	return eof
}

func (c *cursor) count(ch byte) int {
	n := 0
	for c.peekAt(n) == ch {
		n++
	}
	return n
}

// commentSigil returns the comment level of the line at the cursor or 0 if the line
// is not a well-formed comment line.
func (c *cursor) commentSigil() int {
	n := c.count('#')
	if n == 0 || n > 3 {
		return 0
	}
	if next := c.peekAt(n); next != ' ' && next != '\n' && next != eof {
		return 0
	}
	return n
}

func (c *cursor) readLine() string {
	start := c.pos
	for !c.eof() && c.peek() != '\n' {
		c.pos++
	}
	return c.src[start:c.pos]
}

func (c *cursor) consumeEOL() {
	if c.peek() == '\n' {
		c.pos++
	}
}

func (c *cursor) readIdentifier() string {
	start := c.pos
	for !c.eof() {
		if ch := c.peek(); !isAlpha(ch) && !isDigit(ch) && ch != '_' && ch != '-' {
			break
		}
		c.pos++
	}
	return c.src[start:c.pos]
}

func (c *cursor) parseAttributeAccessor() (string, *ParseError) {
	c.pos++ // cut "."
	if !isAlpha(c.peek()) {
		return "", c.errorf(CodeExpectedCharRange, `expected a character from range: "a-zA-Z"`)
	}
	return c.readIdentifier(), nil
}

func (c *cursor) skipBlankInline() {
	for c.peek() == ' ' {
		c.pos++
	}
}

func (c *cursor) skipBlank() {
	for ch := c.peek(); ch == ' ' || ch == '\n'; ch = c.peek() {
		c.pos++
	}
}

// skipBlankBlock skips whole blank lines and returns how many were skipped.
// Indentation of the first non-blank line is left untouched.
func (c *cursor) skipBlankBlock() int {
	count := 0
	for {
		start := c.pos
		c.skipBlankInline()
		switch {
		case c.peek() == '\n':
			c.pos++
			count++
		case c.eof():
			return count
		default:
			c.pos = start
			return count
		}
	}
}

// skipJunk advances to the start of the next line that may begin an entry.
func (c *cursor) skipJunk() {
	for {
		c.readLine()
		if c.eof() {
			return
		}
		c.pos++
		if ch := c.peek(); ch == '#' || ch == '-' || isAlpha(ch) || c.eof() {
			return
		}
	}
}

// lookContinuation inspects the lines after the line break at the cursor. It
// reports the position of the first character of the next non-blank line, the
// number of line breaks before it, its indentation and whether that line continues
// the current pattern.
func (c *cursor) lookContinuation() (next, breaks, indent int, ok bool) {
	i := c.pos
	for {
		if i >= len(c.src) || c.src[i] != '\n' {
			return 0, 0, 0, false
		}
		breaks++
		i++
		j := i
		for j < len(c.src) && c.src[j] == ' ' {
			j++
		}
		if j >= len(c.src) {
			return 0, 0, 0, false
		}
		if c.src[j] == '\n' {
			i = j
			continue
		}
		indent = j - i
		if indent == 0 {
			return 0, 0, 0, false
		}
		switch c.src[j] {
		case '}', '.', '[', '*':
			return 0, 0, 0, false
		}
		return j, breaks, indent, true
	}
}

func (c *cursor) expect(ch byte) *ParseError {
	if c.peek() != ch {
		return c.errorf(CodeExpectedToken, fmt.Sprintf("expected token: %q", string(ch)))
	}
	c.pos++
	return nil
}

func (c *cursor) expectLineEnd() *ParseError {
	if c.eof() {
		return nil
	}
	if c.peek() != '\n' {
		return c.errorf(CodeExpectedToken, `expected token: "\n"`)
	}
	c.pos++
	return nil
}

func (c *cursor) parseNumber() (*NumberLiteral, *ParseError) {
	start := c.pos
	if c.peek() == '-' {
		c.pos++
	}
	if !c.skipDigits() {
		return nil, c.errorf(CodeExpectedCharRange, `expected a character from range: "0-9"`)
	}
	if c.peek() == '.' {
		c.pos++
		if !c.skipDigits() {
			return nil, c.errorf(CodeExpectedCharRange, `expected a character from range: "0-9"`)
		}
	}
	return &NumberLiteral{Value: c.src[start:c.pos]}, nil
}

func (c *cursor) skipDigits() bool {
	start := c.pos
	for isDigit(c.peek()) {
		c.pos++
	}
	return c.pos > start
}

func (c *cursor) parseString() (*StringLiteral, *ParseError) {
	c.pos++ // cut opening quote
	var b strings.Builder
	for {
		switch ch := c.peek(); {
		case c.eof() || ch == '\n':
			return nil, c.errorf(CodeUnterminatedString, "unterminated string literal")
		case ch == '"':
			c.pos++
			return &StringLiteral{Value: b.String()}, nil
		case ch == '\\':
			switch next := c.peekAt(1); next {
			case '\\', '"':
				b.WriteByte(next)
				c.pos += 2
			case 'u', 'U':
				size := 4
				if next == 'U' {
					size = 6
				}
				start := c.pos + 2
				end := start + size
				if end > len(c.src) {
					return nil, c.errorf(CodeInvalidUnicodeEscape, "invalid unicode escape sequence")
				}
				code, err := strconv.ParseUint(c.src[start:end], 16, 32)
				if err != nil {
					return nil, c.errorf(CodeInvalidUnicodeEscape, fmt.Sprintf("invalid unicode escape sequence: \\%c%s", next, c.src[start:end]))
				}
				r := rune(code)
				if !utf8.ValidRune(r) {
					r = utf8.RuneError
				}
				b.WriteRune(r)
				c.pos = end
			default:
				return nil, c.errorf(CodeInvalidEscape, fmt.Sprintf("unknown escape sequence: \\%c", next))
			}
		default:
			b.WriteByte(ch)
			c.pos++
		}
	}
}

func (c *cursor) errorf(code, msg string) *ParseError {
	offset := c.pos
	if offset > len(c.src) {
		offset = len(c.src)
	}
	line := 1 + strings.Count(c.src[:offset], "\n")
	col := offset - strings.LastIndexByte(c.src[:offset], '\n')
	return &ParseError{Code: code, Message: msg, Offset: offset, Line: line, Column: col}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isCallee(id string) bool {
	for i := 0; i < len(id); i++ {
		ch := id[i]
		if (ch < 'A' || ch > 'Z') && !isDigit(ch) && ch != '_' && ch != '-' {
			return false
		}
	}
	return id != ""
}
