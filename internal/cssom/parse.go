package cssom

import (
	"bytes"
	"fmt"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseError reports a syntax error surfaced while tokenizing a
// stylesheet; the sanitizer maps this to logger.ErrCSSParseError.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

// Parse tokenizes CSS source text into a Document. It never rejects
// at-rules or declarations on policy grounds — that's Walk's job — it
// only fails on CSS syntax it cannot make sense of at all. Every Node
// and Declaration records the tokenizer's byte offset within src as read
// right after the grammar event that produced it (an approximate
// position), so validation errors can be attributed to a source location
// instead of just a bare message.
func Parse(src string) (*Document, error) {
	input := parse.NewInput(bytes.NewReader([]byte(src)))
	p := css.NewParser(input, false)

	children, _, err := parseList(p, input, false)
	if err != nil {
		return nil, err
	}
	return &Document{Rules: children}, nil
}

// parseList consumes grammar events until EndAtRuleGrammar (when inBlock
// is true) or end of input (when inBlock is false, i.e. top level),
// returning whatever nested rules/at-rules it saw and whatever bare
// declarations it saw directly inside the enclosing at-rule (the
// @font-face shape). A well-formed stylesheet never mixes the two at
// one nesting level.
func parseList(p *css.Parser, input *parse.Input, inBlock bool) (children []*Node, decls []Declaration, err error) {
	var pendingSelectors []string
	for {
		gt, _, data := p.Next()
		offset := input.Offset()

		switch gt {
		case css.ErrorGrammar:
			if perr := p.Err(); perr != nil && perr.Error() != "EOF" {
				return children, decls, &ParseError{Message: fmt.Sprintf("css parse error: %s", perr.Error())}
			}
			return children, decls, nil

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			if inBlock {
				return children, decls, nil
			}
			// Stray close at top level; ignore and keep going.
			continue

		case css.BeginAtRuleGrammar, css.AtRuleGrammar:
			name := strings.TrimPrefix(string(data), "@")
			prelude := joinTokens(nil, p.Values())

			if gt == css.AtRuleGrammar {
				children = append(children, atRuleLeaf(name, prelude, offset))
				continue
			}

			nested, nestedDecls, err := parseList(p, input, true)
			if err != nil {
				return children, decls, err
			}
			children = append(children, atRuleBlockNode(name, prelude, nested, nestedDecls, offset))

		case css.QualifiedRuleGrammar:
			// A selector followed by a comma; it does not pair with a
			// separate EndRulesetGrammar, so it is held until the
			// BeginRulesetGrammar that completes the selector list.
			pendingSelectors = append(pendingSelectors, joinTokens(data, p.Values()))

		case css.BeginRulesetGrammar:
			prelude := joinTokens(data, p.Values())
			if len(pendingSelectors) > 0 {
				prelude = strings.Join(append(pendingSelectors, prelude), ",")
				pendingSelectors = nil
			}
			ruleDecls, err := parseDeclarations(p, input)
			if err != nil {
				return children, decls, err
			}
			children = append(children, &Node{Kind: KindRule, Offset: offset, Prelude: strings.TrimSpace(prelude), Declarations: ruleDecls})

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, declarationFromValues(string(data), p.Values(), offset))

		default:
			// Unrecognized grammar event; skip it rather than fail the
			// whole parse.
		}
	}
}

// parseDeclarations reads declarations belonging to a single ruleset
// until its EndRulesetGrammar.
func parseDeclarations(p *css.Parser, input *parse.Input) ([]Declaration, error) {
	var decls []Declaration
	for {
		gt, _, data := p.Next()
		offset := input.Offset()
		switch gt {
		case css.ErrorGrammar:
			if perr := p.Err(); perr != nil && perr.Error() != "EOF" {
				return decls, &ParseError{Message: fmt.Sprintf("css parse error: %s", perr.Error())}
			}
			return decls, nil
		case css.EndRulesetGrammar:
			return decls, nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			decls = append(decls, declarationFromValues(string(data), p.Values(), offset))
		}
	}
}

// declarationFromValues builds a Declaration from a DeclarationGrammar's
// name and value tokens, splitting off a trailing "!important".
func declarationFromValues(name string, values []css.Token, offset int) Declaration {
	important := false
	values, important = stripImportant(values)
	return Declaration{
		Name:      strings.TrimSpace(name),
		Value:     strings.TrimSpace(joinTokens(nil, values)),
		Important: important,
		Offset:    offset,
	}
}

// stripImportant removes a trailing "! important" (in any token-level
// spacing) from a declaration's value tokens.
func stripImportant(values []css.Token) ([]css.Token, bool) {
	end := len(values)
	for end > 0 && values[end-1].TokenType == css.WhitespaceToken {
		end--
	}
	if end == 0 {
		return values, false
	}
	last := values[end-1]
	if last.TokenType == css.IdentToken && strings.EqualFold(string(last.Data), "important") {
		end--
		for end > 0 && values[end-1].TokenType == css.WhitespaceToken {
			end--
		}
		if end > 0 && values[end-1].TokenType == css.DelimToken && string(values[end-1].Data) == "!" {
			end--
			for end > 0 && values[end-1].TokenType == css.WhitespaceToken {
				end--
			}
			return values[:end], true
		}
	}
	return values, false
}

// joinTokens reconstructs compact source text from a prelude's leading
// raw bytes (if any, e.g. the ruleset's first selector byte already
// consumed by the tokenizer into `data`) plus its value tokens, with a
// single space inserted wherever a WhitespaceToken occurred. This keeps
// descendant-combinator selectors ("div .a") and multi-word values
// ("1px solid red") intact while staying otherwise compact.
func joinTokens(head []byte, values []css.Token) string {
	var b strings.Builder
	b.Write(head)
	for _, t := range values {
		if t.TokenType == css.WhitespaceToken {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			continue
		}
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

func atRuleLeaf(name, prelude string, offset int) *Node {
	if name == "import" {
		return &Node{Kind: KindAtImport, Offset: offset, Name: name, Prelude: prelude}
	}
	return &Node{Kind: KindUnknownAtRule, Offset: offset, Name: name, Prelude: prelude, Raw: "@" + name + " " + prelude + ";"}
}

func atRuleBlockNode(name, prelude string, children []*Node, decls []Declaration, offset int) *Node {
	switch {
	case name == "keyframes" || name == "-webkit-keyframes":
		return &Node{Kind: KindAtKeyframes, Offset: offset, Name: name, Prelude: prelude, Children: children}
	case len(decls) > 0 && len(children) == 0:
		return &Node{Kind: KindAtRuleSet, Offset: offset, Name: name, Prelude: prelude, Declarations: decls}
	default:
		return &Node{Kind: KindAtRuleBlock, Offset: offset, Name: name, Prelude: prelude, Children: children}
	}
}
