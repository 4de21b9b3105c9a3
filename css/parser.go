// Package css reads stylesheets produced by the generation engine back into
// blocks so the output can be inspected and verified.
package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into blocks.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse is a shortcut for NewParser(nil).Parse.
func Parse(data []byte) (*Sheet, error) {
	return NewParser(nil).Parse(data)
}

// Parse parses CSS text into a Sheet. Only parser errors are reported, the
// content is not validated against any property schema.
func (p *Parser) Parse(data []byte) (*Sheet, error) {
	sheet := &Sheet{}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			return sheet, parserError(parser)

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			if atRule != "@media" {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
				sheet.Skipped = append(sheet.Skipped, atRule)
				if err := skipAtRuleBlock(parser); err != nil {
					return sheet, err
				}
				continue
			}
			query := joinTokens(parser.Values())
			blocks, err := p.parseMediaBlock(parser, query)
			sheet.Blocks = append(sheet.Blocks, blocks...)
			if err != nil {
				return sheet, err
			}

		case css.AtRuleGrammar:
			atRule := strings.ToLower(string(data))
			p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			sheet.Skipped = append(sheet.Skipped, atRule)

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			selector := selectorText(data, parser.Values())
			decls, err := parseDeclarations(parser)
			sheet.Blocks = append(sheet.Blocks, Block{Selector: selector, Declarations: decls})
			if err != nil {
				return sheet, err
			}
		}
	}
}

// parseMediaBlock parses rulesets until the end of the enclosing @media block.
func (p *Parser) parseMediaBlock(parser *css.Parser, query string) ([]Block, error) {
	var blocks []Block
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			return blocks, parserError(parser)
		case css.EndAtRuleGrammar:
			p.log.Debug("Parsed @media block", zap.String("query", query), zap.Int("rules", len(blocks)))
			return blocks, nil
		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			selector := selectorText(data, parser.Values())
			decls, err := parseDeclarations(parser)
			blocks = append(blocks, Block{Media: query, Selector: selector, Declarations: decls})
			if err != nil {
				return blocks, err
			}
		}
	}
}

// parseDeclarations collects declarations until EndRulesetGrammar.
func parseDeclarations(parser *css.Parser) ([]Declaration, error) {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			return decls, parserError(parser)
		case css.EndRulesetGrammar:
			return decls, nil
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			values, important := stripImportant(parser.Values())
			decls = append(decls, Declaration{
				Property:  strings.ToLower(string(data)),
				Value:     joinTokens(values),
				Important: important,
			})
		}
	}
}

// stripImportant removes a trailing "!important" from declaration tokens.
func stripImportant(tokens []css.Token) ([]css.Token, bool) {
	end := len(tokens)
	for end > 0 && tokens[end-1].TokenType == css.WhitespaceToken {
		end--
	}
	if end < 2 {
		return tokens, false
	}
	last, bang := tokens[end-1], tokens[end-2]
	if last.TokenType != css.IdentToken || !strings.EqualFold(string(last.Data), "important") {
		return tokens, false
	}
	if bang.TokenType != css.DelimToken || string(bang.Data) != "!" {
		return tokens, false
	}
	return tokens[:end-2], true
}

// selectorText builds the selector string from token data and values,
// whitespace is collapsed.
func selectorText(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// joinTokens rebuilds raw text from tokens, runs of whitespace become a
// single space.
func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	space := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			space = sb.Len() > 0
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func skipAtRuleBlock(parser *css.Parser) error {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return parserError(parser)
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
	return nil
}

func parserError(parser *css.Parser) error {
	err := parser.Err()
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("unable to parse stylesheet: %w", err)
}
