package css

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"stylo/common"
)

// Parser parses CSS stylesheets into structured rules.
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

// Parse parses CSS text into a Stylesheet. Only simple selectors survive,
// everything else is reported in Warnings.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Rules:    make([]Rule, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	var selectors []string
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(err))
				sheet.Warnings = append(sheet.Warnings, "parse error: "+err.Error())
			}
			return sheet

		case css.BeginAtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "unsupported at-rule block: "+string(data))
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))
			p.skipAtRuleBlock(parser)

		case css.AtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+string(data))
			p.log.Debug("Skipping @-rule", zap.String("rule", string(data)))

		case css.QualifiedRuleGrammar:
			// one of several comma separated selectors, ruleset follows
			selectors = append(selectors, p.parseSelectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors = append(selectors, p.parseSelectors(data, parser.Values())...)
			props := p.parseDeclarations(parser)
			for _, selStr := range selectors {
				sel, ok := p.parseSelector(selStr, sheet)
				if !ok {
					continue
				}
				sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Properties: props.Clone()})
			}
			selectors = nil
		}
	}
}

// ParseValue classifies a raw property value the same way declarations are
// classified by Parse.
func ParseValue(raw string) Value {
	lexer := css.NewLexer(parse.NewInputString(raw))
	var tokens []css.Token
	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		tokens = append(tokens, css.Token{TokenType: tt, Data: bytes.Clone(data)})
	}
	// drop leading and trailing whitespace tokens
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	val := parsePropertyValue(tokens)
	if val.Raw == "" {
		val.Raw = strings.TrimSpace(raw)
	}
	return val
}

// parseSelectors extracts selector strings from token data.
func (p *Parser) parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) Properties {
	props := make(Properties)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return props

		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) > 0 {
				props[strings.ToLower(string(data))] = parsePropertyValue(values)
			}

		case css.CustomPropertyGrammar:
			// custom properties are passed through verbatim
			props[string(data)] = Value{Raw: strings.TrimSpace(tokensToRaw(parser.Values()))}
		}
	}
}

// tokensToRaw joins token data collapsing whitespace runs into single space.
// Separators get canonical spacing, ", " and "/" and " !", so that text
// written by Stylesheet reads back unchanged: declaration values coming from
// the parser have whitespace around them removed, values from ParseValue keep it.
func tokensToRaw(tokens []css.Token) string {
	var sb strings.Builder
	space := false
	for _, t := range tokens {
		switch {
		case t.TokenType == css.WhitespaceToken:
			space = sb.Len() > 0
		case t.TokenType == css.CommaToken:
			sb.WriteByte(',')
			space = true
		case t.TokenType == css.DelimToken && string(t.Data) == "/":
			sb.WriteByte('/')
			space = false
		case t.TokenType == css.DelimToken && string(t.Data) == "!":
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte('!')
			space = false
		default:
			if space {
				sb.WriteByte(' ')
			}
			sb.Write(t.Data)
			space = false
		}
	}
	return sb.String()
}

// parsePropertyValue converts CSS tokens to a Value.
func parsePropertyValue(tokens []css.Token) Value {
	if len(tokens) == 0 {
		return Value{}
	}

	raw := tokensToRaw(tokens)
	val := Value{Raw: raw}

	if len(tokens) == 1 || (len(tokens) == 2 && tokens[1].TokenType == css.WhitespaceToken) {
		t := tokens[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			// Color value
			val.Keyword = string(t.Data)
		}
		return val
	}

	// functions (rgb(), var(), url()) and multi-value properties keep raw text
	val.Keyword = raw
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}

	if numEnd == 0 {
		return 0, ""
	}

	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

// parseSelector parses a single selector string. Compound and complex
// selectors are rejected with a warning.
func (p *Parser) parseSelector(selStr string, sheet *Stylesheet) (Selector, bool) {
	selStr = strings.TrimSpace(selStr)
	sel := Selector{Raw: selStr}

	switch {
	case strings.ContainsAny(selStr, "+~>"):
		sheet.Warnings = append(sheet.Warnings, "unsupported combinator selector: "+selStr)
		p.log.Debug("Skipping combinator selector", zap.String("selector", selStr))
		return sel, false
	case strings.Contains(selStr, "["):
		sheet.Warnings = append(sheet.Warnings, "unsupported attribute selector: "+selStr)
		p.log.Debug("Skipping attribute selector", zap.String("selector", selStr))
		return sel, false
	case strings.ContainsAny(selStr, " \t\n"):
		sheet.Warnings = append(sheet.Warnings, "unsupported descendant selector: "+selStr)
		p.log.Debug("Skipping descendant selector", zap.String("selector", selStr))
		return sel, false
	}

	remaining := selStr
	if before, pseudo, found := strings.Cut(remaining, "::"); found {
		remaining = before
		switch strings.ToLower(pseudo) {
		case "before":
			sel.Pseudo = PseudoBefore
		case "after":
			sel.Pseudo = PseudoAfter
		default:
			sheet.Warnings = append(sheet.Warnings, "unsupported pseudo-element: "+selStr)
			p.log.Debug("Skipping unsupported pseudo-element", zap.String("selector", selStr))
			return sel, false
		}
	}

	if before, pseudo, found := strings.Cut(remaining, ":"); found {
		remaining = before
		state, legacy, _ := strings.Cut(pseudo, ":")
		switch strings.ToLower(state) {
		case "before":
			// old single colon pseudo-element syntax
			sel.Pseudo = PseudoBefore
		case "after":
			sel.Pseudo = PseudoAfter
		default:
			sel.State = common.State(strings.ToLower(state))
			switch strings.ToLower(legacy) {
			case "":
			case "before":
				sel.Pseudo = PseudoBefore
			case "after":
				sel.Pseudo = PseudoAfter
			default:
				sheet.Warnings = append(sheet.Warnings, "unsupported chained pseudo-class: "+selStr)
				return sel, false
			}
		}
	}

	if remaining == "" {
		sheet.Warnings = append(sheet.Warnings, "unsupported universal pseudo selector: "+selStr)
		return sel, false
	}

	element, class, found := strings.Cut(remaining, ".")
	if !found {
		sel.Element = remaining
		return sel, true
	}
	if strings.Contains(class, ".") {
		sheet.Warnings = append(sheet.Warnings, "unsupported compound class selector: "+selStr)
		p.log.Debug("Skipping compound class selector", zap.String("selector", selStr))
		return sel, false
	}
	sel.Element = element
	sel.Class = class
	return sel, class != "" || element != ""
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
