package memdb

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mdbgo/mdbsql/engine"
)

// The query language is the engine's SELECT subset:
//
//	SELECT * | col [, col ...] FROM table
//	  [WHERE cond [AND|OR cond ...]] [LIMIT n]
//
// where cond is: col = | <> | != | < | > | <= | >= | LIKE literal,
// or col IS [NOT] NULL.

type tokenType int

const (
	tokIdentifier tokenType = iota
	tokString
	tokNumber
	tokSymbol // , * ( )
	tokOperator
	tokKeyword
	tokEOF
)

type token struct {
	typ   tokenType
	value string
}

var keywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"is": true, "not": true, "null": true, "like": true, "limit": true,
}

func tokenize(query string) ([]token, error) {
	var tokens []token
	runes := []rune(query)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r) || r == ';':
			i++
		case r == ',' || r == '*' || r == '(' || r == ')':
			tokens = append(tokens, token{tokSymbol, string(r)})
			i++
		case r == '=' || r == '<' || r == '>' || r == '!':
			op := string(r)
			if i+1 < len(runes) && (runes[i+1] == '=' || runes[i+1] == '>') {
				op += string(runes[i+1])
				i++
			}
			tokens = append(tokens, token{tokOperator, op})
			i++
		case r == '\'':
			i++
			var b strings.Builder
			for {
				if i >= len(runes) {
					return nil, fmt.Errorf("unterminated string literal")
				}
				if runes[i] == '\'' {
					// '' is an escaped quote inside the literal
					if i+1 < len(runes) && runes[i+1] == '\'' {
						b.WriteRune('\'')
						i += 2
						continue
					}
					i++
					break
				}
				b.WriteRune(runes[i])
				i++
			}
			tokens = append(tokens, token{tokString, b.String()})
		case unicode.IsDigit(r) || (r == '-' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			start := i
			i++
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokNumber, string(runes[start:i])})
		case unicode.IsLetter(r) || r == '_' || r == '[' || r == '"':
			if r == '[' || r == '"' {
				// bracket/double-quoted identifier, e.g. [Order Details]
				closer := ']'
				if r == '"' {
					closer = '"'
				}
				i++
				start := i
				for i < len(runes) && runes[i] != closer {
					i++
				}
				if i >= len(runes) {
					return nil, fmt.Errorf("unterminated quoted identifier")
				}
				tokens = append(tokens, token{tokIdentifier, string(runes[start:i])})
				i++
				continue
			}
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			word := string(runes[start:i])
			if keywords[strings.ToLower(word)] {
				tokens = append(tokens, token{tokKeyword, strings.ToLower(word)})
			} else {
				tokens = append(tokens, token{tokIdentifier, word})
			}
		default:
			return nil, fmt.Errorf("unexpected character %q in query", r)
		}
	}
	return append(tokens, token{tokEOF, ""}), nil
}

type compareOp int

const (
	opEquals compareOp = iota
	opNotEquals
	opLessThan
	opGreaterThan
	opLessOrEqual
	opGreaterOrEqual
	opLike
	opIsNull
	opIsNotNull
)

type logicalOp int

const (
	logicalAnd logicalOp = iota
	logicalOr
)

type condition struct {
	column string
	op     compareOp
	value  string
}

type selectStmt struct {
	columns    []string // empty means *
	table      string
	conditions []condition
	logicalOps []logicalOp
	limit      int // 0 means no limit
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expectKeyword(kw string) error {
	t := p.next()
	if t.typ != tokKeyword || t.value != kw {
		return fmt.Errorf("expected %s near %q", strings.ToUpper(kw), t.value)
	}
	return nil
}

func parseSelect(query string) (*selectStmt, error) {
	tokens, err := tokenize(query)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}

	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}

	stmt := &selectStmt{}

	if p.peek().typ == tokSymbol && p.peek().value == "*" {
		p.next()
	} else {
		for {
			t := p.next()
			if t.typ != tokIdentifier {
				return nil, fmt.Errorf("expected column name near %q", t.value)
			}
			stmt.columns = append(stmt.columns, t.value)
			if p.peek().typ == tokSymbol && p.peek().value == "," {
				p.next()
				continue
			}
			break
		}
	}

	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}

	t := p.next()
	if t.typ != tokIdentifier {
		return nil, fmt.Errorf("expected table name near %q", t.value)
	}
	stmt.table = t.value

	if p.peek().typ == tokKeyword && p.peek().value == "where" {
		p.next()
		if err := p.parseConditions(stmt); err != nil {
			return nil, err
		}
	}

	if p.peek().typ == tokKeyword && p.peek().value == "limit" {
		p.next()
		t := p.next()
		if t.typ != tokNumber {
			return nil, fmt.Errorf("expected LIMIT count near %q", t.value)
		}
		n, err := strconv.Atoi(t.value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid LIMIT count %q", t.value)
		}
		stmt.limit = n
	}

	if t := p.peek(); t.typ != tokEOF {
		return nil, fmt.Errorf("unexpected token %q after statement", t.value)
	}
	return stmt, nil
}

func (p *parser) parseConditions(stmt *selectStmt) error {
	for {
		cond, err := p.parseCondition()
		if err != nil {
			return err
		}
		stmt.conditions = append(stmt.conditions, cond)

		t := p.peek()
		if t.typ == tokKeyword && t.value == "and" {
			p.next()
			stmt.logicalOps = append(stmt.logicalOps, logicalAnd)
			continue
		}
		if t.typ == tokKeyword && t.value == "or" {
			p.next()
			stmt.logicalOps = append(stmt.logicalOps, logicalOr)
			continue
		}
		return nil
	}
}

func (p *parser) parseCondition() (condition, error) {
	t := p.next()
	if t.typ != tokIdentifier {
		return condition{}, fmt.Errorf("expected column name near %q", t.value)
	}
	cond := condition{column: t.value}

	t = p.next()
	switch {
	case t.typ == tokKeyword && t.value == "is":
		negated := false
		if p.peek().typ == tokKeyword && p.peek().value == "not" {
			p.next()
			negated = true
		}
		if err := p.expectKeyword("null"); err != nil {
			return condition{}, err
		}
		if negated {
			cond.op = opIsNotNull
		} else {
			cond.op = opIsNull
		}
		return cond, nil

	case t.typ == tokKeyword && t.value == "like":
		cond.op = opLike

	case t.typ == tokOperator:
		switch t.value {
		case "=":
			cond.op = opEquals
		case "<>", "!=":
			cond.op = opNotEquals
		case "<":
			cond.op = opLessThan
		case ">":
			cond.op = opGreaterThan
		case "<=":
			cond.op = opLessOrEqual
		case ">=":
			cond.op = opGreaterOrEqual
		default:
			return condition{}, fmt.Errorf("unsupported operator %q", t.value)
		}

	default:
		return condition{}, fmt.Errorf("expected comparison operator near %q", t.value)
	}

	t = p.next()
	if t.typ != tokString && t.typ != tokNumber && t.typ != tokIdentifier {
		return condition{}, fmt.Errorf("expected literal value near %q", t.value)
	}
	cond.value = t.value
	return cond, nil
}

// matches evaluates the WHERE clause against one row. Conditions are
// combined left to right through the recorded AND/OR operators.
func (s *selectStmt) matches(def engine.TableDef, row []cell) (bool, error) {
	if len(s.conditions) == 0 {
		return true, nil
	}

	result, err := evaluateCondition(def, row, s.conditions[0])
	if err != nil {
		return false, err
	}

	for i := 1; i < len(s.conditions); i++ {
		next, err := evaluateCondition(def, row, s.conditions[i])
		if err != nil {
			return false, err
		}
		switch s.logicalOps[i-1] {
		case logicalAnd:
			result = result && next
		case logicalOr:
			result = result || next
		}
	}
	return result, nil
}

func evaluateCondition(def engine.TableDef, row []cell, cond condition) (bool, error) {
	i := columnIndex(def, cond.column)
	if i < 0 {
		return false, fmt.Errorf("Column %s not found", cond.column)
	}
	c := row[i]

	switch cond.op {
	case opIsNull:
		return c.null, nil
	case opIsNotNull:
		return !c.null, nil
	}

	if c.null {
		return false, nil
	}

	switch cond.op {
	case opEquals:
		return compareValues(c.text, cond.value) == 0, nil
	case opNotEquals:
		return compareValues(c.text, cond.value) != 0, nil
	case opLessThan:
		return compareValues(c.text, cond.value) < 0, nil
	case opGreaterThan:
		return compareValues(c.text, cond.value) > 0, nil
	case opLessOrEqual:
		return compareValues(c.text, cond.value) <= 0, nil
	case opGreaterOrEqual:
		return compareValues(c.text, cond.value) >= 0, nil
	case opLike:
		return matchLike(c.text, cond.value), nil
	}
	return false, nil
}

// compareValues compares numerically when both sides parse as numbers,
// falling back to string comparison.
func compareValues(a, b string) int {
	aNum, aErr := strconv.ParseFloat(a, 64)
	bNum, bErr := strconv.ParseFloat(b, 64)

	if aErr == nil && bErr == nil {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// matchLike performs LIKE matching with % wildcards at either end.
func matchLike(value, pattern string) bool {
	if pattern == "%" {
		return true
	}

	switch {
	case strings.HasPrefix(pattern, "%") && strings.HasSuffix(pattern, "%") && len(pattern) >= 2:
		return strings.Contains(strings.ToLower(value), strings.ToLower(pattern[1:len(pattern)-1]))
	case strings.HasPrefix(pattern, "%"):
		return strings.HasSuffix(strings.ToLower(value), strings.ToLower(pattern[1:]))
	case strings.HasSuffix(pattern, "%"):
		return strings.HasPrefix(strings.ToLower(value), strings.ToLower(pattern[:len(pattern)-1]))
	}
	return strings.EqualFold(value, pattern)
}
