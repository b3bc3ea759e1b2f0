// Package ifc implements the ISO-10303-21 STEP reader: a streaming lexer,
// an entity registry, a parameter-grammar parser, a placement/bounding-box
// resolver, and a relationship extractor, per 4.A-4.D.
package ifc

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	arxerrors "github.com/arx-os/arxos/pkg/errors"
)

const (
	maxFileSize  = 500 * 1024 * 1024
	warnFileSize = 100 * 1024 * 1024
)

// EntityLine is one tokenized `#<id> = <TYPE>(<params>);` statement.
type EntityLine struct {
	ID     uint64
	Type   string
	Params string
	Line   int
}

// Lexer streams entity-definition lines out of an ISO-10303-21 byte stream.
type Lexer struct {
	scanner   *bufio.Scanner
	lineNo    int
	inData    bool
	sawHeader bool
	bytesRead int64
	warned    bool
}

// NewLexer wraps r. size, when known (>0), is checked against the 500MB
// hard limit up front; pass 0 when the size is unknown.
func NewLexer(r io.Reader, size int64) (*Lexer, error) {
	if size > maxFileSize {
		return nil, arxerrors.FileTooLarge("", size, maxFileSize)
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Lexer{scanner: s}, nil
}

// Warned reports whether the stream has exceeded the 100MB soft warning
// threshold; callers surface this as a one-time warning per 4.A/5.
func (l *Lexer) Warned() bool { return l.warned }

// Next returns the next entity line, or (nil, nil) at end of DATA section,
// or a parsing error.
func (l *Lexer) Next() (*EntityLine, error) {
	var buf strings.Builder
	collecting := false
	startLine := 0

	for l.scanner.Scan() {
		l.lineNo++
		raw := l.scanner.Text()
		l.bytesRead += int64(len(raw)) + 1
		if l.bytesRead > maxFileSize {
			return nil, arxerrors.FileTooLarge("", l.bytesRead, maxFileSize)
		}
		if !l.warned && l.bytesRead > warnFileSize {
			l.warned = true
		}

		line := stripComments(strings.TrimSpace(raw))
		if line == "" {
			continue
		}

		if !l.sawHeader {
			if strings.HasPrefix(line, "ISO-10303-21") {
				l.sawHeader = true
			}
			continue
		}
		if !l.inData {
			if line == "DATA;" {
				l.inData = true
			}
			continue
		}
		if line == "ENDSEC;" {
			return nil, nil
		}

		if collecting {
			buf.WriteByte('\n')
			buf.WriteString(line)
		} else {
			if !strings.HasPrefix(line, "#") {
				continue
			}
			buf.WriteString(line)
			collecting = true
			startLine = l.lineNo
		}

		if balancedAndTerminated(buf.String()) {
			entity, err := parseEntityLine(buf.String(), startLine)
			if err != nil {
				return nil, err
			}
			return entity, nil
		}
	}

	if err := l.scanner.Err(); err != nil {
		return nil, arxerrors.Wrap(arxerrors.KindInvalidFormat, "reading IFC stream", err)
	}
	if !l.sawHeader {
		return nil, arxerrors.InvalidFormat("", "missing ISO-10303-21 header")
	}
	if collecting {
		return nil, arxerrors.ParsingError("", startLine, "unterminated entity line")
	}
	return nil, nil
}

// stripComments removes /* ... */ comments, including ones that span the
// line. It does not attempt to track comments spanning multiple calls;
// callers only need single-line comment stripping since entity statements
// do not legally contain embedded comments in practice.
func stripComments(line string) string {
	for {
		start := strings.Index(line, "/*")
		if start < 0 {
			return line
		}
		end := strings.Index(line[start:], "*/")
		if end < 0 {
			return line[:start]
		}
		line = line[:start] + line[start+end+2:]
	}
}

// balancedAndTerminated reports whether s contains balanced parentheses
// (respecting string literals) and ends with a terminating ';'.
func balancedAndTerminated(s string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' && !inString:
			inString = true
		case c == '\'' && inString:
			inString = false
		case c == '(' && !inString:
			depth++
		case c == ')' && !inString:
			depth--
		}
	}
	trimmed := strings.TrimSpace(s)
	return depth == 0 && !inString && strings.HasSuffix(trimmed, ";")
}

func parseEntityLine(s string, lineNo int) (*EntityLine, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	eq := strings.Index(s, "=")
	if eq < 0 || !strings.HasPrefix(s, "#") {
		return nil, arxerrors.ParsingError("", lineNo, "malformed entity line: missing '#id ='")
	}
	idStr := strings.TrimSpace(s[1:eq])
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil, arxerrors.ParsingError("", lineNo, "malformed entity id: "+idStr)
	}
	rest := strings.TrimSpace(s[eq+1:])
	open := strings.Index(rest, "(")
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return nil, arxerrors.ParsingError("", lineNo, "malformed entity body for #"+idStr)
	}
	entityType := strings.ToUpper(strings.TrimSpace(rest[:open]))
	params := rest[open+1 : len(rest)-1]
	return &EntityLine{ID: id, Type: entityType, Params: params, Line: lineNo}, nil
}
