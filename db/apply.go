package db

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uptrace/bun"
)

// ApplyScript executes one generated sync script against the mirror and
// returns the number of statements run. A failing statement stops the apply;
// the script is idempotent, so a rerun after fixing the cause is safe.
func ApplyScript(ctx context.Context, db *bun.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	stmts, err := splitStatements(f)
	if err != nil {
		return 0, err
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return i, fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return len(stmts), nil
}

// splitStatements splits a generated script into statements. The generator
// writes one statement per line except where a quoted literal carries
// embedded newlines (multi-line arrangement text), so lines accumulate until
// quote parity closes and the statement ends with a semicolon. Doubled
// quotes toggle parity twice and cancel out.
func splitStatements(r io.Reader) ([]string, error) {
	var stmts []string
	var cur strings.Builder
	inQuote := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		// Blank lines and comments only count between statements; inside a
		// quoted literal they are content.
		if cur.Len() == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
		}

		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)

		for _, c := range line {
			if c == '\'' {
				inQuote = !inQuote
			}
		}
		if inQuote {
			continue
		}
		if stmt := strings.TrimSpace(cur.String()); strings.HasSuffix(stmt, ";") {
			stmts = append(stmts, stmt)
			cur.Reset()
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		return nil, fmt.Errorf("unterminated statement: %.60q", rest)
	}
	return stmts, nil
}
