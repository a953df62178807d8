package queryeval

import (
	"fmt"
	"strconv"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// CANONICAL QUERY-STRING KEY
// ═══════════════════════════════════════════════════════════════════════════
// Parsing a query string into a node tree happens elsewhere; this file only
// writes the canonical `#op[params](children)` string a node would parse
// back to, the format the shared-node-elimination phase uses as a map key.
// Special characters are escaped with a backslash: `# ( ) [ ] , \`.
// ═══════════════════════════════════════════════════════════════════════════

var canonicalEscaper = strings.NewReplacer(
	`\`, `\\`,
	"#", `\#`,
	"(", `\(`,
	")", `\)`,
	"[", `\[`,
	"]", `\]`,
	",", `\,`,
)

// escapeLiteral escapes a literal string (a token, a pattern) for embedding
// inside a canonical key.
func escapeLiteral(s string) string { return canonicalEscaper.Replace(s) }

// buildKey assembles `#name[params](children)`, omitting the brackets of an
// empty parameter list; the child list's parens are always written, even
// when there are no children.
func buildKey(name string, params []string, children []string) string {
	var b strings.Builder
	b.WriteByte('#')
	b.WriteString(name)
	if len(params) > 0 {
		b.WriteByte('[')
		b.WriteString(strings.Join(params, ","))
		b.WriteByte(']')
	}
	b.WriteByte('(')
	b.WriteString(strings.Join(children, ","))
	b.WriteByte(')')
	return b.String()
}

// childKeys resolves a node's children to their canonical keys, in order.
func childKeys(q *Query, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = q.node(id).CanonicalKey(q)
	}
	return out
}

func combinerParam(c ScoreCombiner) string {
	if c == nil {
		return ""
	}
	return c.Name()
}

func negatorParam(n ScoreNegator) string {
	if n == nil {
		return ""
	}
	return n.Name()
}

func calculatorParam(c ScoreCalculator) string {
	if c == nil {
		return ""
	}
	return c.GetDescription(true)
}

func floatParam(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func intParam(i int) string { return fmt.Sprintf("%d", i) }
