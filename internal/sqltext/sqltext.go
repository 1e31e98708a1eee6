// Package sqltext provides escaping, quoting, and naming helpers shared by
// the SQL-emitting packages. All literal values pass through QuoteLiteral so
// that caller-controlled text can never terminate a quoted SQL string.
package sqltext

import "strings"

// EscapeString escapes single quotes in a string value for SQL.
func EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// QuoteLiteral returns a SQL string literal with proper escaping.
func QuoteLiteral(s string) string {
	return "'" + EscapeString(s) + "'"
}

// QuoteIdentifier returns a quoted identifier if needed.
// PostgreSQL uses double quotes for identifiers.
func QuoteIdentifier(name string) string {
	if needsQuoting(name) {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return name
}

// QuoteQualifiedIdentifier quotes a possibly schema-qualified name
// ("schema.view") part by part.
func QuoteQualifiedIdentifier(name string) string {
	if !strings.Contains(name, ".") {
		return QuoteIdentifier(name)
	}
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

// needsQuoting returns true if the identifier needs quoting.
func needsQuoting(name string) bool {
	if len(name) == 0 {
		return true
	}

	c := name[0]
	if !isLetter(c) && c != '_' {
		return true
	}

	for i := 1; i < len(name); i++ {
		c = name[i]
		if !isLetter(c) && !isDigit(c) && c != '_' {
			return true
		}
	}

	if _, ok := reservedWords[strings.ToUpper(name)]; ok {
		return true
	}

	return false
}

// reservedWords is a simplified list of PostgreSQL reserved keywords.
var reservedWords = map[string]struct{}{
	"SELECT": {}, "FROM": {}, "WHERE": {}, "AND": {}, "OR": {}, "NOT": {},
	"NULL": {}, "TRUE": {}, "FALSE": {}, "INSERT": {}, "UPDATE": {},
	"DELETE": {}, "CREATE": {}, "DROP": {}, "ALTER": {}, "TABLE": {},
	"INDEX": {}, "JOIN": {}, "LEFT": {}, "RIGHT": {}, "INNER": {},
	"OUTER": {}, "ON": {}, "AS": {}, "IN": {}, "IS": {}, "LIKE": {},
	"ILIKE": {}, "BETWEEN": {}, "EXISTS": {}, "CASE": {}, "WHEN": {},
	"THEN": {}, "ELSE": {}, "END": {}, "ORDER": {}, "BY": {}, "GROUP": {},
	"HAVING": {}, "LIMIT": {}, "OFFSET": {}, "UNION": {}, "EXCEPT": {},
	"INTERSECT": {}, "ALL": {}, "DISTINCT": {}, "VALUES": {}, "SET": {},
	"INTO": {}, "PRIMARY": {}, "KEY": {}, "FOREIGN": {}, "REFERENCES": {},
	"CONSTRAINT": {}, "DEFAULT": {}, "CHECK": {}, "UNIQUE": {}, "ASC": {},
	"DESC": {}, "NULLS": {}, "FIRST": {}, "LAST": {}, "CAST": {},
	"INTERVAL": {}, "DATE": {}, "TIME": {}, "TIMESTAMP": {}, "RETURNING": {},
	"USING": {}, "COLLATE": {}, "LATERAL": {}, "WINDOW": {},
}

// isLetter returns true if c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDigit returns true if c is an ASCII digit.
func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ToSnake converts a camelCase name to snake_case.
// API field names arrive in camelCase while document keys are stored in
// their original snake_case form; this reverses the conversion for key access.
func ToSnake(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteByte(c - 'A' + 'a')
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
