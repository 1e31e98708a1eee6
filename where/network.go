package where

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/fraiseql/fraiseql-go/internal/sqltext"
)

// privateBlocks are the address blocks treated as private by the
// isPrivate and isPublic operators: RFC 1918 plus link-local.
var privateBlocks = []string{
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"169.254.0.0/16",
}

// networkStrategy handles fields declared as IP addresses or subnets.
// Values are validated as addresses or prefixes before they reach SQL
// text, and the text-matching operators are rejected outright: an inet
// column has no meaningful LIKE semantics.
type networkStrategy struct {
	declared DeclaredType
	generic  genericStrategy
}

func newNetworkStrategy(dt DeclaredType) networkStrategy {
	return networkStrategy{declared: dt, generic: genericStrategy{declared: dt}}
}

func (s networkStrategy) build(acc Accessor, op string, value any) (string, error) {
	switch op {
	case "inSubnet":
		return s.inSubnet(acc, op, value)
	case "inRange":
		return s.inRange(acc, op, value)
	case "isPrivate":
		return s.privateTest(acc, op, value, false)
	case "isPublic":
		return s.privateTest(acc, op, value, true)
	case "isIPv4":
		return s.familyTest(acc, op, value, 4)
	case "isIPv6":
		return s.familyTest(acc, op, value, 6)
	case "contains_ip":
		return s.containsIP(acc, op, value)
	case "like", "ilike", "startswith", "istartswith", "endswith", "iendswith",
		"contains", "icontains", "matches":
		return "", &UnsupportedOperatorError{Operator: op, Type: s.declared}
	case "isnull":
		return s.generic.build(acc, op, value)
	case "in", "notin":
		items, ok := value.([]any)
		if !ok {
			return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a list"}
		}
		for _, item := range items {
			if _, err := s.parseLiteral(op, item); err != nil {
				return "", err
			}
		}
		return s.generic.build(acc, op, value)
	default:
		if _, ok := comparisonOps[op]; !ok {
			return "", &UnsupportedOperatorError{Operator: op, Type: s.declared}
		}
		if _, err := s.parseLiteral(op, value); err != nil {
			return "", err
		}
		return s.generic.build(acc, op, value)
	}
}

// parseLiteral validates a value against the declared type: addresses for
// ip_address fields, prefixes for cidr fields.
func (s networkStrategy) parseLiteral(op string, value any) (string, error) {
	str, ok := value.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a string"}
	}
	if s.declared == TypeCIDR {
		if _, err := netip.ParsePrefix(str); err != nil {
			return "", &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("invalid subnet %q", str)}
		}
		return str, nil
	}
	if _, err := netip.ParseAddr(str); err != nil {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("invalid address %q", str)}
	}
	return str, nil
}

func (s networkStrategy) inSubnet(acc Accessor, op string, value any) (string, error) {
	str, ok := value.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a subnet string"}
	}
	if _, err := netip.ParsePrefix(str); err != nil {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("invalid subnet %q", str)}
	}
	return s.inetAccessor(acc) + " <<= " + sqltext.QuoteLiteral(str) + "::inet", nil
}

// inRange renders an inclusive address range test from a {"from", "to"}
// object.
func (s networkStrategy) inRange(acc Accessor, op string, value any) (string, error) {
	bounds, ok := value.(map[string]any)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: `value must be an object with "from" and "to"`}
	}
	from, err := s.rangeAddr(op, bounds, "from")
	if err != nil {
		return "", err
	}
	to, err := s.rangeAddr(op, bounds, "to")
	if err != nil {
		return "", err
	}
	target := s.inetAccessor(acc)
	return "(" + target + " >= " + sqltext.QuoteLiteral(from) + "::inet AND " +
		target + " <= " + sqltext.QuoteLiteral(to) + "::inet)", nil
}

func (s networkStrategy) rangeAddr(op string, bounds map[string]any, key string) (string, error) {
	raw, ok := bounds[key]
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("missing range bound %q", key)}
	}
	str, ok := raw.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("range bound %q must be an address string", key)}
	}
	if _, err := netip.ParseAddr(str); err != nil {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("invalid address %q in range bound %q", str, key)}
	}
	return str, nil
}

// privateTest renders the private-block membership chain. isPublic is the
// negation of isPrivate; a false operand flips either one.
func (s networkStrategy) privateTest(acc Accessor, op string, value any, public bool) (string, error) {
	want, ok := value.(bool)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a boolean"}
	}
	target := s.inetAccessor(acc)
	terms := make([]string, len(privateBlocks))
	for i, block := range privateBlocks {
		terms[i] = target + " <<= " + sqltext.QuoteLiteral(block) + "::inet"
	}
	chain := "(" + strings.Join(terms, " OR ") + ")"
	if public == want {
		return "NOT " + chain, nil
	}
	return chain, nil
}

func (s networkStrategy) familyTest(acc Accessor, op string, value any, family int) (string, error) {
	want, ok := value.(bool)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be a boolean"}
	}
	sqlOp := "="
	if !want {
		sqlOp = "!="
	}
	return fmt.Sprintf("family(%s) %s %d", s.inetAccessor(acc), sqlOp, family), nil
}

// containsIP tests whether a subnet field contains a given address.
func (s networkStrategy) containsIP(acc Accessor, op string, value any) (string, error) {
	str, ok := value.(string)
	if !ok {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: "value must be an address string"}
	}
	if _, err := netip.ParseAddr(str); err != nil {
		return "", &InvalidOperatorArgumentError{Operator: op, Reason: fmt.Sprintf("invalid address %q", str)}
	}
	return s.inetAccessor(acc) + " >>= " + sqltext.QuoteLiteral(str) + "::inet", nil
}

func (s networkStrategy) inetAccessor(acc Accessor) string {
	return acc.Text() + "::inet"
}
