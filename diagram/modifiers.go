package diagram

import (
	"strings"

	"github.com/dhamidi/jdiagram/element"
)

// modifierSymbol maps a modifier to its PlantUML notation. final has no
// notation and maps to the empty string; modifiers without a notation keep
// their literal name.
func modifierSymbol(m element.Modifier) string {
	switch m {
	case element.ModPublic:
		return "+"
	case element.ModPrivate:
		return "-"
	case element.ModProtected:
		return "#"
	case element.ModDefault:
		return "~"
	case element.ModAbstract:
		return "{abstract}"
	case element.ModStatic:
		return "{static}"
	case element.ModFinal:
		return ""
	default:
		return string(m)
	}
}

// modifierPrefix renders modifiers in declaration order, separated by a
// space, with empty symbols dropped.
func modifierPrefix(modifiers []element.Modifier) string {
	symbols := make([]string, 0, len(modifiers))
	for _, m := range modifiers {
		if s := modifierSymbol(m); s != "" {
			symbols = append(symbols, s)
		}
	}
	return strings.Join(symbols, " ")
}
