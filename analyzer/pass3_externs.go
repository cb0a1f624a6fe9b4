package analyzer

import (
	"github.com/dekarrin/floyd/grammar"
)

// validateExterns checks every declared extern has one of the three known
// kinds (§4.3 pass 3). Overriding a built-in name is always permitted: an
// extern shadows the built-in of the same name for the rest of analysis and
// interpretation (resolveIdentifiers already prefers externs over
// functions).
func validateExterns(g *grammar.Grammar) error {
	for name, ext := range g.Externs {
		switch ext.Kind {
		case grammar.ExternConst, grammar.ExternFunc, grammar.ExternPFunc:
			// valid
		default:
			return grammarErr(nil, 0, "extern %q declares an unknown kind", name)
		}
	}
	return nil
}
