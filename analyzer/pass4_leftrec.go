package analyzer

import (
	"github.com/dekarrin/floyd/ast"
	"github.com/dekarrin/floyd/grammar"
)

// detectLeftRecursion computes the call graph of leftmost `apply` edges
// between rules, finds every strongly-connected set via Tarjan's algorithm,
// and wraps the body of every rule in such a set with a `leftrec` node
// (§4.3 pass 4). Associativity defaults to left, per spec; a rule-specific
// override would come from a `%assoc RuleName right` declaration, which
// this grammar does not define a syntax for (§4.2 only assigns `%assoc` to
// operator literals), so every leftrec wrapper here is left-associative.
func detectLeftRecursion(g *grammar.Grammar) error {
	edges := map[string][]string{}
	for _, name := range g.RuleOrder {
		edges[name] = leftmostApplies(g.Rules[name])
	}

	sccs := tarjanSCCs(g.RuleOrder, edges)
	for _, scc := range sccs {
		if len(scc) > 1 {
			for _, name := range scc {
				markLeftRec(g, name, true)
			}
			continue
		}
		name := scc[0]
		for _, target := range edges[name] {
			if target == name {
				markLeftRec(g, name, true)
				break
			}
		}
	}
	return nil
}

func markLeftRec(g *grammar.Grammar, name string, leftAssoc bool) {
	if g.LeftRec == nil {
		g.LeftRec = map[string]bool{}
	}
	g.LeftRec[name] = leftAssoc
	body := g.Rules[name]
	wrapped := ast.New(ast.KindLeftrec, body)
	wrapped.V.Str = name
	wrapped.V.Bool = leftAssoc
	wrapped.Span = body.Span
	g.Rules[name] = wrapped
}

// leftmostApplies returns the set of rule names reachable as the very first
// consuming position of n, without descending through negative lookahead
// (`not`/`not_one`) or `ends_in`, which do not represent recursive descent
// into a rule in the ordinary sense.
func leftmostApplies(n *ast.Node) []string {
	switch n.Kind {
	case ast.KindApply:
		return []string{n.V.Str}
	case ast.KindSeq:
		if len(n.Ch) == 0 {
			return nil
		}
		return leftmostApplies(n.Ch[0])
	case ast.KindChoice:
		var out []string
		for _, c := range n.Ch {
			out = append(out, leftmostApplies(c)...)
		}
		return out
	case ast.KindParen, ast.KindLabel, ast.KindOpt, ast.KindStar, ast.KindPlus, ast.KindCount, ast.KindRun:
		if len(n.Ch) == 0 {
			return nil
		}
		return leftmostApplies(n.Ch[0])
	default:
		return nil
	}
}

// tarjanSCCs computes strongly-connected components of the directed graph
// described by edges, restricted to and ordered by nodes. Each returned SCC
// preserves discovery order.
func tarjanSCCs(nodes []string, edges map[string][]string) [][]string {
	index := map[string]int{}
	low := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	counter := 0
	var sccs [][]string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = counter
		low[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range edges[v] {
			if _, ok := index[w]; !ok {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if index[w] < low[v] {
					low[v] = index[w]
				}
			}
		}

		if low[v] == index[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range nodes {
		if _, ok := index[v]; !ok {
			strongconnect(v)
		}
	}
	return sccs
}
