// Package fixture builds a small, concretely-verifiable JSON-subset
// grammar and lexer, used only to produce bundled test/demo data for
// lrtab, lexdfa, lr1parse, and lr1constraint.
//
// A real deployment of this module receives an already-built lrtab.Table
// and lexdfa.DFA from an external parser-generator (see lrtab's and
// lexdfa's package docs: authoring grammar/lexer syntax and the item-set
// construction that lowers it to tables is explicitly out of this
// module's scope). That leaves a gap for tests and the cmd/constrainctl
// demo, which both need a real, nontrivial, *correct* LR(1) table to
// exercise against — and a hand-transcribed table of the size a useful
// grammar needs is exactly the kind of artifact that is easy to get
// subtly wrong and hard to notice.
//
// buildTable below is a compact, textbook canonical-LR(1)
// construction (FIRST sets, closure, goto, canonical collection) kept
// private to this fixture package. It exists solely to turn the
// grammar declarations in json.go into an lrtab.Table at runtime (the
// lexer is built directly with lexdfa.Builder); it is not exported,
// not a general grammar-authoring surface,
// and not part of the module's product API.
package fixture

import (
	"fmt"
	"sort"

	"github.com/coregx/constrain/lrtab"
)

// symRef names one symbol on a production's right-hand side, resolved
// against a grammar's terminals/nonterminals lists.
type symRef struct {
	terminal bool
	id       int
}

// prodDecl is one grammar rule as authored in json.go, before resolution.
type prodDecl struct {
	name string
	lhs  string
	rhs  []string
}

// grammar is a fully-resolved context-free grammar with no epsilon
// productions (every RHS has at least one symbol), the shape
// buildTable's construction assumes.
type grammar struct {
	terminals    []string // index = lrtab.TerminalID value
	nonterminals []string // index = lrtab.NonterminalID value
	start        int      // index into nonterminals
	prods        []resolvedProd
}

type resolvedProd struct {
	name string
	lhs  int
	rhs  []symRef
}

func resolveGrammar(terminals, nonterminals []string, start string, decls []prodDecl) (*grammar, error) {
	termIdx := make(map[string]int, len(terminals))
	for i, t := range terminals {
		termIdx[t] = i
	}
	ntIdx := make(map[string]int, len(nonterminals))
	for i, nt := range nonterminals {
		ntIdx[nt] = i
	}
	startIdx, ok := ntIdx[start]
	if !ok {
		return nil, fmt.Errorf("fixture: start symbol %q is not a declared nonterminal", start)
	}

	g := &grammar{terminals: terminals, nonterminals: nonterminals, start: startIdx}
	for _, d := range decls {
		lhs, ok := ntIdx[d.lhs]
		if !ok {
			return nil, fmt.Errorf("fixture: production %q: LHS %q is not a declared nonterminal", d.name, d.lhs)
		}
		if len(d.rhs) == 0 {
			return nil, fmt.Errorf("fixture: production %q: empty RHS is not supported", d.name)
		}
		rhs := make([]symRef, len(d.rhs))
		for i, name := range d.rhs {
			if id, ok := termIdx[name]; ok {
				rhs[i] = symRef{terminal: true, id: id}
				continue
			}
			if id, ok := ntIdx[name]; ok {
				rhs[i] = symRef{terminal: false, id: id}
				continue
			}
			return nil, fmt.Errorf("fixture: production %q: unknown symbol %q", d.name, name)
		}
		g.prods = append(g.prods, resolvedProd{name: d.name, lhs: lhs, rhs: rhs})
	}
	return g, nil
}

// eofID is the internal lookahead id standing in for lrtab.EOF, placed
// just past the real terminal range.
func (g *grammar) eofID() int { return len(g.terminals) }

// item is one LR(1) item: augmented=true means the implicit S' -> start
// production; otherwise prod indexes g.prods.
type item struct {
	augmented bool
	prod      int
	dot       int
	la        int
}

func (g *grammar) rhsLen(it item) int {
	if it.augmented {
		return 1
	}
	return len(g.prods[it.prod].rhs)
}

// symAt returns the symbol at it's dot position and ok=true, or
// ok=false if the dot is at the end of the production.
func (g *grammar) symAt(it item) (symRef, bool) {
	if it.augmented {
		if it.dot == 0 {
			return symRef{terminal: false, id: g.start}, true
		}
		return symRef{}, false
	}
	rhs := g.prods[it.prod].rhs
	if it.dot >= len(rhs) {
		return symRef{}, false
	}
	return rhs[it.dot], true
}

func (g *grammar) advance(it item) item {
	it.dot++
	return it
}

// firstSets computes FIRST(nonterminal) for every nonterminal, assuming
// no production has an empty RHS (true of every grammar this package
// declares): FIRST(A) is the union, over every A -> s beta, of {s} if s
// is a terminal or FIRST(s) if s is a nonterminal.
func (g *grammar) firstSets() [][]bool {
	first := make([][]bool, len(g.nonterminals))
	for i := range first {
		first[i] = make([]bool, len(g.terminals))
	}
	changed := true
	for changed {
		changed = false
		for _, p := range g.prods {
			s := p.rhs[0]
			if s.terminal {
				if !first[p.lhs][s.id] {
					first[p.lhs][s.id] = true
					changed = true
				}
				continue
			}
			for t := range g.terminals {
				if first[s.id][t] && !first[p.lhs][t] {
					first[p.lhs][t] = true
					changed = true
				}
			}
		}
	}
	return first
}

// firstOfSeq returns FIRST(symbols), falling back to {fallback} if
// symbols is empty. No production in this package's grammars is
// nullable, so the first symbol alone determines the result.
func (g *grammar) firstOfSeq(first [][]bool, symbols []symRef, fallback int) []int {
	if len(symbols) == 0 {
		return []int{fallback}
	}
	s := symbols[0]
	if s.terminal {
		return []int{s.id}
	}
	var out []int
	for t := range g.terminals {
		if first[s.id][t] {
			out = append(out, t)
		}
	}
	return out
}

func (g *grammar) closure(first [][]bool, items []item) []item {
	seen := make(map[item]bool, len(items)*2)
	var out []item
	queue := append([]item(nil), items...)
	for _, it := range queue {
		seen[it] = true
		out = append(out, it)
	}
	for i := 0; i < len(queue); i++ {
		it := queue[i]
		sym, ok := g.symAt(it)
		if !ok || sym.terminal {
			continue
		}
		var rest []symRef
		if it.augmented {
			rest = nil
		} else {
			rest = g.prods[it.prod].rhs[it.dot+1:]
		}
		las := g.firstOfSeq(first, rest, it.la)
		for pi, p := range g.prods {
			if p.lhs != sym.id {
				continue
			}
			for _, la := range las {
				ni := item{prod: pi, dot: 0, la: la}
				if !seen[ni] {
					seen[ni] = true
					out = append(out, ni)
					queue = append(queue, ni)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return itemLess(out[i], out[j]) })
	return out
}

func itemLess(a, b item) bool {
	if a.augmented != b.augmented {
		return !a.augmented
	}
	if a.prod != b.prod {
		return a.prod < b.prod
	}
	if a.dot != b.dot {
		return a.dot < b.dot
	}
	return a.la < b.la
}

func itemSetKey(items []item) string {
	var buf []byte
	for _, it := range items {
		buf = append(buf, fmt.Sprintf("%v,%d,%d,%d|", it.augmented, it.prod, it.dot, it.la)...)
	}
	return string(buf)
}

// symKey uniquely identifies a symbol for grouping goto transitions.
func symKey(s symRef) int64 {
	if s.terminal {
		return int64(s.id)
	}
	return -int64(s.id) - 1
}

// buildTable runs canonical LR(1) construction over g and lowers the
// result into an lrtab.Table.
func (g *grammar) buildTable() (*lrtab.Table, error) {
	first := g.firstSets()

	start := g.closure(first, []item{{augmented: true, dot: 0, la: g.eofID()}})
	states := [][]item{start}
	index := map[string]int{itemSetKey(start): 0}

	type actionCell struct {
		state    int
		terminal int // real terminal id, or eofID for EOF
		accept   bool
		shift    int
		reduce   int
		isReduce bool
		isShift  bool
	}
	var actions []actionCell
	type gotoCell struct {
		state   int
		nonterm int
		target  int
	}
	var gotos []gotoCell

	for si := 0; si < len(states); si++ {
		cur := states[si]
		bySym := make(map[int64][]item)
		var order []int64
		for _, it := range cur {
			sym, ok := g.symAt(it)
			if !ok {
				continue
			}
			k := symKey(sym)
			if _, seen := bySym[k]; !seen {
				order = append(order, k)
			}
			bySym[k] = append(bySym[k], g.advance(it))
		}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

		for _, k := range order {
			kernel := bySym[k]
			next := g.closure(first, kernel)
			key := itemSetKey(next)
			target, ok := index[key]
			if !ok {
				target = len(states)
				index[key] = target
				states = append(states, next)
			}
			if k < 0 {
				gotos = append(gotos, gotoCell{state: si, nonterm: int(-k - 1), target: target})
			} else {
				actions = append(actions, actionCell{state: si, terminal: int(k), isShift: true, shift: target})
			}
		}

		for _, it := range cur {
			if _, ok := g.symAt(it); ok {
				continue // dot not at end
			}
			if it.augmented {
				if it.la == g.eofID() {
					actions = append(actions, actionCell{state: si, terminal: g.eofID(), accept: true})
				}
				continue
			}
			actions = append(actions, actionCell{state: si, terminal: it.la, isReduce: true, reduce: it.prod})
		}
	}

	b := lrtab.NewBuilder(len(states), len(g.terminals), len(g.nonterminals), lrtab.StateID(0))
	for _, p := range g.prods {
		rhs := make([]lrtab.Symbol, len(p.rhs))
		for i, s := range p.rhs {
			if s.terminal {
				rhs[i] = lrtab.Symbol{IsTerminal: true, Terminal: lrtab.TerminalID(s.id)}
			} else {
				rhs[i] = lrtab.Symbol{Nonterm: lrtab.NonterminalID(s.id)}
			}
		}
		b.AddProduction(lrtab.Production{Name: p.name, LHS: lrtab.NonterminalID(p.lhs), RHS: rhs})
	}

	termKey := func(id int) lrtab.TerminalID {
		if id == g.eofID() {
			return lrtab.EOF
		}
		return lrtab.TerminalID(id)
	}
	for _, a := range actions {
		var act lrtab.Action
		switch {
		case a.accept:
			act = lrtab.Action{Type: lrtab.ActionAccept}
		case a.isShift:
			act = lrtab.Action{Type: lrtab.ActionShift, Target: lrtab.StateID(a.shift)}
		case a.isReduce:
			act = lrtab.Action{Type: lrtab.ActionReduce, Production: lrtab.ProductionID(a.reduce)}
		}
		b.SetAction(lrtab.StateID(a.state), termKey(a.terminal), act)
	}
	for _, gc := range gotos {
		b.SetGoto(lrtab.StateID(gc.state), lrtab.NonterminalID(gc.nonterm), lrtab.StateID(gc.target))
	}

	return b.Build()
}
