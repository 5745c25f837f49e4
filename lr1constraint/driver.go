package lr1constraint

import (
	"go.uber.org/zap"

	"github.com/coregx/constrain/lexdfa"
	"github.com/coregx/constrain/lrtab"
)

// driver holds the two immutable, shared tables a pdaConfig is driven
// against, plus the per-constraint-instance pda-state cache.
type driver struct {
	table *lrtab.Table
	lexer *lexdfa.DFA
	cache *lru[stepKey, stepResult]
	log   *zap.Logger
}

type stepResult struct {
	ok   bool
	next pdaConfig
}

func newDriver(table *lrtab.Table, lexer *lexdfa.DFA, cfg Config, log *zap.Logger) *driver {
	d := &driver{table: table, lexer: lexer, log: log}
	d.cache = newLRU[stepKey, stepResult](cfg.MaxCacheEntries, func(evicted int) {
		log.Debug("lr1constraint pda cache eviction", zap.Int("evicted", evicted))
	})
	return d
}

// step consumes byte b from cfg in place, returning false if no
// continuation of the language can follow (a genuine lex failure with no
// prior accept to fall back on, or a parser action of ActionError when a
// lexeme is committed).
//
// Cache-checked: one (configuration, byte) transition is the memoized
// unit, keyed on (lexer state, stack signature, pending bytes, byte).
// A hit replaces *cfg
// wholesale with the cached resulting configuration; a miss computes it
// via stepUncached and stores the result before returning.
func (d *driver) step(cfg *pdaConfig, b byte) bool {
	key := stepKey{configKey: cfg.key(), b: b}
	if res, hit := d.cache.Get(key); hit {
		if res.ok {
			*cfg = res.next.clone()
		}
		return res.ok
	}

	scratch := cfg.clone()
	ok := d.stepUncached(&scratch, b)
	if ok {
		d.cache.Put(key, stepResult{ok: true, next: scratch.clone()})
		*cfg = scratch
	} else {
		d.cache.Put(key, stepResult{ok: false})
	}
	return ok
}

// stepUncached is the actual per-byte PDA transition, mutating cfg.
func (d *driver) stepUncached(cfg *pdaConfig, b byte) bool {
	newLex := d.lexer.Step(cfg.lexerState, b)
	if newLex != lexdfa.Dead {
		cfg.pending = append(cfg.pending, b)
		cfg.lexerState = newLex
		if kind, isAccept := d.lexer.Accept(newLex); isAccept {
			cfg.lastAcceptLen = len(cfg.pending)
			cfg.lastAcceptKind = kind
		}
		return true
	}

	// Dead: the byte cannot extend the current lexeme. If no accept was
	// ever seen within pending, this is a genuine lex error.
	if cfg.lastAcceptLen < 0 {
		return false
	}

	committed := cfg.lastAcceptKind
	leftover := make([]byte, 0, len(cfg.pending)-cfg.lastAcceptLen+1)
	leftover = append(leftover, cfg.pending[cfg.lastAcceptLen:]...)
	leftover = append(leftover, b)

	if !d.commitToken(cfg, lrtab.TerminalID(committed)) {
		return false
	}

	cfg.pending = nil
	cfg.lexerState = lexdfa.Start
	cfg.lastAcceptLen = -1

	for _, lb := range leftover {
		if !d.stepUncached(cfg, lb) {
			return false
		}
	}
	return true
}

// commitToken drives the LR(1) table's reduce/shift chain for lookahead
// term against cfg.stack, mutating it in place. Returns false if the
// table's action is ActionError or ActionAccept (a real token
// committing should always culminate in a shift, never the grammar's
// final accept, which is only reachable on the EOF lookahead).
func (d *driver) commitToken(cfg *pdaConfig, term lrtab.TerminalID) bool {
	for {
		action := d.table.Action(cfg.top(), term)
		switch action.Type {
		case lrtab.ActionReduce:
			prod := d.table.Production(action.Production)
			n := len(prod.RHS)
			if n >= len(cfg.stack) {
				return false
			}
			cfg.stack = cfg.stack[:len(cfg.stack)-n]
			g, ok := d.table.Goto(cfg.top(), prod.LHS)
			if !ok {
				return false
			}
			cfg.stack = append(cfg.stack, g)
		case lrtab.ActionShift:
			cfg.stack = append(cfg.stack, action.Target)
			return true
		default:
			return false
		}
	}
}

// viable reports whether cfg is a legitimate endpoint for a vocab
// token's byte sequence within Get()'s trie walk: either there is a
// pending accept that can be legally committed against the current
// stack, or the pending lexeme can still grow into a longer accepted
// lexeme (some lexer state reachable from the current one accepts a
// kind that can be legally committed against the current stack), or the
// grammar can accept outright at EOF with no pending bytes.
//
// The extension check walks every lexer state reachable from the
// current one and tries each accepting state's kind on a scratch copy
// of the stack, so a lexeme that could only grow into a kind the
// grammar rejects here (a digit right after an object key, say) is not
// viable.
func (d *driver) viable(cfg *pdaConfig) bool {
	if cfg.lastAcceptLen >= 0 {
		scratch := pdaConfig{stack: append([]lrtab.StateID(nil), cfg.stack...)}
		if d.commitToken(&scratch, lrtab.TerminalID(cfg.lastAcceptKind)) {
			return true
		}
	}
	seen := map[lexdfa.StateID]bool{cfg.lexerState: true}
	for queue := []lexdfa.StateID{cfg.lexerState}; len(queue) > 0; queue = queue[1:] {
		for b := 0; b < 256; b++ {
			next := d.lexer.Step(queue[0], byte(b))
			if next == lexdfa.Dead || seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
			scratch := pdaConfig{stack: append([]lrtab.StateID(nil), cfg.stack...)}
			if kind, isAccept := d.lexer.Accept(next); isAccept && d.commitToken(&scratch, lrtab.TerminalID(kind)) {
				return true
			}
		}
	}
	return len(cfg.pending) == 0 && d.isMatch(cfg)
}

// isMatch reports whether cfg, with no more input, reaches the
// grammar's accept action. A trailing pending lexeme that is accepted
// in its entirety commits first, exactly what longest-match does when
// input ends; pending bytes past the last accept can never lex, so any
// other non-empty pending is an immediate false. The remaining reduce
// chain runs with an EOF lookahead on a scratch copy of the stack until
// it reaches ActionAccept or fails.
func (d *driver) isMatch(cfg *pdaConfig) bool {
	stack := append([]lrtab.StateID(nil), cfg.stack...)
	if len(cfg.pending) != 0 {
		if cfg.lastAcceptLen != len(cfg.pending) {
			return false
		}
		scratch := pdaConfig{stack: stack}
		if !d.commitToken(&scratch, lrtab.TerminalID(cfg.lastAcceptKind)) {
			return false
		}
		stack = scratch.stack
	}
	for {
		top := stack[len(stack)-1]
		action := d.table.Action(top, lrtab.EOF)
		switch action.Type {
		case lrtab.ActionReduce:
			prod := d.table.Production(action.Production)
			n := len(prod.RHS)
			if n >= len(stack) {
				return false
			}
			stack = stack[:len(stack)-n]
			g, ok := d.table.Goto(stack[len(stack)-1], prod.LHS)
			if !ok {
				return false
			}
			stack = append(stack, g)
		case lrtab.ActionAccept:
			return true
		default:
			return false
		}
	}
}
