package lrtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_RejectsNoProductions(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder(1, 1, 1, 0)
	_, err := b.Build()
	assert.ErrorIs(err, ErrNoProductions)
}

func TestBuilder_RejectsConflictingAction(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder(2, 1, 1, 0)
	b.AddProduction(Production{Name: "S -> a", LHS: 0, RHS: []Symbol{{IsTerminal: true, Terminal: 0}}})
	b.SetAction(0, 0, Action{Type: ActionShift, Target: 1})
	b.SetAction(0, 0, Action{Type: ActionReduce, Production: 0})

	_, err := b.Build()
	assert.Error(err)
	var ce *CompileError
	assert.ErrorAs(err, &ce)
	assert.ErrorIs(ce.Err, ErrNotLR1)
}

func TestBuilder_IdenticalReassignment_NotAConflict(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder(2, 1, 1, 0)
	b.AddProduction(Production{Name: "S -> a", LHS: 0, RHS: []Symbol{{IsTerminal: true, Terminal: 0}}})
	b.SetAction(0, 0, Action{Type: ActionShift, Target: 1})
	b.SetAction(0, 0, Action{Type: ActionShift, Target: 1})

	table, err := b.Build()
	assert.NoError(err)
	assert.Equal(Action{Type: ActionShift, Target: 1}, table.Action(0, 0))
}

func TestTable_ActionAndGoto_Defaults(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder(3, 2, 1, 0)
	b.AddProduction(Production{Name: "S -> A", LHS: 0, RHS: []Symbol{{Nonterm: 0}}})
	b.SetAction(0, 0, Action{Type: ActionShift, Target: 1})
	b.SetGoto(1, 0, 2)

	table, err := b.Build()
	assert.NoError(err)

	assert.Equal(Action{Type: ActionShift, Target: 1}, table.Action(0, 0))
	assert.Equal(Action{Type: ActionError}, table.Action(0, 1)) // unset cell

	target, ok := table.Goto(1, 0)
	assert.True(ok)
	assert.Equal(StateID(2), target)

	_, ok = table.Goto(0, 0)
	assert.False(ok)

	assert.Equal(StateID(0), table.Start())
	assert.Equal(3, table.NumStates())
	assert.Equal("S -> A", table.Production(0).Name)
}

func TestActionType_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("shift", ActionShift.String())
	assert.Equal("reduce", ActionReduce.String())
	assert.Equal("accept", ActionAccept.String())
	assert.Equal("error", ActionError.String())
}
