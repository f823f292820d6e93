package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_String(t *testing.T) {
	a := assert.New(t)

	a.Equal("waiting", StageWaiting.String())
	a.Equal("pre-flop", StagePreFlop.String())
	a.Equal("flop", StageFlop.String())
	a.Equal("turn", StageTurn.String())
	a.Equal("river", StageRiver.String())
	a.Equal("showdown", StageShowdown.String())
	a.PanicsWithValue("unknown stage: 99", func() {
		_ = Stage(99).String()
	})
}

func TestStage_IsBettingRound(t *testing.T) {
	a := assert.New(t)

	a.False(StageWaiting.IsBettingRound())
	a.True(StagePreFlop.IsBettingRound())
	a.True(StageRiver.IsBettingRound())
	a.False(StageShowdown.IsBettingRound())
}

func TestStage_MarshalJSON(t *testing.T) {
	a := assert.New(t)

	b, err := json.Marshal(StageFlop)
	a.NoError(err)
	a.JSONEq(`{"id":2,"name":"flop"}`, string(b))
}
