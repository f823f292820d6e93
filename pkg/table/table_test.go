package table

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdem-server/pkg/deck"
	"holdem-server/pkg/table/action"
)

type fixedRand struct {
	seed int64
}

func (f fixedRand) Intn(n int) int { return 0 }

func (f fixedRand) Int63() int64 { return f.seed }

type recordingNotifier struct {
	changed int
	actions []string
}

func (n *recordingNotifier) TableChanged(string) {
	n.changed++
}

func (n *recordingNotifier) PlayerAction(_, _ string, _ action.Action, _ int, description string) {
	n.actions = append(n.actions, description)
}

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// testTable seats one player per chip count. MinPlayers is set to the seat
// count so the hand starts once everyone is in.
func testTable(t *testing.T, chips ...int) (*Table, *quartz.Mock, *recordingNotifier) {
	t.Helper()
	a := assert.New(t)

	clk := quartz.NewMock(t)
	notifier := &recordingNotifier{}

	opts := DefaultOptions()
	opts.Name = "Test Table"
	opts.MinPlayers = len(chips)

	tbl := New("table-1", opts, testLogger(), notifier, clk, fixedRand{seed: 1})
	for i, c := range chips {
		a.NoError(tbl.AddPlayer(fmt.Sprintf("p%d", i+1), fmt.Sprintf("Player %d", i+1), c))
	}

	return tbl, clk, notifier
}

func (t *Table) mustAct(a *assert.Assertions, playerID string, act action.Action, amount int) {
	a.NoError(t.PerformAction(playerID, act, amount))
}

// chipsInPlay is the conserved quantity: the pot plus every stack plus
// every live street bet
func chipsInPlay(t *Table) int {
	total := t.pot
	for _, p := range t.players {
		total += p.Chips + p.bet
	}

	return total
}

// potTotal is the pot plus the street's uncollected bets
func potTotal(t *Table) int {
	total := t.pot
	for _, p := range t.players {
		total += p.bet
	}

	return total
}

func TestNew_defaults(t *testing.T) {
	a := assert.New(t)

	tbl := New("id", Options{}, nil, nil, nil, nil)
	a.Equal(25, tbl.opts.SmallBlind)
	a.Equal(50, tbl.opts.BigBlind)
	a.Equal(2, tbl.opts.MinPlayers)
	a.Equal(9, tbl.opts.MaxPlayers)
	a.Equal(120*time.Second, tbl.opts.ActionTimeout)
	a.Equal(StageWaiting, tbl.stage)
}

func TestTable_AddPlayer(t *testing.T) {
	a := assert.New(t)

	tbl, _, notifier := testTable(t, 1000, 1000, 1000)

	// hand started when the third player sat down
	a.Equal(StagePreFlop, tbl.stage)
	a.Equal(1, tbl.handNum)
	a.Equal(75, potTotal(tbl))
	a.Equal(50, tbl.currentBet)

	// dealer, blinds, and first actor
	a.True(tbl.players[0].isDealer)
	a.True(tbl.players[1].isSmallBlind)
	a.Equal(25, tbl.players[1].bet)
	a.True(tbl.players[2].isBigBlind)
	a.Equal(50, tbl.players[2].bet)
	a.True(tbl.players[0].active)
	a.Equal(0, tbl.currentIdx)

	for _, p := range tbl.players {
		a.Len(p.hand, 2)
	}

	a.Greater(notifier.changed, 0)

	// joining mid-hand sits out until the next hand
	a.NoError(tbl.AddPlayer("p4", "Player 4", 500))
	a.True(tbl.players[3].folded)
	a.Empty(tbl.players[3].hand)

	a.Equal(ErrPlayerAlreadySeated, tbl.AddPlayer("p4", "Player 4", 500))
}

func TestTable_AddPlayer_tableFull(t *testing.T) {
	a := assert.New(t)

	opts := DefaultOptions()
	opts.MaxPlayers = 2
	tbl := New("id", opts, testLogger(), nil, quartz.NewMock(t), fixedRand{seed: 1})

	a.NoError(tbl.AddPlayer("p1", "Player 1", 1000))
	a.NoError(tbl.AddPlayer("p2", "Player 2", 1000))
	a.Equal(ErrTableFull, tbl.AddPlayer("p3", "Player 3", 1000))
}

func TestTable_PerformAction_validation(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)

	a.Equal(ErrPlayerNotSeated, tbl.PerformAction("nope", action.Check, 0))
	a.Equal(ErrNotYourTurn, tbl.PerformAction("p2", action.Call, 0))

	// p1 owes $50 and cannot check
	err := tbl.PerformAction("p1", action.Check, 0)
	a.ErrorIs(err, ErrInvalidAction)
	a.Contains(err.Error(), "cannot check when $50 is owed")

	// a bet cannot be placed over an open bet
	err = tbl.PerformAction("p1", action.Bet, 100)
	a.ErrorIs(err, ErrInvalidAction)

	// a raise must exceed the current bet
	err = tbl.PerformAction("p1", action.Raise, 50)
	a.ErrorIs(err, ErrInvalidAction)
	a.Contains(err.Error(), "raise must exceed the current bet ($50)")

	// and be at least double
	err = tbl.PerformAction("p1", action.Raise, 99)
	a.ErrorIs(err, ErrInvalidAction)
	a.Contains(err.Error(), "raise must be at least double the current bet ($100)")

	// nothing changed
	a.Equal(75, potTotal(tbl))
	a.True(tbl.players[0].active)
}

func TestTable_preFlopToFlop(t *testing.T) {
	a := assert.New(t)

	tbl, _, notifier := testTable(t, 1000, 1000, 1000)
	startingChips := chipsInPlay(tbl)

	tbl.mustAct(a, "p1", action.Call, 0)
	a.Equal(125, potTotal(tbl))
	a.True(tbl.players[1].active)

	tbl.mustAct(a, "p2", action.Call, 0)
	a.Equal(150, potTotal(tbl))

	// big blind gets the option and checks the street closed
	tbl.mustAct(a, "p3", action.Check, 0)

	a.Equal(StageFlop, tbl.stage)
	a.Len(tbl.community, 3)
	a.Equal(0, tbl.currentBet)

	// the street's bets were swept into the pot
	a.Equal(150, tbl.pot)

	for _, p := range tbl.players {
		a.Zero(p.bet)
		a.False(p.checked)
		a.False(p.acted)
	}

	// first to act on the flop is left of the dealer
	a.Equal(1, tbl.currentIdx)
	a.True(tbl.players[1].active)

	a.Equal(startingChips, chipsInPlay(tbl))
	a.Equal([]string{
		"Player 1 called $50",
		"Player 2 called $25",
		"Player 3 checked",
	}, notifier.actions)
}

func TestTable_betAndRaise(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)
	startingChips := chipsInPlay(tbl)

	tbl.mustAct(a, "p1", action.Call, 0)
	tbl.mustAct(a, "p2", action.Call, 0)
	tbl.mustAct(a, "p3", action.Check, 0)
	a.Equal(StageFlop, tbl.stage)

	// a bet below the big blind is rejected
	err := tbl.PerformAction("p2", action.Bet, 40)
	a.ErrorIs(err, ErrInvalidAction)
	a.Contains(err.Error(), "bet must be at least the big blind ($50)")

	tbl.mustAct(a, "p2", action.Bet, 100)
	a.Equal(100, tbl.currentBet)

	tbl.mustAct(a, "p3", action.Raise, 200)
	a.Equal(200, tbl.currentBet)

	tbl.mustAct(a, "p1", action.Call, 0)
	a.Equal(200, tbl.players[0].bet)

	// p3 already matches the bet, so calling closes the street on p2
	tbl.mustAct(a, "p2", action.Call, 0)

	a.Equal(StageTurn, tbl.stage)
	a.Len(tbl.community, 4)
	a.Equal(startingChips, chipsInPlay(tbl))
}

func TestTable_betReopensChecks(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)

	tbl.mustAct(a, "p1", action.Call, 0)
	tbl.mustAct(a, "p2", action.Call, 0)
	tbl.mustAct(a, "p3", action.Check, 0)
	a.Equal(StageFlop, tbl.stage)

	tbl.mustAct(a, "p2", action.Check, 0)
	a.True(tbl.players[1].checked)

	// a bet clears the checks and reopens the action
	tbl.mustAct(a, "p3", action.Bet, 50)
	a.False(tbl.players[1].checked)
	a.Equal(StageFlop, tbl.stage)

	tbl.mustAct(a, "p1", action.Fold, 0)
	tbl.mustAct(a, "p2", action.Call, 0)
	a.Equal(StageTurn, tbl.stage)
}

func TestTable_winByFold(t *testing.T) {
	a := assert.New(t)

	tbl, clk, _ := testTable(t, 1000, 1000, 1000)

	tbl.mustAct(a, "p1", action.Fold, 0)
	tbl.mustAct(a, "p2", action.Fold, 0)

	// p3 takes the pot without a showdown
	a.Equal(StageShowdown, tbl.stage)
	a.Equal(0, tbl.pot)
	a.Equal(1025, tbl.players[2].Chips)
	a.Equal(-1, tbl.currentIdx)

	for _, p := range tbl.players {
		a.False(p.active)
	}

	// the next hand starts after the delay, dealer button moves
	clk.Advance(tbl.opts.NewHandDelay).MustWait(context.Background())
	a.Equal(StagePreFlop, tbl.stage)
	a.Equal(2, tbl.handNum)
	a.Equal(1, tbl.dealerPos)
}

func TestTable_allInForLess(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 80)

	// p3 posted the $50 big blind from an $80 stack
	tbl.mustAct(a, "p1", action.Raise, 200)
	tbl.mustAct(a, "p2", action.Fold, 0)

	// p3's call is short: all-in for the remaining $30, which ends the
	// betting, runs the board out, and settles the hand in one stroke
	tbl.mustAct(a, "p3", action.Call, 0)
	a.False(tbl.stage.IsBettingRound())
	a.Len(tbl.community, 5)
	a.Equal(0, tbl.pot)

	// p3 risked only their $80; the folder kept the rest of their stack
	a.Equal(975, tbl.players[1].Chips)
	a.Equal(2080, chipsInPlay(tbl))
}

func TestTable_shortBlind(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 30)

	// p3 could not cover the $50 big blind
	a.True(tbl.players[2].allIn)
	a.Equal(30, tbl.players[2].bet)

	// the current bet is still the full big blind
	a.Equal(50, tbl.currentBet)
	a.Equal(55, potTotal(tbl))
}

func TestTable_showdownSplit(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)

	// board plays for everyone: a three-way tie
	tbl.players[0].hand = deck.Hand(deck.CardsFromString("2c,3d"))
	tbl.players[1].hand = deck.Hand(deck.CardsFromString("2d,3s"))
	tbl.players[2].hand = deck.Hand(deck.CardsFromString("2h,3c"))
	tbl.community = deck.Hand(deck.CardsFromString("14s,13s,12s,11s,10s"))
	tbl.players[0].Chips = 1000
	tbl.players[1].Chips = 1000
	tbl.players[2].Chips = 1000
	tbl.pot = 100
	tbl.stopTimer()

	tbl.showdown()

	// $100 splits $34/$33/$33 with the odd dollar to the first winner
	a.Equal(1034, tbl.players[0].Chips)
	a.Equal(1033, tbl.players[1].Chips)
	a.Equal(1033, tbl.players[2].Chips)
	a.Equal(0, tbl.pot)
	a.Equal(StageShowdown, tbl.stage)
}

func TestTable_showdownBestHandWins(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)

	tbl.players[0].hand = deck.Hand(deck.CardsFromString("14c,14d")) // aces up
	tbl.players[1].hand = deck.Hand(deck.CardsFromString("9c,9d"))   // set of nines
	tbl.players[2].hand = deck.Hand(deck.CardsFromString("2c,3d"))
	tbl.community = deck.Hand(deck.CardsFromString("14h,9s,8s,7c,2h"))
	tbl.players[0].Chips = 900
	tbl.players[1].Chips = 900
	tbl.players[2].Chips = 900
	tbl.pot = 300
	tbl.stopTimer()

	tbl.showdown()

	// trips of aces beats trips of nines
	a.Equal(1200, tbl.players[0].Chips)
	a.Equal(900, tbl.players[1].Chips)
	a.Equal(900, tbl.players[2].Chips)
}

func TestTable_folderExcludedFromShowdown(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)

	// the folded player has the best hand, but it doesn't play
	tbl.players[0].hand = deck.Hand(deck.CardsFromString("14c,14d"))
	tbl.players[0].folded = true
	tbl.players[1].hand = deck.Hand(deck.CardsFromString("9c,9d"))
	tbl.players[2].hand = deck.Hand(deck.CardsFromString("2c,3d"))
	tbl.community = deck.Hand(deck.CardsFromString("14h,9s,8s,7c,2h"))
	tbl.players[0].Chips = 900
	tbl.players[1].Chips = 900
	tbl.players[2].Chips = 900
	tbl.pot = 300
	tbl.stopTimer()

	tbl.showdown()

	a.Equal(900, tbl.players[0].Chips)
	a.Equal(1200, tbl.players[1].Chips)
}

func TestTable_elimination(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 100)

	tbl.players[0].hand = deck.Hand(deck.CardsFromString("14c,14d"))
	tbl.players[1].hand = deck.Hand(deck.CardsFromString("2c,3d"))
	tbl.community = deck.Hand(deck.CardsFromString("14h,9s,8s,7c,4h"))
	tbl.players[0].Chips = 900
	tbl.players[1].Chips = 0
	tbl.players[1].allIn = true
	tbl.pot = 200
	tbl.stopTimer()

	tbl.showdown()

	// the busted player is gone and the table waits for more players
	a.Len(tbl.players, 1)
	a.Equal("p1", tbl.players[0].ID)
	a.Equal(1100, tbl.players[0].Chips)
	a.Equal(StageWaiting, tbl.stage)
}

func TestTable_timeoutAutoFold(t *testing.T) {
	a := assert.New(t)

	tbl, clk, notifier := testTable(t, 1000, 1000)

	// heads-up: p2 posted the small blind and acts first, owing $25
	a.True(tbl.players[1].active)

	clk.Advance(tbl.opts.ActionTimeout).MustWait(context.Background())

	a.True(tbl.players[1].folded)
	a.Equal(StageShowdown, tbl.stage)
	a.Equal(1025, tbl.players[0].Chips)
	a.Contains(notifier.actions, "Player 2 folded (timed out)")
}

func TestTable_timeoutAutoCheck(t *testing.T) {
	a := assert.New(t)

	tbl, clk, notifier := testTable(t, 1000, 1000)

	tbl.mustAct(a, "p2", action.Call, 0)
	a.True(tbl.players[0].active)

	// p1 already matches the bet, so the timeout checks instead of folding
	clk.Advance(tbl.opts.ActionTimeout).MustWait(context.Background())

	a.False(tbl.players[0].folded)
	a.Equal(StageFlop, tbl.stage)
	a.Contains(notifier.actions, "Player 1 checked (timed out)")
}

func TestTable_actionCancelsTimer(t *testing.T) {
	a := assert.New(t)

	tbl, clk, _ := testTable(t, 1000, 1000)

	tbl.mustAct(a, "p2", action.Call, 0)

	// only p1's fresh timer fires; p2's cancelled timer must not fold them
	clk.Advance(tbl.opts.ActionTimeout).MustWait(context.Background())

	a.False(tbl.players[1].folded)
	a.Equal(StageFlop, tbl.stage)
}

func TestTable_remainingActionTime(t *testing.T) {
	a := assert.New(t)

	tbl, clk, _ := testTable(t, 1000, 1000)

	a.Equal(tbl.opts.ActionTimeout, tbl.RemainingActionTime())

	clk.Advance(30 * time.Second).MustWait(context.Background())
	a.Equal(90*time.Second, tbl.RemainingActionTime())
}

func TestTable_RemovePlayer(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)
	tbl.opts.MinPlayers = 2 // keep the hand alive after the first removal

	a.Equal(ErrPlayerNotSeated, tbl.RemovePlayer("nope"))

	// removing the active player passes the turn
	a.NoError(tbl.RemovePlayer("p1"))
	a.Len(tbl.players, 2)
	a.Equal(StagePreFlop, tbl.stage)
	a.True(tbl.players[0].active) // p2

	// down to one contesting player: they win the pot and the table waits
	a.NoError(tbl.RemovePlayer("p3"))
	a.Equal(StageWaiting, tbl.stage)
	a.Len(tbl.players, 1)
	a.Equal(1050, tbl.players[0].Chips) // p2's $25 blind back plus the $50
}

func TestTable_removePlayerBelowMinimum(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000)

	a.NoError(tbl.RemovePlayer("p2"))
	a.Equal(StageWaiting, tbl.stage)
	a.Len(tbl.players, 1)

	// the sole remaining player takes the pot, blinds included
	a.Equal(1025, tbl.players[0].Chips)
}

func TestTable_abandonHand(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)

	// seating drops below the minimum with two players still contesting:
	// the pot is handed back, odd chip to the first seat
	a.NoError(tbl.RemovePlayer("p1"))
	a.Equal(StageWaiting, tbl.stage)
	a.Empty(tbl.community)
	a.Equal(0, tbl.pot)
	a.Equal(1013, tbl.players[0].Chips) // p2: $975 + $38
	a.Equal(987, tbl.players[1].Chips)  // p3: $950 + $37
}

func TestTable_potConservation(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 500, 250)
	total := chipsInPlay(tbl)
	a.Equal(1750, total)

	tbl.mustAct(a, "p1", action.Raise, 100)
	a.Equal(total, chipsInPlay(tbl))

	tbl.mustAct(a, "p2", action.Call, 0)
	a.Equal(total, chipsInPlay(tbl))

	tbl.mustAct(a, "p3", action.AllIn, 0)
	a.Equal(total, chipsInPlay(tbl))
	a.Equal(250, tbl.currentBet)

	tbl.mustAct(a, "p1", action.Call, 0)
	tbl.mustAct(a, "p2", action.Fold, 0)
	a.Equal(total, chipsInPlay(tbl))

	// only one player could still act, so the board ran out and settled
	a.False(tbl.stage.IsBettingRound())
	a.Equal(0, tbl.pot)
	a.Equal(total, chipsInPlay(tbl))
}

func TestTable_exactlyOneActive(t *testing.T) {
	a := assert.New(t)

	tbl, _, _ := testTable(t, 1000, 1000, 1000)

	countActive := func() int {
		count := 0
		for _, p := range tbl.players {
			if p.active {
				count++
			}
		}
		return count
	}

	a.Equal(1, countActive())

	tbl.mustAct(a, "p1", action.Call, 0)
	a.Equal(1, countActive())

	tbl.mustAct(a, "p2", action.Raise, 150)
	a.Equal(1, countActive())

	tbl.mustAct(a, "p3", action.Fold, 0)
	a.Equal(1, countActive())

	tbl.mustAct(a, "p1", action.Call, 0)
	a.Equal(1, countActive()) // flop, new street

	tbl.mustAct(a, "p2", action.Fold, 0)
	a.Equal(0, countActive()) // hand over
}
