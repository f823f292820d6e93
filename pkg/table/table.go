package table

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/rng"
	"holdem-server/pkg/deck"
	"holdem-server/pkg/poker"
	"holdem-server/pkg/table/action"
)

// Table runs a single game of Texas Hold'em: it owns the deck, deals cards,
// enforces the betting rules, advances the hand through the streets, and
// pays out the pot. Tables are independent of each other; within one table
// every mutation, including timer callbacks, runs under the table's lock.
type Table struct {
	ID string

	opts     Options
	log      logrus.FieldLogger
	notifier Notifier
	clock    quartz.Clock
	random   rng.Generator

	mu         sync.Mutex
	players    []*Player
	deck       *deck.Deck
	community  deck.Hand
	pot        int
	currentBet int
	dealerPos  int
	currentIdx int // seat of the player to act, or -1
	stage      Stage
	handNum    int

	// timerEpoch tags the pending timer; a callback whose epoch no longer
	// matches fires against stale state and must be discarded
	timerEpoch     uint64
	pendingTimer   *quartz.Timer
	actionDeadline time.Time
}

// New creates a table. The notifier, clock, and random generator may be nil,
// in which case a no-op notifier, the real clock, and a crypto-backed
// generator are used.
func New(id string, opts Options, log logrus.FieldLogger, notifier Notifier, clk quartz.Clock, random rng.Generator) *Table {
	opts.applyDefaults()

	if log == nil {
		log = logrus.StandardLogger()
	}

	if notifier == nil {
		notifier = NopNotifier{}
	}

	if clk == nil {
		clk = quartz.NewReal()
	}

	if random == nil {
		random = rng.Crypto{}
	}

	return &Table{
		ID:         id,
		opts:       opts,
		log:        log.WithField("table", id),
		notifier:   notifier,
		clock:      clk,
		random:     random,
		currentIdx: -1,
		dealerPos:  -1,
		stage:      StageWaiting,
	}
}

// Name returns the table's display name
func (t *Table) Name() string {
	return t.opts.Name
}

// Options returns a copy of the table's configuration
func (t *Table) Options() Options {
	return t.opts
}

// AddPlayer seats a player with the given starting chips. A player who
// joins mid-hand sits out until the next hand starts. Seating the player
// that brings the table to the minimum while waiting starts a hand.
func (t *Table) AddPlayer(id, name string, chips int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.players) >= t.opts.MaxPlayers {
		return ErrTableFull
	}

	if t.indexOf(id) >= 0 {
		return ErrPlayerAlreadySeated
	}

	p := newPlayer(id, name, chips)
	if t.stage != StageWaiting {
		p.folded = true
	}

	t.players = append(t.players, p)
	t.log.WithFields(logrus.Fields{
		"player": id,
		"name":   name,
		"chips":  chips,
	}).Info("player joined")

	if t.stage == StageWaiting && len(t.players) >= t.opts.MinPlayers {
		t.startHand()
	}

	t.notifier.TableChanged(t.ID)
	return nil
}

// RemovePlayer removes a seated player. Leaving mid-hand folds the player
// first; chips they already put in the pot stay there.
func (t *Table) RemovePlayer(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(playerID)
	if idx < 0 {
		return ErrPlayerNotSeated
	}

	wasCurrent := t.stage.IsBettingRound() && idx == t.currentIdx
	p := t.removeSeat(idx)
	t.log.WithField("player", p.ID).Info("player left")

	// chips the player already put in this street stay behind
	t.pot += p.bet
	p.bet = 0

	if t.stage.IsBettingRound() {
		switch {
		case t.contestingCount() <= 1:
			t.winByFold()
		case len(t.players) < t.opts.MinPlayers:
			t.abandonHand()
		case wasCurrent:
			t.advanceTurn()
		}
	}

	t.notifier.TableChanged(t.ID)
	return nil
}

// PerformAction applies a betting action for the player. It returns an
// error and leaves the table untouched for any rule violation.
func (t *Table) PerformAction(playerID string, act action.Action, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !act.IsValid() {
		return fmt.Errorf("%w: unknown action", ErrInvalidAction)
	}

	if !t.stage.IsBettingRound() {
		return fmt.Errorf("%w: no betting round is open", ErrInvalidAction)
	}

	idx := t.indexOf(playerID)
	if idx < 0 {
		return ErrPlayerNotSeated
	}

	if idx != t.currentIdx {
		return ErrNotYourTurn
	}

	return t.applyAction(t.players[idx], act, amount, false)
}

// HasPlayer returns true if the player currently holds a seat
func (t *Table) HasPlayer(playerID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.indexOf(playerID) >= 0
}

// RemainingActionTime returns how long the active player has left to act,
// clamped to zero.
func (t *Table) RemainingActionTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.remainingActionTime()
}

func (t *Table) remainingActionTime() time.Duration {
	if t.actionDeadline.IsZero() {
		return 0
	}

	remaining := t.actionDeadline.Sub(t.clock.Now())
	if remaining < 0 {
		return 0
	}

	return remaining
}

// applyAction performs the action for the player, who must already be
// validated as the one to act. Caller must hold the lock.
func (t *Table) applyAction(p *Player, act action.Action, amount int, timedOut bool) error {
	var notifyAmount int

	switch act {
	case action.Fold:
		p.folded = true
	case action.Check:
		if p.bet != t.currentBet {
			return fmt.Errorf("%w: cannot check when $%d is owed", ErrInvalidAction, t.currentBet-p.bet)
		}

		p.checked = true
	case action.Call:
		owed := t.currentBet - p.bet
		if owed <= 0 {
			// nothing owed, treat as a check
			p.checked = true
			act = action.Check
			break
		}

		// a short call puts the player all-in for less
		notifyAmount = p.wager(owed)
	case action.Bet:
		if t.currentBet != 0 {
			return fmt.Errorf("%w: cannot bet when a bet of $%d is open", ErrInvalidAction, t.currentBet)
		}

		if amount < t.opts.BigBlind {
			return fmt.Errorf("%w: bet must be at least the big blind ($%d)", ErrInvalidAction, t.opts.BigBlind)
		}

		p.wager(amount)
		t.currentBet = p.bet
		t.clearChecks()
		notifyAmount = p.bet
	case action.Raise:
		if amount <= t.currentBet {
			return fmt.Errorf("%w: raise must exceed the current bet ($%d)", ErrInvalidAction, t.currentBet)
		}

		if amount < t.currentBet*2 {
			return fmt.Errorf("%w: raise must be at least double the current bet ($%d)", ErrInvalidAction, t.currentBet*2)
		}

		p.wager(amount - p.bet)
		if p.bet > t.currentBet {
			t.currentBet = p.bet
		}

		t.clearChecks()
		notifyAmount = p.bet
	case action.AllIn:
		p.wager(p.Chips)
		if p.bet > t.currentBet {
			t.currentBet = p.bet
		}

		notifyAmount = p.bet
	default:
		return fmt.Errorf("%w: unknown action", ErrInvalidAction)
	}

	p.acted = true
	p.active = false
	t.stopTimer()

	description := act.LogMessage(p.Name, notifyAmount)
	if timedOut {
		description += " (timed out)"
	}

	t.log.WithFields(logrus.Fields{
		"player": p.ID,
		"action": act.String(),
		"amount": notifyAmount,
	}).Info(description)
	t.notifier.PlayerAction(t.ID, p.ID, act, notifyAmount, description)

	t.advanceTurn()
	t.notifier.TableChanged(t.ID)
	return nil
}

// advanceTurn hands the turn to the next eligible player, or ends the
// street, or ends the hand when only one player remains. Caller must hold
// the lock.
func (t *Table) advanceTurn() {
	if t.contestingCount() == 1 {
		t.winByFold()
		return
	}

	if t.roundComplete() {
		t.moveToNextStage()
		return
	}

	n := len(t.players)
	for i := 1; i <= n; i++ {
		idx := (t.currentIdx + i) % n
		p := t.players[idx]
		if !p.canAct() {
			continue
		}

		// past the pre-flop, a player already matching the bet owes nothing
		if t.stage != StagePreFlop && t.currentBet > 0 && p.bet == t.currentBet {
			continue
		}

		t.currentIdx = idx
		p.active = true
		t.armTimer()
		return
	}

	t.moveToNextStage()
}

// roundComplete reports whether the street's betting is settled: every
// contesting player has acted (or is all-in), and is all-in, has checked,
// or matches the current bet.
func (t *Table) roundComplete() bool {
	for _, p := range t.players {
		if p.folded {
			continue
		}

		if !p.acted && !p.allIn {
			return false
		}

		if !p.allIn && !p.checked && p.bet != t.currentBet {
			return false
		}
	}

	return true
}

// moveToNextStage sweeps the street's bets into the pot and advances the
// hand: deal the flop, turn, or river, or run the showdown after the river.
// If no one can act on the new street (everyone all-in), it keeps advancing.
func (t *Table) moveToNextStage() {
	t.collectBets()
	for _, p := range t.players {
		p.resetForStreet()
	}

	t.currentBet = 0
	t.clearActive()
	t.currentIdx = -1
	t.stopTimer()

	switch t.stage {
	case StagePreFlop:
		t.dealCommunity(3)
		t.stage = StageFlop
	case StageFlop:
		t.dealCommunity(1)
		t.stage = StageTurn
	case StageTurn:
		t.dealCommunity(1)
		t.stage = StageRiver
	case StageRiver:
		t.showdown()
		return
	default:
		return
	}

	t.log.WithFields(logrus.Fields{
		"stage":     t.stage.String(),
		"community": t.community.String(),
	}).Info("stage advanced")

	// with fewer than two players able to act there is no betting; the
	// board just runs out
	if t.actionableCount() < 2 || !t.activateFrom(t.dealerPos+1) {
		t.moveToNextStage()
	}
}

// winByFold awards the pot, including the street's outstanding bets, to the
// sole remaining player
func (t *Table) winByFold() {
	t.collectBets()
	t.stopTimer()
	t.clearActive()
	t.currentIdx = -1
	t.stage = StageShowdown

	for _, p := range t.players {
		if p.folded {
			continue
		}

		p.Chips += t.pot
		t.log.WithFields(logrus.Fields{
			"player": p.ID,
			"amount": t.pot,
		}).Info("won the pot uncontested")
		break
	}

	t.pot = 0
	t.finishHand()
}

// showdown evaluates the contesting hands, pays the pot, and wraps up the
// hand. Ties split the pot evenly; the remainder goes to the first winner
// in ranked order.
func (t *Table) showdown() {
	t.stage = StageShowdown

	type contender struct {
		player *Player
		result poker.Result
	}

	contenders := make([]contender, 0, len(t.players))
	for _, p := range t.players {
		if p.folded {
			continue
		}

		cards := make([]deck.Card, 0, len(p.hand)+len(t.community))
		cards = append(cards, p.hand...)
		cards = append(cards, t.community...)

		contenders = append(contenders, contender{
			player: p,
			result: poker.Evaluate(cards),
		})
	}

	// stable keeps seat order within a tie group
	sort.SliceStable(contenders, func(i, j int) bool {
		return poker.Compare(contenders[i].result, contenders[j].result) > 0
	})

	winners := contenders[:1]
	for _, c := range contenders[1:] {
		if poker.Compare(c.result, winners[0].result) != 0 {
			break
		}

		winners = append(winners, c)
	}

	share := t.pot / len(winners)
	remainder := t.pot % len(winners)
	for i, w := range winners {
		amount := share
		if i == 0 {
			amount += remainder
		}

		w.player.Chips += amount
		t.log.WithFields(logrus.Fields{
			"player": w.player.ID,
			"amount": amount,
			"hand":   w.result.Description(),
		}).Info("won at showdown")
	}

	t.pot = 0
	t.finishHand()
}

// finishHand removes busted players and either schedules the next hand or
// drops the table back to waiting
func (t *Table) finishHand() {
	for i := len(t.players) - 1; i >= 0; i-- {
		if t.players[i].Chips == 0 {
			p := t.removeSeat(i)
			t.log.WithField("player", p.ID).Info("player eliminated")
		}
	}

	if len(t.players) < t.opts.MinPlayers {
		t.stage = StageWaiting
		return
	}

	t.scheduleNewHand()
}

func (t *Table) scheduleNewHand() {
	t.stopTimer()
	t.timerEpoch++
	epoch := t.timerEpoch

	t.pendingTimer = t.clock.AfterFunc(t.opts.NewHandDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if epoch != t.timerEpoch || t.stage != StageShowdown {
			return
		}

		t.startHand()
		t.notifier.TableChanged(t.ID)
	})
}

// abandonHand is hit when seating drops below the minimum mid-hand with
// more than one player still contesting. The pot is handed back, split
// evenly among them.
func (t *Table) abandonHand() {
	t.collectBets()
	t.stopTimer()
	t.clearActive()
	t.currentIdx = -1
	t.stage = StageWaiting
	t.community = nil

	contesting := make([]*Player, 0, len(t.players))
	for _, p := range t.players {
		if !p.folded {
			contesting = append(contesting, p)
		}
	}

	if len(contesting) > 0 && t.pot > 0 {
		share := t.pot / len(contesting)
		remainder := t.pot % len(contesting)
		for i, p := range contesting {
			amount := share
			if i == 0 {
				amount += remainder
			}

			p.Chips += amount
		}

		t.log.WithField("pot", t.pot).Info("hand abandoned, pot returned")
	}

	t.pot = 0
}

// startHand deals a fresh hand. Caller must hold the lock and have
// verified, or be prepared for, the minimum player check.
func (t *Table) startHand() {
	if len(t.players) < t.opts.MinPlayers {
		t.stage = StageWaiting
		t.community = nil
		return
	}

	t.stopTimer()
	t.timerEpoch++
	t.handNum++

	t.deck = deck.New()
	t.deck.Shuffle(t.random.Int63())

	t.community = nil
	t.pot = 0

	for _, p := range t.players {
		p.resetForHand()
	}

	n := len(t.players)
	t.dealerPos = (t.dealerPos + 1) % n
	sb := (t.dealerPos + 1) % n
	bb := (sb + 1) % n

	t.players[t.dealerPos].isDealer = true
	t.players[sb].isSmallBlind = true
	t.players[bb].isBigBlind = true

	// blinds are capped at the stack; short stacks are all-in for less
	t.players[sb].wager(t.opts.SmallBlind)
	t.players[bb].wager(t.opts.BigBlind)
	t.currentBet = t.opts.BigBlind

	// two cards each, one card per player per pass, starting left of the dealer
	for pass := 0; pass < 2; pass++ {
		for i := 1; i <= n; i++ {
			t.players[(t.dealerPos+i)%n].hand.AddCard(t.mustDraw())
		}
	}

	t.stage = StagePreFlop
	t.log.WithFields(logrus.Fields{
		"hand":    t.handNum,
		"dealer":  t.players[t.dealerPos].ID,
		"players": n,
	}).Info("hand started")

	if !t.activateFrom(bb + 1) {
		// everyone went all-in posting blinds; run the board out
		t.moveToNextStage()
	}
}

// activateFrom gives the turn to the first player at or after the seat who
// can still act. Returns false if no one can.
func (t *Table) activateFrom(seat int) bool {
	n := len(t.players)
	for i := 0; i < n; i++ {
		idx := (seat + i) % n
		p := t.players[idx]
		if !p.canAct() {
			continue
		}

		t.currentIdx = idx
		p.active = true
		t.armTimer()
		return true
	}

	return false
}

// armTimer schedules the automatic action for the newly active player,
// invalidating any pending timer first
func (t *Table) armTimer() {
	t.stopTimer()
	t.timerEpoch++
	epoch := t.timerEpoch

	t.actionDeadline = t.clock.Now().Add(t.opts.ActionTimeout)
	t.pendingTimer = t.clock.AfterFunc(t.opts.ActionTimeout, func() {
		t.onActionTimeout(epoch)
	})
}

// stopTimer cancels the pending timer. The epoch bump guarantees a callback
// that already fired but is waiting on the lock gets discarded.
func (t *Table) stopTimer() {
	if t.pendingTimer != nil {
		t.pendingTimer.Stop()
		t.pendingTimer = nil
	}

	t.actionDeadline = time.Time{}
	t.timerEpoch++
}

// onActionTimeout acts on behalf of a player who ran out of time: a check
// when one is legal, otherwise a fold
func (t *Table) onActionTimeout(epoch uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if epoch != t.timerEpoch || !t.stage.IsBettingRound() || t.currentIdx < 0 {
		return
	}

	p := t.players[t.currentIdx]
	act := action.Fold
	if p.bet == t.currentBet {
		act = action.Check
	}

	if err := t.applyAction(p, act, 0, true); err != nil {
		// check/fold is always legal for the active player
		t.log.WithError(err).Error("could not perform automatic action")
	}
}

func (t *Table) dealCommunity(count int) {
	for i := 0; i < count; i++ {
		t.community.AddCard(t.mustDraw())
	}
}

// mustDraw panics on an empty deck. With at most nine seats the deck needs
// 23 cards per hand, so this never fires under correct sizing.
func (t *Table) mustDraw() deck.Card {
	card, err := t.deck.Draw()
	if err != nil {
		panic(err)
	}

	return card
}

func (t *Table) indexOf(playerID string) int {
	for i, p := range t.players {
		if p.ID == playerID {
			return i
		}
	}

	return -1
}

func (t *Table) actionableCount() int {
	count := 0
	for _, p := range t.players {
		if p.canAct() {
			count++
		}
	}

	return count
}

func (t *Table) contestingCount() int {
	count := 0
	for _, p := range t.players {
		if !p.folded {
			count++
		}
	}

	return count
}

func (t *Table) clearActive() {
	for _, p := range t.players {
		p.active = false
	}
}

// collectBets sweeps every seat's street contribution into the pot
func (t *Table) collectBets() {
	for _, p := range t.players {
		t.pot += p.bet
		p.bet = 0
	}
}

func (t *Table) clearChecks() {
	for _, p := range t.players {
		p.checked = false
	}
}

// removeSeat splices out the seat and keeps the dealer and turn positions
// pointing at the same players
func (t *Table) removeSeat(i int) *Player {
	p := t.players[i]
	t.players = append(t.players[:i], t.players[i+1:]...)

	n := len(t.players)
	if n == 0 {
		t.dealerPos = -1
		t.currentIdx = -1
		return p
	}

	if t.dealerPos >= 0 && i <= t.dealerPos {
		t.dealerPos--
		if t.dealerPos < 0 {
			t.dealerPos = n - 1
		}
	}

	if t.currentIdx >= 0 && i <= t.currentIdx {
		t.currentIdx--
		if t.currentIdx < 0 {
			t.currentIdx = n - 1
		}
	}

	return p
}
