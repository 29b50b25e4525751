package game

import (
	"math"
	"strings"
	"time"

	"github.com/limoondev/backend-drawly/guess"
	"github.com/limoondev/backend-drawly/idgen"
)

// Chat is chat:message: during drawing, every message from a
// non-drawer who has not yet guessed correctly this turn is
// arbitrated as a guess before it is ever treated as ordinary chat.
func (r *Room) Chat(playerID, text string) error {
	errCh := make(chan error, 1)
	r.enqueue(func() {
		errCh <- r.handleChat(playerID, text)
	})
	return <-errCh
}

func (r *Room) handleChat(playerID, text string) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrNotMember
	}
	if p.limiter != nil && !p.limiter.Allow() {
		return ErrRateLimited
	}
	text = strings.TrimSpace(text)
	if text == "" || len([]rune(text)) > r.tunables.MaxChatLength {
		return ErrInvalidInput
	}

	isGuessAttempt := r.phase == PhaseDrawing && playerID != r.currentDrawerID && !p.HasGuessed
	if isGuessAttempt {
		verdict := guess.Evaluate(text, r.currentWord)
		switch {
		case verdict.Correct:
			r.applyCorrectGuess(p)
			return nil
		case verdict.Close:
			r.applyCloseGuess(p, text)
			return nil
		}
	}

	msg := ChatMessage{
		ID:         idgen.NewID(),
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Text:       text,
		Timestamp:  time.Now(),
		IsGuess:    isGuessAttempt,
	}
	r.addChatMessage(msg)
	r.broadcast(EventChatMessage, toChatEvent(msg))
	return nil
}

// applyCorrectGuess scores the guesser and the drawer, then checks
// whether every connected non-drawer has now guessed correctly,
// settling the turn one second later if so.
func (r *Room) applyCorrectGuess(p *Player) {
	p.HasGuessed = true
	r.guessedOrder = append(r.guessedOrder, p.ID)

	drawSeconds := int(r.settings.DrawTime.Seconds())
	k := len(r.guessedOrder) // 1-based arrival index, this guesser included
	timeBonus := 0
	if drawSeconds > 0 {
		timeBonus = int(math.Floor(float64(r.timeLeft) / float64(drawSeconds) * 100))
	}
	orderBonus := 100 - k*20
	if orderBonus < 0 {
		orderBonus = 0
	}
	points := 100 + timeBonus + orderBonus
	p.Score += points

	if drawer, ok := r.players[r.currentDrawerID]; ok {
		drawer.Score += 25
	}

	r.broadcast(EventCorrectGuess, CorrectGuessPayload{PlayerID: p.ID, PlayerName: p.Name, Points: points})
	r.broadcastSync()

	if r.connectedNonDrawerCount() > 0 && len(r.guessedOrder) >= r.connectedNonDrawerCount() {
		r.setTimer(timerSettle, r.tunables.SettleDelay, func() {
			r.enterRoundEnd("all guessed")
		})
	}
}

// applyCloseGuess tells only the guesser how close they were; the rest
// of the room sees an ordinary chat line flagged isClose so nobody
// else can read the near-miss as a spoiler.
func (r *Room) applyCloseGuess(p *Player, text string) {
	msg := ChatMessage{
		ID:         idgen.NewID(),
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Text:       text,
		Timestamp:  time.Now(),
		IsGuess:    true,
		IsClose:    true,
	}
	event := toChatEvent(msg)
	r.unicast(p.ID, EventCloseGuess, CloseGuessPayload{Message: event})
	r.broadcastExcept(p.ID, EventChatMessage, maskedCloseEvent(event))
}

// maskedCloseEvent strips the guessed text from the broadcast copy of
// a close guess: everyone else learns someone was close, not what
// they typed.
func maskedCloseEvent(e ChatMessageEvent) ChatMessageEvent {
	e.Text = ""
	return e
}
