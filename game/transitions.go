package game

import (
	"time"
)

// StartGame is game:start: only the host may start, only from
// lobby, and only with at least tunables.MinPlayers members.
func (r *Room) StartGame(playerID string) error {
	errCh := make(chan error, 1)
	r.enqueue(func() {
		errCh <- r.handleStartGame(playerID)
	})
	return <-errCh
}

func (r *Room) handleStartGame(playerID string) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrNotMember
	}
	if !p.IsHost {
		return ErrNotAuthorised
	}
	if r.phase != PhaseLobby {
		return ErrWrongPhase
	}
	if len(r.players) < r.tunables.MinPlayers {
		return ErrInvalidInput
	}

	r.starting = true
	r.round = 0
	r.turn = 0
	for _, pl := range r.players {
		pl.Score = 0
	}

	r.broadcast(EventGameStarting, GameStartingPayload{Countdown: int(r.tunables.StartCountdown.Seconds())})
	r.setTimer(timerStartCountdown, r.tunables.StartCountdown, func() {
		r.starting = false
		r.enterChoosing()
	})
	return nil
}

// UpdateSettings is room:settings: host-only, lobby-only. A drawTime
// outside [30,180]s or a maxRounds outside [1,10] is rejected with
// ErrInvalidInput.
func (r *Room) UpdateSettings(playerID string, in RoomSettingsPayload) error {
	errCh := make(chan error, 1)
	r.enqueue(func() {
		errCh <- r.handleUpdateSettings(playerID, in)
	})
	return <-errCh
}

func (r *Room) handleUpdateSettings(playerID string, in RoomSettingsPayload) error {
	p, ok := r.players[playerID]
	if !ok {
		return ErrNotMember
	}
	if !p.IsHost {
		return ErrNotAuthorised
	}
	if r.phase != PhaseLobby {
		return ErrWrongPhase
	}

	if in.DrawTime != nil {
		dt := *in.DrawTime
		if dt < 30 || dt > 180 {
			return ErrInvalidInput
		}
		r.settings.DrawTime = time.Duration(dt) * time.Second
	}
	if in.MaxRounds != nil {
		mr := *in.MaxRounds
		if mr < 1 || mr > 10 {
			return ErrInvalidInput
		}
		r.settings.MaxRounds = mr
	}

	r.touch()
	r.broadcastSync()
	r.persistNow()
	return nil
}

// enterChoosing starts a turn: pick the next drawer from drawerOrder,
// reset per-turn guess state, offer three distinct words privately to
// the drawer, and arm the auto-pick timer.
func (r *Room) enterChoosing() {
	if len(r.drawerOrder) == 0 {
		return
	}

	r.phase = PhaseChoosing
	r.cancelTimer(timerTick)
	r.cancelTimer(timerPostTurn)
	r.cancelTimer(timerSettle)

	for _, p := range r.players {
		p.IsDrawing = false
		p.HasGuessed = false
	}
	r.guessedOrder = nil
	r.currentWord = ""
	r.maskedWord = ""
	r.timeLeft = 0

	drawerID := r.drawerOrder[r.turn]
	r.currentDrawerID = drawerID
	if drawer, ok := r.players[drawerID]; ok {
		drawer.IsDrawing = true
	}

	words, err := r.catalogue.RandomWords(r.settings.Theme, 3)
	if err != nil || len(words) == 0 {
		words, _ = r.catalogue.RandomWords("default", 3)
	}
	r.offeredWords = words

	r.unicast(drawerID, EventChooseWord, ChooseWordPayload{Words: words})
	r.setTimer(timerAutoPick, r.tunables.AutoPickTimeout, func() {
		r.enterDrawingWithWord(firstOrEmpty(r.offeredWords))
	})

	r.touch()
	r.broadcastSync()
}

// SelectWord is game:select_word: only the current drawer, only
// during choosing, and only for a word that was actually offered.
func (r *Room) SelectWord(playerID, word string) error {
	errCh := make(chan error, 1)
	r.enqueue(func() {
		if playerID != r.currentDrawerID {
			errCh <- ErrNotAuthorised
			return
		}
		if r.phase != PhaseChoosing {
			errCh <- ErrWrongPhase
			return
		}
		if !containsString(r.offeredWords, word) {
			errCh <- ErrInvalidInput
			return
		}
		r.cancelTimer(timerAutoPick)
		r.enterDrawingWithWord(word)
		errCh <- nil
	})
	return <-errCh
}

// enterDrawingWithWord transitions choosing -> drawing for the word
// chosen, explicitly or by auto-pick timeout.
func (r *Room) enterDrawingWithWord(word string) {
	if word == "" {
		return
	}
	r.phase = PhaseDrawing
	r.currentWord = word
	r.maskedWord = r.catalogue.Mask(word)
	r.timeLeft = int(r.settings.DrawTime.Seconds())
	r.offeredWords = nil

	r.unicast(r.currentDrawerID, EventWord, WordPayload{Word: word})

	r.broadcast(EventTurnStart, TurnStartPayload{
		DrawerID:   r.currentDrawerID,
		WordLength: len([]rune(word)),
		MaskedWord: r.maskedWord,
		TimeLeft:   r.timeLeft,
	})

	r.setTimer(timerTick, time.Second, r.tick)
	r.touch()
	r.broadcastSync()
}

// tick is the drawing-phase 1s clock: decrements timeLeft, reveals
// a hint letter on the configured cadence, and ends the turn at zero.
func (r *Room) tick() {
	if r.phase != PhaseDrawing {
		return
	}
	r.timeLeft--

	drawSeconds := int(r.settings.DrawTime.Seconds())
	hintEvery := int(r.tunables.HintInterval.Seconds())
	if hintEvery > 0 && r.timeLeft > 10 && r.timeLeft%hintEvery == 0 && r.timeLeft < drawSeconds-10 {
		if revealed, ok := r.catalogue.RevealRandomLetter(r.currentWord, r.maskedWord); ok {
			r.maskedWord = revealed
			r.broadcast(EventHint, HintPayload{MaskedWord: r.maskedWord})
		}
	}

	if r.timeLeft <= 0 {
		r.enterRoundEnd("time up")
		return
	}

	r.broadcast(EventTimeUpdate, TimeUpdatePayload{TimeLeft: r.timeLeft})
	r.setTimer(timerTick, time.Second, r.tick)
}

// enterRoundEnd closes out the current turn: reveals the word, cancels
// the drawing timers, and schedules the post-turn delay before
// advancing.
func (r *Room) enterRoundEnd(reason string) {
	if r.phase != PhaseDrawing && r.phase != PhaseChoosing {
		return
	}
	allGuessed := r.connectedNonDrawerCount() > 0 && len(r.guessedOrder) >= r.connectedNonDrawerCount()

	r.phase = PhaseRoundEnd
	r.cancelTimer(timerTick)
	r.cancelTimer(timerAutoPick)

	r.broadcast(EventTurnEnd, TurnEndPayload{
		Word:       r.currentWord,
		Reason:     reason,
		AllGuessed: allGuessed,
	})
	r.touch()
	r.broadcastSync()
	r.persistNow()

	r.setTimer(timerPostTurn, r.tunables.TurnEndDelay, r.advanceTurn)
}

// advanceTurn moves to the next drawer, next round, or game end.
func (r *Room) advanceTurn() {
	if len(r.drawerOrder) == 0 {
		return
	}
	next := r.turn + 1
	if next < len(r.drawerOrder) {
		r.turn = next
		r.enterChoosing()
		return
	}

	if r.round+1 < r.settings.MaxRounds {
		r.round++
		r.turn = 0
		r.broadcast(EventRoundEnd, RoundEndPayload{Round: r.round + 1})
		r.enterChoosing()
		return
	}

	r.enterGameEnd()
}

// enterGameEnd computes final rankings (ties broken by earlier arrival
// in drawerOrder, stable against map iteration) and returns the room
// to a state play:again can restart from.
func (r *Room) enterGameEnd() {
	r.phase = PhaseGameEnd
	r.cancelAllTimers()

	entries := make([]RankingEntry, 0, len(r.drawerOrder))
	for _, id := range r.drawerOrder {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		entries = append(entries, RankingEntry{ID: p.ID, Name: p.Name, Score: p.Score, UserID: p.OptionalUserID})
	}
	sortRankings(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}

	r.touch()
	r.broadcast(EventGameEnded, GameEndedPayload{Rankings: entries})
	r.broadcastSync()
	r.persistNow()
}

// PlayAgain is game:play_again: host-only, gameEnd-only, resets
// scores and turn/round counters but keeps membership and drawerOrder
// intact.
func (r *Room) PlayAgain(playerID string) error {
	errCh := make(chan error, 1)
	r.enqueue(func() {
		p, ok := r.players[playerID]
		if !ok {
			errCh <- ErrNotMember
			return
		}
		if !p.IsHost {
			errCh <- ErrNotAuthorised
			return
		}
		if r.phase != PhaseGameEnd {
			errCh <- ErrWrongPhase
			return
		}
		r.round = 0
		r.turn = 0
		r.currentDrawerID = ""
		r.currentWord = ""
		r.maskedWord = ""
		for _, pl := range r.players {
			pl.Score = 0
			pl.IsDrawing = false
			pl.HasGuessed = false
		}
		r.phase = PhaseLobby
		r.touch()
		r.broadcastSync()
		r.persistNow()
		errCh <- nil
	})
	return <-errCh
}

func firstOrEmpty(words []string) string {
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// sortRankings orders entries by score descending, stable on input
// order for ties (insertion sort: these lists are at most MaxPlayers
// long, never worth pulling in sort for).
func sortRankings(entries []RankingEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Score > entries[j-1].Score; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}
