package game

// buildSnapshot projects the authoritative public view of the room.
// currentWord never appears here, only wordLength and maskedWord.
func (r *Room) buildSnapshot() RoomSyncPayload {
	players := make([]PlayerSnapshot, 0, len(r.drawerOrder))
	for _, id := range r.drawerOrder {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		players = append(players, PlayerSnapshot{
			ID:          p.ID,
			Name:        p.Name,
			Score:       p.Score,
			IsHost:      p.IsHost,
			IsDrawing:   p.IsDrawing,
			HasGuessed:  p.HasGuessed,
			Avatar:      p.Avatar,
			IsConnected: p.connected,
		})
	}

	wordLength := 0
	if r.currentWord != "" {
		wordLength = len([]rune(r.currentWord))
	}

	return RoomSyncPayload{
		Room: RoomSyncRoom{
			ID:            r.id,
			Code:          r.code,
			Phase:         r.phase,
			Round:         r.round + 1,
			Turn:          r.turn,
			MaxRounds:     r.settings.MaxRounds,
			TimeLeft:      r.timeLeft,
			DrawTime:      int(r.settings.DrawTime.Seconds()),
			CurrentDrawer: r.currentDrawerID,
			WordLength:    wordLength,
			MaskedWord:    r.maskedWord,
			Theme:         r.settings.Theme,
			IsPrivate:     r.settings.IsPrivate,
			MaxPlayers:    r.settings.MaxPlayers,
		},
		Players: players,
	}
}

// broadcast sends event to every connected member. This is the
// all-recipients half of the room's broadcast partitioning: anything
// that isn't drawer/sender-specific goes through here.
func (r *Room) broadcast(event string, payload any) {
	for _, p := range r.players {
		if p.connected && p.conn != nil {
			p.conn.Send(event, payload)
		}
	}
}

// broadcastExcept is broadcast but skipping one player, used for
// forwarding stroke/clear/undo events to every *other* member.
func (r *Room) broadcastExcept(exceptID, event string, payload any) {
	for id, p := range r.players {
		if id == exceptID {
			continue
		}
		if p.connected && p.conn != nil {
			p.conn.Send(event, payload)
		}
	}
}

// unicast sends event only to one player. This is the other half of
// the room's broadcast partitioning: game:choose_word, game:word,
// game:close_guess and a reconnecting player's room:sync flow through
// this single method, not ad-hoc per-event checks. Kick sends its
// player:kicked notice on the target's connection directly.
func (r *Room) unicast(playerID, event string, payload any) {
	p, ok := r.players[playerID]
	if !ok || !p.connected || p.conn == nil {
		return
	}
	p.conn.Send(event, payload)
}

// broadcastSync emits the authoritative snapshot to the whole room.
// Called after every state-changing event.
func (r *Room) broadcastSync() {
	r.broadcast(EventRoomSync, r.buildSnapshot())
}

func (r *Room) addChatMessage(msg ChatMessage) {
	r.chatHistory = append(r.chatHistory, msg)
	if len(r.chatHistory) > r.tunables.ChatHistoryCap {
		r.chatHistory = r.chatHistory[len(r.chatHistory)-r.tunables.ChatHistoryCap:]
	}
}

func (r *Room) chatHistorySnapshot() []ChatMessage {
	out := make([]ChatMessage, len(r.chatHistory))
	copy(out, r.chatHistory)
	return out
}

func toChatEvent(m ChatMessage) ChatMessageEvent {
	return ChatMessageEvent{
		ID:         m.ID,
		PlayerID:   m.PlayerID,
		PlayerName: m.PlayerName,
		Text:       m.Text,
		Timestamp:  m.Timestamp,
		IsGuess:    m.IsGuess,
		IsClose:    m.IsClose,
	}
}
