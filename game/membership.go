package game

import (
	"time"
)

// JoinResult carries what a successful join needs to send back to
// the joining client: roomId/roomCode are already known to the
// caller, so only the assigned playerId and recent chat travel here.
type JoinResult struct {
	PlayerID string
	Chat     []ChatMessage
}

// Join adds player to the room. Rejected with ErrWrongPhase if the
// room isn't in lobby, or ErrRoomFull if at capacity. A player id
// already present in kickDenylist is rejected with ErrBanned.
func (r *Room) Join(p *Player) (JoinResult, error) {
	resultCh := make(chan struct {
		res JoinResult
		err error
	}, 1)
	r.enqueue(func() {
		res, err := r.handleJoin(p)
		resultCh <- struct {
			res JoinResult
			err error
		}{res, err}
	})
	out := <-resultCh
	return out.res, out.err
}

func (r *Room) handleJoin(p *Player) (JoinResult, error) {
	if until, denied := r.kickDenylist[p.ID]; denied {
		if time.Now().Before(until) {
			return JoinResult{}, ErrBanned
		}
		delete(r.kickDenylist, p.ID)
	}

	if existing, ok := r.players[p.ID]; ok {
		// Rejoin with a preserved player id: restore their session
		// instead of adding a duplicate member.
		return r.handleReconnectLocked(existing, p.conn)
	}

	if r.phase != PhaseLobby {
		return JoinResult{}, ErrWrongPhase
	}
	if len(r.players) >= r.settings.MaxPlayers {
		return JoinResult{}, ErrRoomFull
	}

	p.connected = p.conn != nil
	r.players[p.ID] = p
	r.drawerOrder = append(r.drawerOrder, p.ID)
	r.touch()

	r.broadcast(EventPlayerJoined, PlayerJoinedPayload{PlayerID: p.ID, PlayerName: p.Name})
	r.broadcastSync()
	r.persistNow()

	return JoinResult{PlayerID: p.ID, Chat: r.chatHistorySnapshot()}, nil
}

// Leave removes player fully from the room: players, drawerOrder, and
// guessedOrder. Used for the explicit room:leave event and for
// player:kick.
func (r *Room) Leave(playerID string) {
	r.enqueue(func() { r.handleLeave(playerID) })
}

func (r *Room) handleLeave(playerID string) {
	p, ok := r.players[playerID]
	if !ok {
		return
	}

	wasHost := p.IsHost
	wasDrawer := r.currentDrawerID == playerID

	delete(r.players, playerID)
	r.drawerOrder = removeString(r.drawerOrder, playerID)
	r.guessedOrder = removeString(r.guessedOrder, playerID)
	r.touch()

	if wasHost && len(r.drawerOrder) > 0 {
		r.promoteHost(r.drawerOrder[0])
	}

	if wasDrawer && (r.phase == PhaseDrawing || r.phase == PhaseChoosing) {
		r.enterRoundEnd("drawer left")
	}

	if len(r.players) == 0 {
		r.armEmptyRoomCleanup()
	} else {
		r.broadcastSync()
	}
	r.persistNow()
}

// Disconnect marks a player's transport as gone without evicting
// their membership, so Reconnect can restore them later. If every
// member is now disconnected the empty-room cleanup clock starts,
// same as a full leave.
func (r *Room) Disconnect(playerID string) {
	r.enqueue(func() { r.handleDisconnect(playerID) })
}

func (r *Room) handleDisconnect(playerID string) {
	p, ok := r.players[playerID]
	if !ok || !p.connected {
		return
	}
	p.connected = false
	p.conn = nil
	r.touch()

	r.broadcast(EventPlayerDisconn, PlayerDisconnectedPayload{PlayerID: playerID})

	if r.currentDrawerID == playerID && (r.phase == PhaseDrawing || r.phase == PhaseChoosing) {
		r.enterRoundEnd("drawer left")
	}

	if r.hasNoConnectedPlayers() {
		r.armEmptyRoomCleanup()
	} else {
		r.broadcastSync()
	}
}

// Reconnect re-associates a still-member player with a new session
// and privately re-syncs them.
func (r *Room) Reconnect(playerID string, conn Sender) (JoinResult, error) {
	resultCh := make(chan struct {
		res JoinResult
		err error
	}, 1)
	r.enqueue(func() {
		p, ok := r.players[playerID]
		if !ok {
			resultCh <- struct {
				res JoinResult
				err error
			}{JoinResult{}, ErrNotMember}
			return
		}
		res, err := r.handleReconnectLocked(p, conn)
		resultCh <- struct {
			res JoinResult
			err error
		}{res, err}
	})
	out := <-resultCh
	return out.res, out.err
}

func (r *Room) handleReconnectLocked(p *Player, conn Sender) (JoinResult, error) {
	p.connected = true
	p.conn = conn
	r.touch()
	r.cancelTimer(timerEmptyCleanup(r.id))

	r.unicast(p.ID, EventRoomSync, r.buildSnapshot())
	r.broadcastSync()

	return JoinResult{PlayerID: p.ID, Chat: r.chatHistorySnapshot()}, nil
}

// Kick is player:kick: a leave plus a disconnect notice to the kicked
// client and a short deny-list entry so they can't immediately rejoin.
func (r *Room) Kick(requesterID, targetID string) error {
	errCh := make(chan error, 1)
	r.enqueue(func() {
		requester, ok := r.players[requesterID]
		if !ok || !requester.IsHost {
			errCh <- ErrNotAuthorised
			return
		}
		target, ok := r.players[targetID]
		if !ok {
			errCh <- ErrNotMember
			return
		}

		if target.conn != nil {
			target.conn.Send(EventPlayerKicked, PlayerKickedPayload{Reason: "kicked"})
		}
		r.kickDenylist[targetID] = time.Now().Add(r.tunables.KickDenylistTTL)
		r.handleLeave(targetID)
		errCh <- nil
	})
	return <-errCh
}

func (r *Room) promoteHost(newHostID string) {
	for _, p := range r.players {
		p.IsHost = false
	}
	newHost, ok := r.players[newHostID]
	if !ok {
		return
	}
	newHost.IsHost = true
	r.hostID = newHostID
	r.broadcast(EventHostChanged, HostChangedPayload{NewHostID: newHost.ID, NewHostName: newHost.Name})
}

func (r *Room) hasNoConnectedPlayers() bool {
	for _, p := range r.players {
		if p.connected {
			return false
		}
	}
	return true
}

func (r *Room) connectedNonDrawerCount() int {
	n := 0
	for _, p := range r.players {
		if p.connected && p.ID != r.currentDrawerID {
			n++
		}
	}
	return n
}

func (r *Room) armEmptyRoomCleanup() {
	r.setTimer(timerEmptyCleanup(r.id), r.tunables.EmptyRoomGrace, func() {
		if r.stopped {
			return
		}
		if len(r.players) == 0 || r.hasNoConnectedPlayers() {
			if r.onDestroy != nil {
				r.onDestroy(r.id)
			}
		}
	})
}

// timerEmptyCleanup namespaces the cleanup timer key; kept as a
// function (not a bare constant) because every room owns its own
// timer map already, this just documents intent at call sites.
func timerEmptyCleanup(roomID string) string { return "empty-cleanup" }

func removeString(list []string, s string) []string {
	out := list[:0:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
