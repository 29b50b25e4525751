package game

// persistNow asks the registry to durably record the room's current
// shape. Fire-and-forget: persist is nil in tests
// and in any deployment that opts out of the store entirely.
func (r *Room) persistNow() {
	if r.persist == nil {
		return
	}
	r.persist(r.toPersisted())
}

func (r *Room) toPersisted() PersistedRoom {
	players := make([]PersistedPlayer, 0, len(r.drawerOrder))
	for _, id := range r.drawerOrder {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		players = append(players, PersistedPlayer{
			ID:        p.ID,
			UserID:    p.OptionalUserID,
			Name:      p.Name,
			Avatar:    p.Avatar,
			SessionID: p.SessionID,
			Score:     p.Score,
			IsHost:    p.IsHost,
		})
	}

	return PersistedRoom{
		ID:           r.id,
		Code:         r.code,
		HostID:       r.hostID,
		Theme:        r.settings.Theme,
		IsPrivate:    r.settings.IsPrivate,
		MaxPlayers:   r.settings.MaxPlayers,
		MaxRounds:    r.settings.MaxRounds,
		DrawTime:     r.settings.DrawTime,
		Phase:        r.phase,
		PlayerCount:  len(r.players),
		LastActivity: r.lastActivity,
		CreatedAt:    r.createdAt,
		Players:      players,
	}
}
