package game

// DrawEventPayload is the opaque envelope forwarded for draw:stroke,
// draw:clear, and draw:undo. The room treats stroke data as an
// opaque blob it forwards but never inspects or persists.
type DrawEventPayload struct {
	Data any `json:"data"`
}

// Stroke, Clear, and Undo forward a drawing event to every other
// member, rejecting anyone but the current drawer during drawing.
// All three share the same authorization rule below.
func (r *Room) Stroke(playerID string, data any) error {
	return r.forwardDrawEvent(playerID, EventDrawStroke, data)
}

func (r *Room) Clear(playerID string, data any) error {
	return r.forwardDrawEvent(playerID, EventDrawClear, data)
}

func (r *Room) Undo(playerID string, data any) error {
	return r.forwardDrawEvent(playerID, EventDrawUndo, data)
}

func (r *Room) forwardDrawEvent(playerID, event string, data any) error {
	errCh := make(chan error, 1)
	r.enqueue(func() {
		if r.phase != PhaseDrawing || playerID != r.currentDrawerID {
			errCh <- ErrNotAuthorised
			return
		}
		r.broadcastExcept(playerID, event, DrawEventPayload{Data: data})
		errCh <- nil
	})
	return <-errCh
}
