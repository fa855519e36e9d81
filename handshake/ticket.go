package handshake

import "github.com/packetgate/tlscore/alert"

// buildNewSessionTicket implements spec.md §4.3's NewSessionTicket:
// "emitted before server ChangeCipherSpec when a new ticket was
// requested; the ticket body is produced by the external ticket
// writer with a lifetime hint."
func (c *Context) buildNewSessionTicket() ([]byte, error) {
	if c.Collaborators == nil || c.Collaborators.TicketWrite == nil {
		return nil, alert.ErrFeatureUnavailable
	}
	ticket, lifetimeHint, err := c.Collaborators.TicketWrite(c)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 4, 4+2+len(ticket))
	body[0] = byte(lifetimeHint >> 24)
	body[1] = byte(lifetimeHint >> 16)
	body[2] = byte(lifetimeHint >> 8)
	body[3] = byte(lifetimeHint)
	body = append(body, byte(len(ticket)>>8), byte(len(ticket)))
	body = append(body, ticket...)
	return body, nil
}
