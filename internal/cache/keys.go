package cache

import "time"

const (
	// WSTicketTTL bounds how long a WebSocket ticket can be redeemed.
	WSTicketTTL = 30 * time.Second
)

// RevokedTokenKey marks a token id as revoked until its natural expiry.
func RevokedTokenKey(jti string) string {
	return "blacklist:" + jti
}

// WSTicketKey stores the principal a single-use WebSocket ticket belongs to.
func WSTicketKey(ticket string) string {
	return "ws_ticket:" + ticket
}
