package constants

import "fmt"

// Redis key layout for the whole application.
// Pattern: ticketly:{module}:{operation}:{identifier}

const CachePrefix = "ticketly"

// Read-side metadata cache keys. Booking and payment state never lives in
// Redis; only immutable or slowly changing metadata is cached.
const (
	cacheKeyEventDetail   = CachePrefix + ":event:"   // + event-id
	cacheKeyTicketResolve = CachePrefix + ":resolve:" // + event-id:ticket-id
)

// Rate limiter key prefix, one sorted set per client IP and limit class
const RateLimitPrefix = CachePrefix + ":ratelimit"

// EventDetailKey builds the cache key for one event's metadata
func EventDetailKey(eventID string) string {
	return cacheKeyEventDetail + eventID
}

// TicketResolveKey builds the cache key for a resolved booking ticket
func TicketResolveKey(eventID, ticketID string) string {
	return fmt.Sprintf("%s%s:%s", cacheKeyTicketResolve, eventID, ticketID)
}

// RateLimitKey builds the sliding window key for one client and class
func RateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("%s:%s:%s", RateLimitPrefix, clientIP, limitType)
}
