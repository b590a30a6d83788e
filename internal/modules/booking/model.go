// README: Booking lookup used to resolve the trip location from a booking id.
package booking

import "errors"

var (
	ErrNotFound    = errors.New("booking not found")
	ErrUnavailable = errors.New("booking store unavailable")
)

// Record is the slice of a booking and its property the concierge needs.
type Record struct {
	ID           int64
	PropertyName string
	Location     string
	Amenities    string
}
