// README: Owner property listings injected into the owner assistant prompt.
package property

import "errors"

var ErrUnavailable = errors.New("property store unavailable")

// Listing is one property as shown to its owner.
type Listing struct {
	ID            int64
	Name          string
	Type          string
	Location      string
	City          string
	State         string
	Description   string
	PricePerNight float64
	Bedrooms      int
	Bathrooms     int
	MaxGuests     int
	Amenities     string
	IsActive      bool
}
