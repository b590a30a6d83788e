// README: Monthly allowance of AI calls per user.
package quota

import "errors"

// ErrExhausted is returned when a user has used up the allowance for the current month.
var ErrExhausted = errors.New("monthly AI quota exhausted")

// keyTTL outlives the longest month so a counter never expires mid-month.
const keyTTL = 35 * 24 * 60 * 60 // seconds
