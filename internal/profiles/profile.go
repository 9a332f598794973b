package profiles

import "errors"

var ErrProfileNotFound = errors.New("profile not found")

// Profile holds the demographic data maintained by the external profile CRUD.
// All fields except UserID stay nil until the user fills them in.
type Profile struct {
	UserID int      `json:"userId"`
	Gender *string  `json:"gender"`
	Age    *int     `json:"age"`
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
}
