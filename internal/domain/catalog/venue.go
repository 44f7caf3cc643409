package catalog

import "time"

// Venue は劇場を表す
type Venue struct {
	ID        string
	Name      string
	City      string
	Address   string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate は劇場データの検証を行う
func (v *Venue) Validate() error {
	if v.Name == "" {
		return ErrVenueNameRequired
	}
	if v.Timezone == "" {
		return ErrVenueTimezoneRequired
	}
	return nil
}
