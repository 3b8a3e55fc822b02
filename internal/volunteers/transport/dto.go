package transport

import "time"

// CreateVolunteerRequest contains data for registering a volunteer.
type CreateVolunteerRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=200"`
	Phone   string `json:"phone" validate:"required,notblank,max=50"`
	Address string `json:"address" validate:"required,notblank,max=500"`
}

// SearchVolunteersRequest holds the raw search query parameters. All of them
// are optional at the binding level; the service decides which combination is
// acceptable.
type SearchVolunteersRequest struct {
	Latitude  *string `form:"latitude"`
	Longitude *string `form:"longitude"`
	Radius    *string `form:"radius"`
	Address   *string `form:"address"`
}

// VolunteerResponse represents a volunteer in API responses.
type VolunteerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	Distance  *float64  `json:"distance,omitempty"`
}

// SearchCenter is the point a radius search was run around.
type SearchCenter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SearchVolunteersResponse wraps the search results and the center used.
type SearchVolunteersResponse struct {
	Users        []VolunteerResponse `json:"users"`
	SearchCenter SearchCenter        `json:"searchCenter"`
}
