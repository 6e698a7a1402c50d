package venues

// CreateVenueRequest represents venue creation payload
type CreateVenueRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=200"`
	City    string `json:"city" binding:"required,min=2,max=100"`
	Address string `json:"address" binding:"max=500"`
}

// RowLayoutRequest represents one row of a screen layout
type RowLayoutRequest struct {
	Row      string `json:"row" binding:"required,min=1,max=3"`
	Seats    int    `json:"seats" binding:"required,min=1,max=100"`
	SeatType string `json:"seat_type,omitempty"`
}

// AddScreenRequest represents screen creation payload
type AddScreenRequest struct {
	Name   string             `json:"name" binding:"required,min=1,max=100"`
	Layout []RowLayoutRequest `json:"layout" binding:"required,min=1,dive"`
}
