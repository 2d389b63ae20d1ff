package dto

// UpdateLeaderRequest partial roster entry update.
type UpdateLeaderRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=200"`
	Position *string `json:"position" binding:"omitempty,min=1,max=200"`
	Photo    *string `json:"photo"    binding:"omitempty,max=500"`
	Order    *int    `json:"order"`
}
