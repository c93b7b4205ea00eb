package holiday

type CreateHolidayRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description"`
	IsOptional  bool   `json:"is_optional"`
}

type UpdateHolidayRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description"`
	IsOptional  bool   `json:"is_optional"`
}

type HolidayResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	IsOptional  bool   `json:"is_optional"`
	CreatedBy   string `json:"created_by,omitempty"`
}
