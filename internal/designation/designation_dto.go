package designation

type CreateDesignationRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description"`
}

type UpdateDesignationRequest struct {
	Title       string `json:"title" binding:"required,max=100"`
	Description string `json:"description"`
}

type DesignationResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func mapToResponse(d Designation) DesignationResponse {
	return DesignationResponse{
		ID:          d.ID.String(),
		Title:       d.Title,
		Description: d.Description,
	}
}
