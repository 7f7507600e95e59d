package http

type AvailabilityRequest struct {
	Day     string `form:"day" binding:"required"`
	Period  string `form:"period"`
	Service string `form:"service"`
}

type PriceRequest struct {
	Service string `form:"service" binding:"required"`
	PetSize string `form:"pet_size"`
}

type SchedulingRequest struct {
	Message string `json:"message" binding:"required"`
}
