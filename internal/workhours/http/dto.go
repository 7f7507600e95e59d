package http

import (
	"time"

	"github.com/petcare-clinic/petcare-backend/internal/workhours"
)

type ListWorkingHoursRequest struct {
	DayOfWeek *int `form:"day_of_week" binding:"omitempty,min=0,max=6"`
}

type WorkingHoursResponse struct {
	ID        string    `json:"id"`
	DayOfWeek int       `json:"day_of_week"`
	DayName   string    `json:"day_name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

func NewWorkingHoursResponse(w *workhours.Window) WorkingHoursResponse {
	return WorkingHoursResponse{
		ID:        w.ID,
		DayOfWeek: w.DayOfWeek,
		DayName:   w.DayName(),
		StartTime: w.Start.String(),
		EndTime:   w.End.String(),
		CreatedAt: w.CreatedAt,
	}
}

type CreateWorkingHoursRequest struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type UpdateWorkingHoursRequest struct {
	DayOfWeek *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}
