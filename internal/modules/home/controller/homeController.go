package controller

import (
	"log/slog"
	"net/http"

	"redunap/internal/modules/home"
	u "redunap/internal/modules/user"
	resp "redunap/pkg/lib/response"
)

type HomeController struct {
	log *slog.Logger
	uc  home.UseCase
}

func NewHomeController(log *slog.Logger, uc home.UseCase) *HomeController {
	return &HomeController{
		log: log,
		uc:  uc,
	}
}

// GetDashboard
// @Summary Dashboard with stats, recent stories and navigation flags
// @Tags home
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} response.SuccessResponse "Dashboard"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /home/dashboard [get]
func (c *HomeController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "GetDashboardHandler"))

	role, _ := r.Context().Value("role").(string)

	dashboard, err := c.uc.GetDashboard(role)
	if err != nil {
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, home.ErrInternal.Error())
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, dashboard)
}

// GetGuestDashboard
// @Summary Public dashboard for unauthenticated visitors
// @Tags home
// @Produce json
// @Success 200 {object} response.SuccessResponse "Dashboard"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /home/guest [get]
func (c *HomeController) GetGuestDashboard(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "GetGuestDashboardHandler"))

	dashboard, err := c.uc.GetDashboard(u.RoleGuest)
	if err != nil {
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, home.ErrInternal.Error())
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, dashboard)
}

// GetJobsStatus
// @Summary Background job status (admin only)
// @Tags home
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} response.SuccessResponse "Job statuses"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Router /home/jobs [get]
func (c *HomeController) GetJobsStatus(w http.ResponseWriter, r *http.Request) {
	resp.SendSuccess(w, r, http.StatusOK, c.uc.GetJobsStatus())
}
