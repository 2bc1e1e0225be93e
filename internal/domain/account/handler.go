package account

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"laborhub/internal/domain"
	"laborhub/internal/pkg/response"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type LaborResponse struct {
	ID            int64                `json:"id"`
	Name          string               `json:"name"`
	Phone         string               `json:"phone,omitempty"`
	SkillCategory domain.SkillCategory `json:"skill_category"`
	PaymentType   domain.PaymentType   `json:"payment_type"`
	Rate          float64              `json:"rate"`
}

func toLaborResponse(l *domain.Labor) LaborResponse {
	return LaborResponse{
		ID:            l.ID,
		Name:          l.Name,
		Phone:         l.Phone,
		SkillCategory: l.SkillCategory,
		PaymentType:   l.PaymentType,
		Rate:          l.Rate,
	}
}

// ListLabors godoc
// @Summary List labors
// @Description Labors with their skill, rate and payment type. Filter by skill, payment type and maximum rate.
// @Tags Labors
// @Produce json
// @Param skill query string false "Skill category" example("Plumber")
// @Param payment_type query string false "Hourly or Daily"
// @Param max_rate query number false "Maximum rate"
// @Param page query integer false "Page number" example(1)
// @Param limit query integer false "Page size (max 100)" example(20)
// @Router /labors [get]
func (h *Handler) ListLabors(c *gin.Context) {
	f := LaborFilters{
		Skill:       c.Query("skill"),
		PaymentType: c.Query("payment_type"),
		Page:        1,
		Limit:       20,
	}
	if v := c.Query("max_rate"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxRate = val
		}
	}
	if v := c.Query("limit"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 && val <= 100 {
			f.Limit = val
		}
	}
	if v := c.Query("page"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			f.Page = val
		}
	}

	labors, total, err := h.repo.ListLabors(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	out := make([]LaborResponse, 0, len(labors))
	for i := range labors {
		out = append(out, toLaborResponse(&labors[i]))
	}
	response.Success(c, http.StatusOK, gin.H{
		"labors": out,
		"pagination": gin.H{
			"page":  f.Page,
			"limit": f.Limit,
			"total": total,
		},
	})
}

func (h *Handler) GetLabor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid labor id")
		return
	}
	l, err := h.repo.GetLabor(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if l == nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Labor not found.")
		return
	}
	response.Success(c, http.StatusOK, toLaborResponse(l))
}
