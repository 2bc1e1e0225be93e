package account

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"laborhub/internal/database"
	"laborhub/internal/domain"
)

func setupTestRouter(t *testing.T) (*gin.Engine, Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(fmt.Sprintf("file:account_test_%s?mode=memory&cache=shared", t.Name()), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := NewRepository(db)
	r := gin.New()
	NewHandler(repo).RegisterRoutes(r.Group("/api/v1"))
	return r, repo
}

func seedLabors(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()
	for _, l := range []domain.Labor{
		{Name: "Aziz", Email: "aziz@example.com", SkillCategory: domain.SkillPlumber, PaymentType: domain.PaymentTypeHourly, Rate: 500},
		{Name: "Bella", Email: "bella@example.com", SkillCategory: domain.SkillPlumber, PaymentType: domain.PaymentTypeDaily, Rate: 3000},
		{Name: "Chen", Email: "chen@example.com", SkillCategory: domain.SkillElectrician, PaymentType: domain.PaymentTypeHourly, Rate: 700},
	} {
		require.NoError(t, repo.CreateLabor(ctx, &l))
	}
}

type listBody struct {
	Data struct {
		Labors     []LaborResponse `json:"labors"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	} `json:"data"`
}

func TestListLabors_FilterBySkill(t *testing.T) {
	r, repo := setupTestRouter(t)
	seedLabors(t, repo)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/labors?skill=plumber", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.Data.Pagination.Total)
	require.Len(t, body.Data.Labors, 2)
	assert.Equal(t, "Aziz", body.Data.Labors[0].Name)
	assert.Equal(t, 500.0, body.Data.Labors[0].Rate)
}

func TestListLabors_MaxRate(t *testing.T) {
	r, repo := setupTestRouter(t)
	seedLabors(t, repo)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/labors?max_rate=800", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body listBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Data.Labors, 2)
}

func TestGetLabor(t *testing.T) {
	r, repo := setupTestRouter(t)
	seedLabors(t, repo)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/labors/3", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/labors/99", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRepository_MissingReturnsNil(t *testing.T) {
	_, repo := setupTestRouter(t)

	l, err := repo.GetLabor(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, l)

	c, err := repo.GetCustomer(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, c)
}
