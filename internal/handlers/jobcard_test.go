package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/autoserve/jobcard-backend/internal/auth"
	"github.com/autoserve/jobcard-backend/internal/db"
	"github.com/autoserve/jobcard-backend/internal/inventory"
	"github.com/autoserve/jobcard-backend/internal/jobcard"
	"github.com/autoserve/jobcard-backend/internal/middleware"
	"github.com/autoserve/jobcard-backend/internal/models"
)

// MockJobCardCollection is a mock implementation of db.JobCardCollection
type MockJobCardCollection struct {
	mock.Mock
}

func (m *MockJobCardCollection) InsertJobCard(ctx context.Context, card *models.JobCard) error {
	args := m.Called(ctx, card)
	if args.Error(0) == nil {
		card.ID = primitive.NewObjectID()
	}
	return args.Error(0)
}

func (m *MockJobCardCollection) FindJobCardByID(ctx context.Context, id string) (*models.JobCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobCard), args.Error(1)
}

func (m *MockJobCardCollection) FindJobCards(ctx context.Context) ([]models.JobCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JobCard), args.Error(1)
}

func (m *MockJobCardCollection) PushUpdate(ctx context.Context, id string, update models.Update, status models.JobStatus) error {
	args := m.Called(ctx, id, update, status)
	return args.Error(0)
}

func (m *MockJobCardCollection) PushPart(ctx context.Context, id string, part models.PartLine) error {
	args := m.Called(ctx, id, part)
	return args.Error(0)
}

func (m *MockJobCardCollection) SetStatus(ctx context.Context, id string, status models.JobStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	args := m.Called(ctx, id, user)
	return args.Error(0)
}

func (m *MockUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// testEnv wires the real router over mocked collections.
type testEnv struct {
	router      *chi.Mux
	authService *auth.Service
	cards       *MockJobCardCollection
	users       *MockUserCollection
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	authService, err := auth.NewService()
	require.NoError(t, err)

	cards := new(MockJobCardCollection)
	users := new(MockUserCollection)
	service := jobcard.NewService(cards, nil)

	router := NewRouter(
		NewAuthHandler(authService, users),
		NewJobCardHandler(service),
		NewKanbanHandler(service),
		NewInventoryHandler(inventory.NewStaticCatalog()),
		middleware.NewAuthMiddleware(authService),
	)

	return &testEnv{
		router:      router,
		authService: authService,
		cards:       cards,
		users:       users,
	}
}

func (e *testEnv) token(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := e.authService.GenerateToken(&models.User{
		ID:       primitive.NewObjectID(),
		Username: string(role) + "-user",
		Role:     role,
	})
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestJobCardHandler_Create(t *testing.T) {
	t.Run("service advisor creates a card", func(t *testing.T) {
		env := newTestEnv(t)
		env.cards.On("InsertJobCard", mock.Anything, mock.Anything).Return(nil)

		w := env.do(t, http.MethodPost, "/api/jobcards", env.token(t, models.RoleServiceAdvisor), map[string]string{
			"customerName": "Ravi Kumar",
			"vehicleType":  "4W",
			"vehicleNo":    "KA01AB1234",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var card models.JobCard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
		assert.Equal(t, models.StatusNew, card.Status)
		assert.Empty(t, card.Updates)
		assert.Empty(t, card.Parts)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/jobcards", env.token(t, models.RoleManager), map[string]string{
			"customerName": "Ravi Kumar",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("technician is forbidden", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/jobcards", env.token(t, models.RoleTechnician), map[string]string{
			"customerName": "Ravi Kumar",
			"vehicleType":  "4W",
			"vehicleNo":    "KA01AB1234",
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		env.cards.AssertNotCalled(t, "InsertJobCard", mock.Anything, mock.Anything)
	})

	t.Run("unauthenticated is rejected", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(t, http.MethodPost, "/api/jobcards", "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestJobCardHandler_Get(t *testing.T) {
	t.Run("bad id", func(t *testing.T) {
		env := newTestEnv(t)
		env.cards.On("FindJobCardByID", mock.Anything, "not-a-hex-id").Return(nil, db.ErrInvalidID)

		w := env.do(t, http.MethodGet, "/api/jobcards/not-a-hex-id", env.token(t, models.RoleCashier), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID().Hex()
		env.cards.On("FindJobCardByID", mock.Anything, id).Return(nil, db.ErrNotFound)

		w := env.do(t, http.MethodGet, "/api/jobcards/"+id, env.token(t, models.RoleCashier), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("existing card", func(t *testing.T) {
		env := newTestEnv(t)
		card := &models.JobCard{ID: primitive.NewObjectID(), CustomerName: "Ravi", Status: models.StatusDone}
		env.cards.On("FindJobCardByID", mock.Anything, card.ID.Hex()).Return(card, nil)

		w := env.do(t, http.MethodGet, "/api/jobcards/"+card.ID.Hex(), env.token(t, models.RoleTechnician), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var got models.JobCard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, card.ID, got.ID)
	})
}

func TestJobCardHandler_AddUpdate(t *testing.T) {
	t.Run("critical issue forces waiting_auth", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID()
		env.cards.On("PushUpdate", mock.Anything, id.Hex(), mock.MatchedBy(func(u models.Update) bool {
			return u.Status == models.StatusWaitingAuth && u.CriticalIssue
		}), models.StatusWaitingAuth).Return(nil)
		env.cards.On("FindJobCardByID", mock.Anything, id.Hex()).
			Return(&models.JobCard{ID: id, Status: models.StatusWaitingAuth}, nil)

		w := env.do(t, http.MethodPost, "/api/jobcards/"+id.Hex()+"/updates", env.token(t, models.RoleTechnician), map[string]interface{}{
			"status":        "done",
			"note":          "needs customer approval",
			"criticalIssue": true,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var card models.JobCard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
		assert.Equal(t, models.StatusWaitingAuth, card.Status)
		env.cards.AssertExpectations(t)
	})

	t.Run("cashier is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID().Hex()

		w := env.do(t, http.MethodPost, "/api/jobcards/"+id+"/updates", env.token(t, models.RoleCashier), map[string]interface{}{
			"status": "done",
			"note":   "done",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing note is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID().Hex()

		w := env.do(t, http.MethodPost, "/api/jobcards/"+id+"/updates", env.token(t, models.RoleTechnician), map[string]interface{}{
			"status": "done",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJobCardHandler_AddPart(t *testing.T) {
	t.Run("cashier attaches a part", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID()
		env.cards.On("PushPart", mock.Anything, id.Hex(), models.PartLine{
			InventoryCode: "ENG001",
			Name:          "Engine Oil 5W-30",
			Quantity:      2,
			UnitPrice:     450,
		}).Return(nil)
		env.cards.On("FindJobCardByID", mock.Anything, id.Hex()).
			Return(&models.JobCard{ID: id, Status: models.StatusInProgress}, nil)

		w := env.do(t, http.MethodPost, "/api/jobcards/"+id.Hex()+"/parts", env.token(t, models.RoleCashier), map[string]interface{}{
			"inventoryCode": "ENG001",
			"name":          "Engine Oil 5W-30",
			"quantity":      2,
			"unitPrice":     450,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		env.cards.AssertExpectations(t)
	})

	t.Run("zero quantity is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID().Hex()

		w := env.do(t, http.MethodPost, "/api/jobcards/"+id+"/parts", env.token(t, models.RoleManager), map[string]interface{}{
			"inventoryCode": "ENG001",
			"name":          "Engine Oil 5W-30",
			"quantity":      0,
			"unitPrice":     450,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJobCardHandler_SetStatus(t *testing.T) {
	t.Run("manager clears waiting_auth", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID()
		env.cards.On("SetStatus", mock.Anything, id.Hex(), models.StatusInProgress).Return(nil)
		env.cards.On("FindJobCardByID", mock.Anything, id.Hex()).
			Return(&models.JobCard{ID: id, Status: models.StatusInProgress}, nil)

		w := env.do(t, http.MethodPatch, "/api/jobcards/"+id.Hex()+"/status", env.token(t, models.RoleManager), map[string]string{
			"status": "in_progress",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		env.cards.AssertNotCalled(t, "PushUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID().Hex()

		w := env.do(t, http.MethodPatch, "/api/jobcards/"+id+"/status", env.token(t, models.RoleServiceAdvisor), map[string]string{
			"status": "archived",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("technician is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		id := primitive.NewObjectID().Hex()

		w := env.do(t, http.MethodPatch, "/api/jobcards/"+id+"/status", env.token(t, models.RoleTechnician), map[string]string{
			"status": "done",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestJobCardHandler_Bill(t *testing.T) {
	env := newTestEnv(t)
	id := primitive.NewObjectID()
	labour := models.DefaultLabourCharge
	env.cards.On("FindJobCardByID", mock.Anything, id.Hex()).Return(&models.JobCard{
		ID:           id,
		CustomerName: "Ravi Kumar",
		VehicleNo:    "KA01AB1234",
		Parts: []models.PartLine{
			{InventoryCode: "ENG001", Name: "Engine Oil 5W-30", Quantity: 2, UnitPrice: 450},
			{InventoryCode: "FIL001", Name: "Oil Filter", Quantity: 1, UnitPrice: 250},
		},
		LabourCharge: &labour,
	}, nil)

	w := env.do(t, http.MethodGet, "/api/jobcards/"+id.Hex()+"/bill", env.token(t, models.RoleCashier), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var bill struct {
		PartsTotal   float64 `json:"partsTotal"`
		LabourCharge float64 `json:"labourCharge"`
		Subtotal     float64 `json:"subtotal"`
		GST          float64 `json:"gst"`
		Total        float64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bill))
	assert.Equal(t, 1150.00, bill.PartsTotal)
	assert.Equal(t, 500.00, bill.LabourCharge)
	assert.Equal(t, 1650.00, bill.Subtotal)
	assert.Equal(t, 297.00, bill.GST)
	assert.Equal(t, 1947.00, bill.Total)
}

func TestKanbanHandler_Board(t *testing.T) {
	env := newTestEnv(t)
	env.cards.On("FindJobCards", mock.Anything).Return([]models.JobCard{
		{ID: primitive.NewObjectID(), Status: models.StatusDone},
		{ID: primitive.NewObjectID(), Status: models.StatusNew},
	}, nil)

	w := env.do(t, http.MethodGet, "/api/kanban", env.token(t, models.RoleTechnician), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var grouped map[string][]models.JobCard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grouped))
	require.Len(t, grouped, 4)
	assert.Len(t, grouped["done"], 1)
	assert.Len(t, grouped["new"], 1)
	assert.Empty(t, grouped["in_progress"])
	assert.Empty(t, grouped["waiting_auth"])
}
