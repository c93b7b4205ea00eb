package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/leave"
	leaveerrors "go-leavetrack/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveService struct {
	applyFn   func(ctx context.Context, actor domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error)
	approveFn func(ctx context.Context, actor domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
}

func (s *fakeLeaveService) Apply(ctx context.Context, actor domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	return s.applyFn(ctx, actor, req)
}

func (s *fakeLeaveService) Approve(ctx context.Context, actor domain.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return s.approveFn(ctx, actor, id, req)
}

func (s *fakeLeaveService) Reject(ctx context.Context, actor domain.Actor, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{}, nil
}

func (s *fakeLeaveService) Cancel(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{}, nil
}

func (s *fakeLeaveService) GetByID(ctx context.Context, actor domain.Actor, id string) (leave.LeaveResponse, error) {
	return leave.LeaveResponse{}, nil
}

func (s *fakeLeaveService) List(ctx context.Context, actor domain.Actor, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, error) {
	return nil, nil
}

func (s *fakeLeaveService) ListPendingForApprover(ctx context.Context, actor domain.Actor) ([]leave.LeaveResponse, error) {
	return nil, nil
}

func (s *fakeLeaveService) TeamCalendar(ctx context.Context, actor domain.Actor, month, year int) ([]leave.LeaveResponse, error) {
	return nil, nil
}

func (s *fakeLeaveService) ApprovedPeriods(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]leave.Period, error) {
	return nil, nil
}

func testContext(t *testing.T, method, path string, body any, actor domain.Actor) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	c.Set("employee_id", actor.EmployeeID)
	c.Set("role", string(actor.Role))
	return c, w
}

func TestLeaveHandler_Apply(t *testing.T) {
	actor := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleEmployee}

	t.Run("created", func(t *testing.T) {
		var gotActor domain.Actor
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, a domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				gotActor = a
				return leave.LeaveResponse{ID: uuid.New().String(), Status: leave.StatusPending}, nil
			},
		}
		h := leave.NewHandler(svc)

		c, w := testContext(t, http.MethodPost, "/api/v1/leaves", leave.ApplyLeaveRequest{
			LeaveTypeID: uuid.New().String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-04",
			Reason:      "family function",
		}, actor)
		h.Apply(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, actor.EmployeeID, gotActor.EmployeeID)
		assert.Equal(t, actor.Role, gotActor.Role)

		var env struct {
			Ok   bool `json:"ok"`
			Data struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.Equal(t, leave.StatusPending, env.Data.Status)
	})

	t.Run("missing fields fail binding", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, a domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be called on a bind failure")
				return leave.LeaveResponse{}, nil
			},
		}
		h := leave.NewHandler(svc)

		c, w := testContext(t, http.MethodPost, "/api/v1/leaves", gin.H{"reason": "no dates"}, actor)
		h.Apply(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service errors carry their status and code", func(t *testing.T) {
		svc := &fakeLeaveService{
			applyFn: func(ctx context.Context, a domain.Actor, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrOverlappingRequest
			},
		}
		h := leave.NewHandler(svc)

		c, w := testContext(t, http.MethodPost, "/api/v1/leaves", leave.ApplyLeaveRequest{
			LeaveTypeID: uuid.New().String(),
			StartDate:   "2026-03-02",
			EndDate:     "2026-03-04",
			Reason:      "again",
		}, actor)
		h.Apply(c)

		assert.Equal(t, http.StatusConflict, w.Code)

		var env struct {
			Ok    bool `json:"ok"`
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestLeaveHandler_Approve(t *testing.T) {
	manager := domain.Actor{EmployeeID: uuid.New().String(), Role: domain.RoleManager}
	id := uuid.New().String()

	t.Run("empty body is a bare approval", func(t *testing.T) {
		var gotID string
		var gotReq leave.ApproveLeaveRequest
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, a domain.Actor, reqID string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				gotID = reqID
				gotReq = req
				return leave.LeaveResponse{ID: reqID, Status: leave.StatusApproved}, nil
			},
		}
		h := leave.NewHandler(svc)

		c, w := testContext(t, http.MethodPost, "/api/v1/leaves/"+id+"/approve", nil, manager)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id, gotID)
		assert.Empty(t, gotReq.Comment)
	})

	t.Run("self approval is forbidden", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, a domain.Actor, reqID string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrSelfApproval
			},
		}
		h := leave.NewHandler(svc)

		c, w := testContext(t, http.MethodPost, "/api/v1/leaves/"+id+"/approve", nil, manager)
		c.Params = gin.Params{{Key: "id", Value: id}}
		h.Approve(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
