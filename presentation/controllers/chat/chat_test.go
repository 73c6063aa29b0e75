package chat_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/presentation/controllers/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

type noopMetrics struct{}

func (noopMetrics) NewCounter(name, description string) {}
func (noopMetrics) NewUpDownCounter(name, description string) {}
func (noopMetrics) NewGauge(name, description string) {}
func (noopMetrics) NewHistogram(name, description string, buckets ...float64) {}
func (noopMetrics) IncCounter(name string, attrs ...attribute.KeyValue) {}
func (noopMetrics) AddUpDownCounter(name string, delta int64, attrs ...attribute.KeyValue) {
}
func (noopMetrics) SetGauge(name string, value float64, attrs ...attribute.KeyValue) {}
func (noopMetrics) ObserveHistogram(name string, value float64, attrs ...attribute.KeyValue) {
}

type MockRoomUseCase struct {
	mock.Mock
}

func (m *MockRoomUseCase) Create(ctx context.Context, name string) (*model.Room, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomUseCase) GetByID(ctx context.Context, id string) (*model.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomUseCase) GetAll(ctx context.Context) ([]*model.Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Room), args.Error(1)
}

func (m *MockRoomUseCase) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoomUseCase) Join(ctx context.Context, roomID string, username string) (*model.Room, error) {
	args := m.Called(ctx, roomID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomUseCase) Leave(ctx context.Context, roomID string, username string) (*model.Room, error) {
	args := m.Called(ctx, roomID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Create(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserUseCase) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserUseCase) GetAll(ctx context.Context) ([]*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

type MockMessageUseCase struct {
	mock.Mock
}

func (m *MockMessageUseCase) Send(ctx context.Context, roomID string, username string, content string) (*model.Message, error) {
	args := m.Called(ctx, roomID, username, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageUseCase) GetByRoom(ctx context.Context, roomID string) ([]*model.Message, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Message), args.Error(1)
}

func newTestRouter(roomUC *MockRoomUseCase, userUC *MockUserUseCase, messageUC *MockMessageUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	controller := chat.NewChatController(roomUC, userUC, messageUC, noopMetrics{})

	router := gin.New()
	router.GET("/api/chat-rooms", controller.HandleGet)
	router.POST("/api/chat-rooms", controller.HandlePost)
	router.DELETE("/api/chat-rooms", controller.HandleDelete)

	return router
}

func doRequest(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestHandleGet_UnknownAction(t *testing.T) {
	router := newTestRouter(new(MockRoomUseCase), new(MockUserUseCase), new(MockMessageUseCase))

	resp := doRequest(router, http.MethodGet, "/api/chat-rooms?action=bogus", "")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleGet_GetRooms(t *testing.T) {
	roomUC := new(MockRoomUseCase)
	router := newTestRouter(roomUC, new(MockUserUseCase), new(MockMessageUseCase))

	roomUC.On("GetAll", mock.Anything).Return([]*model.Room{{ID: "r1", Name: "general"}}, nil)

	resp := doRequest(router, http.MethodGet, "/api/chat-rooms?action=getRooms", "")

	require.Equal(t, http.StatusOK, resp.Code)

	var body chat.RoomsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Rooms, 1)
	assert.Equal(t, "general", body.Rooms[0].Name)
}

func TestHandleGet_GetRoomNotFound(t *testing.T) {
	roomUC := new(MockRoomUseCase)
	router := newTestRouter(roomUC, new(MockUserUseCase), new(MockMessageUseCase))

	roomUC.On("GetByID", mock.Anything, "missing").Return(nil, model.ErrRoomNotFound)

	resp := doRequest(router, http.MethodGet, "/api/chat-rooms?action=getRoom&roomId=missing", "")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandlePost_CreateRoomEmptyName(t *testing.T) {
	roomUC := new(MockRoomUseCase)
	router := newTestRouter(roomUC, new(MockUserUseCase), new(MockMessageUseCase))

	resp := doRequest(router, http.MethodPost, "/api/chat-rooms?action=createRoom", `{"name":"  "}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	roomUC.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandlePost_CreateRoom(t *testing.T) {
	roomUC := new(MockRoomUseCase)
	router := newTestRouter(roomUC, new(MockUserUseCase), new(MockMessageUseCase))

	created := &model.Room{ID: "r1", Name: "general", UserCount: 0}
	roomUC.On("Create", mock.Anything, "general").Return(created, nil)

	resp := doRequest(router, http.MethodPost, "/api/chat-rooms?action=createRoom", `{"name":"general"}`)

	require.Equal(t, http.StatusCreated, resp.Code)

	var body chat.RoomResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Room.UserCount)
}

func TestHandlePost_ActionFromBody(t *testing.T) {
	roomUC := new(MockRoomUseCase)
	router := newTestRouter(roomUC, new(MockUserUseCase), new(MockMessageUseCase))

	created := &model.Room{ID: "r1", Name: "general"}
	roomUC.On("Create", mock.Anything, "general").Return(created, nil)

	resp := doRequest(router, http.MethodPost, "/api/chat-rooms", `{"action":"createRoom","name":"general"}`)

	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestHandlePost_CreateUserConflict(t *testing.T) {
	userUC := new(MockUserUseCase)
	router := newTestRouter(new(MockRoomUseCase), userUC, new(MockMessageUseCase))

	userUC.On("Create", mock.Anything, "alice").Return(nil, model.ErrUserExists)

	resp := doRequest(router, http.MethodPost, "/api/chat-rooms?action=createUser", `{"username":"alice"}`)

	assert.Equal(t, http.StatusConflict, resp.Code)

	var body chat.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "conflict", body.Error)
}

func TestHandlePost_CreateUserOverlongUsername(t *testing.T) {
	userUC := new(MockUserUseCase)
	router := newTestRouter(new(MockRoomUseCase), userUC, new(MockMessageUseCase))

	body := `{"username":"` + strings.Repeat("a", 31) + `"}`
	resp := doRequest(router, http.MethodPost, "/api/chat-rooms?action=createUser", body)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var errBody chat.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errBody))
	assert.Equal(t, "invalid_request", errBody.Error)
	userUC.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandlePost_SendMessageInvalidInput(t *testing.T) {
	messageUC := new(MockMessageUseCase)
	router := newTestRouter(new(MockRoomUseCase), new(MockUserUseCase), messageUC)

	messageUC.On("Send", mock.Anything, "r1", "alice", "hello").
		Return(nil, fmt.Errorf("%w: message content cannot exceed 2000 characters", model.ErrInvalidInput))

	resp := doRequest(router, http.MethodPost, "/api/chat-rooms?action=sendMessage", `{"roomId":"r1","username":"alice","content":"hello"}`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var errBody chat.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errBody))
	assert.Equal(t, "invalid_request", errBody.Error)
}

func TestHandlePost_JoinRoomNotFound(t *testing.T) {
	roomUC := new(MockRoomUseCase)
	router := newTestRouter(roomUC, new(MockUserUseCase), new(MockMessageUseCase))

	roomUC.On("Join", mock.Anything, "missing", "alice").Return(nil, model.ErrRoomNotFound)

	resp := doRequest(router, http.MethodPost, "/api/chat-rooms?action=joinRoom", `{"roomId":"missing","username":"alice"}`)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandlePost_SendMessage(t *testing.T) {
	messageUC := new(MockMessageUseCase)
	router := newTestRouter(new(MockRoomUseCase), new(MockUserUseCase), messageUC)

	sent := &model.Message{ID: "m1", RoomID: "r1", Username: "alice", Content: "hello"}
	messageUC.On("Send", mock.Anything, "r1", "alice", "hello").Return(sent, nil)

	resp := doRequest(router, http.MethodPost, "/api/chat-rooms?action=sendMessage", `{"roomId":"r1","username":"alice","content":"hello"}`)

	require.Equal(t, http.StatusCreated, resp.Code)

	var body chat.MessageResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "m1", body.Message.ID)
}

func TestHandlePost_MalformedJSON(t *testing.T) {
	router := newTestRouter(new(MockRoomUseCase), new(MockUserUseCase), new(MockMessageUseCase))

	resp := doRequest(router, http.MethodPost, "/api/chat-rooms?action=createRoom", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleDelete_DeleteRoom(t *testing.T) {
	roomUC := new(MockRoomUseCase)
	router := newTestRouter(roomUC, new(MockUserUseCase), new(MockMessageUseCase))

	roomUC.On("Delete", mock.Anything, "r1").Return(nil)

	resp := doRequest(router, http.MethodDelete, "/api/chat-rooms?action=deleteRoom&roomId=r1", "")

	require.Equal(t, http.StatusOK, resp.Code)

	var body chat.OkResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.True(t, body.Ok)
}

func TestHandleDelete_NotFound(t *testing.T) {
	roomUC := new(MockRoomUseCase)
	router := newTestRouter(roomUC, new(MockUserUseCase), new(MockMessageUseCase))

	roomUC.On("Delete", mock.Anything, "missing").Return(model.ErrRoomNotFound)

	resp := doRequest(router, http.MethodDelete, "/api/chat-rooms?action=deleteRoom&roomId=missing", "")

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
