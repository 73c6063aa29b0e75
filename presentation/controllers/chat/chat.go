package chat

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/ryos-app/ryos-server/application/usecases/message"
	"github.com/ryos-app/ryos-server/application/usecases/room"
	"github.com/ryos-app/ryos-server/application/usecases/user"
	"github.com/ryos-app/ryos-server/domain/model"
	"github.com/ryos-app/ryos-server/infrastructure/metrics"
	"github.com/ryos-app/ryos-server/presentation/middlewares"
	"go.opentelemetry.io/otel/attribute"
)

const actionsCounter = "chat_gateway_actions_total"

// ChatController is the action-dispatch gateway. A single endpoint serves
// every chat operation, selected by the "action" query parameter (or body
// field on POST).
type ChatController interface {
	HandleGet(ctx *gin.Context)
	HandlePost(ctx *gin.Context)
	HandleDelete(ctx *gin.Context)
}

type chatController struct {
	roomUseCase    room.RoomUseCase
	userUseCase    user.UserUseCase
	messageUseCase message.MessageUseCase
	metrics        metrics.Manager
}

func NewChatController(
	roomUseCase room.RoomUseCase,
	userUseCase user.UserUseCase,
	messageUseCase message.MessageUseCase,
	manager metrics.Manager,
) ChatController {
	manager.NewCounter(actionsCounter, "Chat gateway actions by name and outcome")

	return &chatController{
		roomUseCase:    roomUseCase,
		userUseCase:    userUseCase,
		messageUseCase: messageUseCase,
		metrics:        manager,
	}
}

func (c *chatController) HandleGet(ctx *gin.Context) {
	action := ctx.Query("action")

	switch action {
	case "getRooms":
		c.getRooms(ctx)
	case "getRoom":
		c.getRoom(ctx)
	case "getMessages":
		c.getMessages(ctx)
	case "getUsers":
		c.getUsers(ctx)
	default:
		c.unknownAction(ctx, action)
	}
}

func (c *chatController) HandlePost(ctx *gin.Context) {
	var req ActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_request",
				Message: middlewares.TranslateValidationError(err),
			})
			return
		}

		ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "request body must be valid JSON",
		})
		return
	}

	action := ctx.Query("action")
	if action == "" {
		action = req.Action
	}

	// Whitespace-only fields count as missing.
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.RoomID = strings.TrimSpace(req.RoomID)
	req.Content = strings.TrimSpace(req.Content)

	switch action {
	case "createRoom":
		c.createRoom(ctx, req)
	case "createUser":
		c.createUser(ctx, req)
	case "joinRoom":
		c.joinRoom(ctx, req)
	case "leaveRoom":
		c.leaveRoom(ctx, req)
	case "sendMessage":
		c.sendMessage(ctx, req)
	default:
		c.unknownAction(ctx, action)
	}
}

func (c *chatController) HandleDelete(ctx *gin.Context) {
	action := ctx.Query("action")
	if action != "deleteRoom" {
		c.unknownAction(ctx, action)
		return
	}

	c.deleteRoom(ctx)
}

func (c *chatController) getRooms(ctx *gin.Context) {
	rooms, err := c.roomUseCase.GetAll(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, "getRooms", err)
		return
	}

	c.ok(ctx, "getRooms", http.StatusOK, RoomsResponse{Rooms: rooms})
}

func (c *chatController) getRoom(ctx *gin.Context) {
	roomID := ctx.Query("roomId")
	if roomID == "" {
		c.badRequest(ctx, "getRoom", "roomId is required")
		return
	}

	found, err := c.roomUseCase.GetByID(ctx.Request.Context(), roomID)
	if err != nil {
		c.fail(ctx, "getRoom", err)
		return
	}

	c.ok(ctx, "getRoom", http.StatusOK, RoomResponse{Room: found})
}

func (c *chatController) getMessages(ctx *gin.Context) {
	roomID := ctx.Query("roomId")
	if roomID == "" {
		c.badRequest(ctx, "getMessages", "roomId is required")
		return
	}

	messages, err := c.messageUseCase.GetByRoom(ctx.Request.Context(), roomID)
	if err != nil {
		c.fail(ctx, "getMessages", err)
		return
	}

	c.ok(ctx, "getMessages", http.StatusOK, MessagesResponse{Messages: messages})
}

func (c *chatController) getUsers(ctx *gin.Context) {
	users, err := c.userUseCase.GetAll(ctx.Request.Context())
	if err != nil {
		c.fail(ctx, "getUsers", err)
		return
	}

	c.ok(ctx, "getUsers", http.StatusOK, UsersResponse{Users: users})
}

func (c *chatController) createRoom(ctx *gin.Context, req ActionRequest) {
	if req.Name == "" {
		c.badRequest(ctx, "createRoom", "name is required")
		return
	}

	created, err := c.roomUseCase.Create(ctx.Request.Context(), req.Name)
	if err != nil {
		c.fail(ctx, "createRoom", err)
		return
	}

	c.ok(ctx, "createRoom", http.StatusCreated, RoomResponse{Room: created})
}

func (c *chatController) createUser(ctx *gin.Context, req ActionRequest) {
	if req.Username == "" {
		c.badRequest(ctx, "createUser", "username is required")
		return
	}

	created, err := c.userUseCase.Create(ctx.Request.Context(), req.Username)
	if err != nil {
		c.fail(ctx, "createUser", err)
		return
	}

	c.ok(ctx, "createUser", http.StatusCreated, UserResponse{User: created})
}

func (c *chatController) joinRoom(ctx *gin.Context, req ActionRequest) {
	if req.RoomID == "" || req.Username == "" {
		c.badRequest(ctx, "joinRoom", "roomId and username are required")
		return
	}

	joined, err := c.roomUseCase.Join(ctx.Request.Context(), req.RoomID, req.Username)
	if err != nil {
		c.fail(ctx, "joinRoom", err)
		return
	}

	c.ok(ctx, "joinRoom", http.StatusOK, RoomResponse{Room: joined})
}

func (c *chatController) leaveRoom(ctx *gin.Context, req ActionRequest) {
	if req.RoomID == "" || req.Username == "" {
		c.badRequest(ctx, "leaveRoom", "roomId and username are required")
		return
	}

	left, err := c.roomUseCase.Leave(ctx.Request.Context(), req.RoomID, req.Username)
	if err != nil {
		c.fail(ctx, "leaveRoom", err)
		return
	}

	c.ok(ctx, "leaveRoom", http.StatusOK, RoomResponse{Room: left})
}

func (c *chatController) sendMessage(ctx *gin.Context, req ActionRequest) {
	if req.RoomID == "" || req.Username == "" || req.Content == "" {
		c.badRequest(ctx, "sendMessage", "roomId, username and content are required")
		return
	}

	sent, err := c.messageUseCase.Send(ctx.Request.Context(), req.RoomID, req.Username, req.Content)
	if err != nil {
		c.fail(ctx, "sendMessage", err)
		return
	}

	c.ok(ctx, "sendMessage", http.StatusCreated, MessageResponse{Message: sent})
}

func (c *chatController) deleteRoom(ctx *gin.Context) {
	roomID := ctx.Query("roomId")
	if roomID == "" {
		c.badRequest(ctx, "deleteRoom", "roomId is required")
		return
	}

	if err := c.roomUseCase.Delete(ctx.Request.Context(), roomID); err != nil {
		c.fail(ctx, "deleteRoom", err)
		return
	}

	c.ok(ctx, "deleteRoom", http.StatusOK, OkResponse{Ok: true})
}

func (c *chatController) ok(ctx *gin.Context, action string, status int, body any) {
	c.count(action, "ok")
	ctx.JSON(status, body)
}

func (c *chatController) badRequest(ctx *gin.Context, action string, message string) {
	c.count(action, "bad_request")
	ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}

func (c *chatController) unknownAction(ctx *gin.Context, action string) {
	c.count("unknown", "bad_request")
	ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "unknown_action",
		Message: "unsupported action: " + action,
	})
}

// fail maps domain errors onto the gateway's status codes.
func (c *chatController) fail(ctx *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		c.badRequest(ctx, action, err.Error())
	case errors.Is(err, model.ErrRoomNotFound), errors.Is(err, model.ErrUserNotFound):
		c.count(action, "not_found")
		ctx.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, model.ErrUserExists):
		c.count(action, "conflict")
		ctx.JSON(http.StatusConflict, ErrorResponse{
			Error:   "conflict",
			Message: err.Error(),
		})
	default:
		c.count(action, "error")
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

func (c *chatController) count(action string, outcome string) {
	c.metrics.IncCounter(actionsCounter,
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	)
}
