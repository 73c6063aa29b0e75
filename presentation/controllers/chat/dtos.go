package chat

import "github.com/ryos-app/ryos-server/domain/model"

// ActionRequest is the POST body of the action-dispatch endpoint. The action
// may come from the query string or the body; which fields are required
// depends on the action, so only length caps are enforced at bind time.
type ActionRequest struct {
	Action   string `json:"action,omitempty"`
	Name     string `json:"name,omitempty" binding:"omitempty,max=100"`
	Username string `json:"username,omitempty" binding:"omitempty,max=30"`
	RoomID   string `json:"roomId,omitempty" binding:"omitempty,max=64"`
	Content  string `json:"content,omitempty" binding:"omitempty,max=2000"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type RoomResponse struct {
	Room *model.Room `json:"room"`
}

type RoomsResponse struct {
	Rooms []*model.Room `json:"rooms"`
}

type MessageResponse struct {
	Message *model.Message `json:"message"`
}

type MessagesResponse struct {
	Messages []*model.Message `json:"messages"`
}

type UserResponse struct {
	User *model.User `json:"user"`
}

type UsersResponse struct {
	Users []*model.User `json:"users"`
}

type OkResponse struct {
	Ok bool `json:"ok"`
}
