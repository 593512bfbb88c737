package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidFullname    = errors.New("invalid fullname")

	ErrChatNotFound   = errors.New("chat not found")
	ErrChatWithSelf   = errors.New("cannot create a chat with yourself")
	ErrNotChatMember  = errors.New("user is not a member of the chat")
	ErrInvalidHistory = errors.New("invalid history query arguments")

	ErrMessageNotFound    = errors.New("message not found")
	ErrMessageTooLong     = errors.New("message content too long")
	ErrAttachmentNotFound = errors.New("attachment not found")

	ErrTokenInvalid = errors.New("invalid token")
	ErrTicketUsed   = errors.New("connection ticket already used")
)
