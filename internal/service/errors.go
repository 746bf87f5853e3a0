package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("email or password incorrect")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrTitleTaken         = errors.New("a post with this title already exists")
	ErrCommentNotFound    = errors.New("comment not found")
)
