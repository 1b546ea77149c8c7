package util

import (
	"errors"

	"student_insight/internal/pathfind"
)

var (
	ErrCaptchaNotFound       = errors.New("captcha not found or expired")
	ErrCaptchaMismatch       = errors.New("incorrect captcha")
	ErrInvalidEdge           = pathfind.ErrInvalidEdge
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrEmptyConversation     = errors.New("conversation is empty")
	ErrUnknownChart          = errors.New("unknown chart kind")
	ErrStorageDisabled       = errors.New("object storage is not configured")
	ErrNoChartData           = errors.New("no data to chart")
)

var ErrStudentRequired = errors.New("studentId is required")
