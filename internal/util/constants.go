package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimePNG  = "image/png"
	MimeHTML = "text/html; charset=utf-8"
)

// 助手回复来源
const (
	ReplySourceAStar     = "astar"
	ReplySourceAStarUser = "astar-user"
	ReplySourceLLM       = "llm"
	ReplySourceError     = "error"
)

const SessionHeader = "X-Session-Token"

const (
	CaptchaKeyPrefix = "captcha:"
	SessionKeyPrefix = "session:"
)
