package constants

// 文章状态常量
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
	PostStatusAll       = "all"
)

// 媒体类型常量
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
	MediaTypeAudio = "audio"
)

// API Key 常量
const (
	APIKeyPrefix       = "tlcms_"
	APIKeyRandomLength = 32
	APIKeyLookupLength = 8
)

// 上下文键常量
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
)

// 分页常量
const (
	PostsPerPage     = 10
	FeedDefaultLimit = 10
	FeedMaxLimit     = 100
)

// AllowedPostSortKeys 列表排序字段白名单（接口字段 -> 数据库列）
var AllowedPostSortKeys = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
}

// 存储驱动常量
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)
