package repository

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page     int
	PageSize int
	Search   string // 标题/摘要子串匹配（大小写不敏感）
	Status   string // draft/published/archived，空或 all 表示全部
	SortKey  string // 数据库列名，需由调用方用白名单归一化
	SortDesc bool
}

// FeedFilter 已发布文章 Feed 的过滤条件
type FeedFilter struct {
	Page  int
	Limit int
}
