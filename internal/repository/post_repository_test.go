package repository

import (
	"testing"
	"time"

	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func createTestPost(t *testing.T, repo *GormPostRepository, title, status string, mediaIDs []string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    strPtr(title),
		Content:  "<p>" + title + "</p>",
		Status:   status,
		AuthorID: "author-1",
	}
	if status == constants.PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := repo.Create(post, mediaIDs); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return post
}

func createTestMedia(t *testing.T, repo *GormMediaRepository, filename string) *models.Media {
	t.Helper()
	media := &models.Media{
		Filename:         filename,
		OriginalFilename: "orig-" + filename,
		MimeType:         "image/png",
		Size:             1024,
		URL:              "https://cdn.example.com/" + filename,
		StoragePath:      "uploads/" + filename,
		MediaType:        constants.MediaTypeImage,
		UploadedBy:       "author-1",
	}
	if err := repo.Create(media); err != nil {
		t.Fatalf("create media failed: %v", err)
	}
	return media
}

func TestPostListStatusFilterAndPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	for i := 0; i < 12; i++ {
		status := constants.PostStatusDraft
		if i%2 == 0 {
			status = constants.PostStatusPublished
		}
		createTestPost(t, repo, "post", status, nil)
	}

	posts, total, err := repo.List(PostListFilter{Page: 1, PageSize: 10, Status: constants.PostStatusDraft})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 6 {
		t.Fatalf("draft total want 6 got %d", total)
	}
	for _, post := range posts {
		if post.Status != constants.PostStatusDraft {
			t.Fatalf("unexpected status in filtered page: %s", post.Status)
		}
	}

	posts, total, err = repo.List(PostListFilter{Page: 2, PageSize: 10, Status: constants.PostStatusAll})
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if total != 12 {
		t.Fatalf("total want 12 got %d", total)
	}
	if len(posts) != 2 {
		t.Fatalf("page 2 size want 2 got %d", len(posts))
	}
	// offset + 页内行数不得超过总数
	if 10+len(posts) > int(total) {
		t.Fatalf("offset+page exceeds total: %d > %d", 10+len(posts), total)
	}
}

func TestPostListSearchMatchesTitleOrExcerpt(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	first := &models.Post{Title: strPtr("Morning Walk"), Content: "", AuthorID: "a", Status: constants.PostStatusDraft}
	second := &models.Post{Title: strPtr("Untitled"), Excerpt: strPtr("a walk in the park"), Content: "", AuthorID: "a", Status: constants.PostStatusDraft}
	third := &models.Post{Title: strPtr("Other"), Content: "", AuthorID: "a", Status: constants.PostStatusDraft}
	for _, post := range []*models.Post{first, second, third} {
		if err := repo.Create(post, nil); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	posts, total, err := repo.List(PostListFilter{Page: 1, PageSize: 10, Search: "WALK"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 2 || len(posts) != 2 {
		t.Fatalf("search want 2 rows got total=%d rows=%d", total, len(posts))
	}
}

func TestPostListSortByTitleAsc(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	for _, title := range []string{"banana", "apple", "cherry"} {
		createTestPost(t, repo, title, constants.PostStatusDraft, nil)
	}

	posts, _, err := repo.List(PostListFilter{Page: 1, PageSize: 10, SortKey: "title", SortDesc: false})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("rows want 3 got %d", len(posts))
	}
	if *posts[0].Title != "apple" || *posts[2].Title != "cherry" {
		t.Fatalf("unexpected title order: %v %v %v", *posts[0].Title, *posts[1].Title, *posts[2].Title)
	}
}

func TestPostCreateWithMediaLinksKeepsOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	mediaRepo := NewMediaRepository(db)

	m1 := createTestMedia(t, mediaRepo, "one.png")
	m2 := createTestMedia(t, mediaRepo, "two.png")

	post := createTestPost(t, repo, "with media", constants.PostStatusDraft, []string{m2.ID, m1.ID})

	items, err := repo.MediaForPost(post.ID)
	if err != nil {
		t.Fatalf("media for post failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("linked media want 2 got %d", len(items))
	}
	if items[0].ID != m2.ID || items[1].ID != m1.ID {
		t.Fatalf("media order not preserved: got %s,%s", items[0].ID, items[1].ID)
	}
}

func TestReplaceMediaLinksFullReplace(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	mediaRepo := NewMediaRepository(db)

	m1 := createTestMedia(t, mediaRepo, "one.png")
	m2 := createTestMedia(t, mediaRepo, "two.png")
	m3 := createTestMedia(t, mediaRepo, "three.png")

	post := createTestPost(t, repo, "replace", constants.PostStatusDraft, []string{m1.ID})

	if err := repo.ReplaceMediaLinks(post.ID, []string{m3.ID, m2.ID}); err != nil {
		t.Fatalf("replace links failed: %v", err)
	}
	items, err := repo.MediaForPost(post.ID)
	if err != nil {
		t.Fatalf("media for post failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != m3.ID || items[1].ID != m2.ID {
		t.Fatalf("replaced links mismatch: %+v", items)
	}

	// 空列表应清空全部关联
	if err := repo.ReplaceMediaLinks(post.ID, nil); err != nil {
		t.Fatalf("clear links failed: %v", err)
	}
	items, err = repo.MediaForPost(post.ID)
	if err != nil {
		t.Fatalf("media for post failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("links should be empty, got %d", len(items))
	}
}

func TestPostDeleteRemovesLinks(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)
	mediaRepo := NewMediaRepository(db)

	m1 := createTestMedia(t, mediaRepo, "one.png")
	post := createTestPost(t, repo, "to delete", constants.PostStatusDraft, []string{m1.ID})

	affected, err := repo.Delete(post.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected want 1 got %d", affected)
	}

	var linkCount int64
	if err := db.Model(&models.PostMedia{}).Where("post_id = ?", post.ID).Count(&linkCount).Error; err != nil {
		t.Fatalf("count links failed: %v", err)
	}
	if linkCount != 0 {
		t.Fatalf("links should be removed with post, got %d", linkCount)
	}

	affected, err = repo.Delete(post.ID)
	if err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second delete affected want 0 got %d", affected)
	}
}

func TestListPublishedOrderAndPaging(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostRepository(db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		post := &models.Post{
			Title:    strPtr("published"),
			Content:  "",
			Status:   constants.PostStatusPublished,
			AuthorID: "a",
		}
		if err := repo.Create(post, nil); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		createdAt := base.Add(time.Duration(i) * time.Minute)
		if err := db.Model(&models.Post{}).Where("id = ?", post.ID).Update("created_at", createdAt).Error; err != nil {
			t.Fatalf("set created_at failed: %v", err)
		}
	}
	// 混入草稿，不应出现在 Feed 中
	createTestPost(t, repo, "draft", constants.PostStatusDraft, nil)

	posts, total, err := repo.ListPublished(FeedFilter{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("list published failed: %v", err)
	}
	if total != 12 {
		t.Fatalf("published total want 12 got %d", total)
	}
	if len(posts) != 5 {
		t.Fatalf("page size want 5 got %d", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Fatalf("feed not in descending created_at order")
		}
	}
}
