// internal/domain/models/content.go
package models

// Publication statuses shared by news, gallery and events.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ContentType tags an item in the admin summary "recent" list.
type ContentType string

const (
	ContentNews  ContentType = "news"
	ContentBlog  ContentType = "blog"
	ContentEvent ContentType = "event"
)

// NewsStatuses lists valid news statuses. News has no archived state.
var NewsStatuses = []string{StatusDraft, StatusPublished}

// BlogStatuses lists valid blog post statuses.
var BlogStatuses = []string{StatusDraft, StatusPublished, StatusArchived}

// GalleryStatuses lists valid gallery item statuses.
var GalleryStatuses = []string{StatusDraft, StatusPublished}

// IsOneOf reports whether v is in vals.
func IsOneOf(v string, vals []string) bool {
	for _, s := range vals {
		if s == v {
			return true
		}
	}
	return false
}
