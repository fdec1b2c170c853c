package api

import (
	"context"
	"net/http"

	"github.com/hitoshi/syncdesk/internal/model"
)

// announcementAPI はバックエンドのお知らせレコード。
type announcementAPI struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	TargetAudience string `json:"target_audience"`
	CreatedAt      string `json:"created_at"`
	Read           bool   `json:"read"`
}

// FetchAnnouncements はお知らせ一覧を取得する。
// GET /announcements
func (c *Client) FetchAnnouncements(ctx context.Context, token string) ([]*model.Announcement, error) {
	var list []announcementAPI
	if err := c.doJSON(ctx, http.MethodGet, "/announcements", token, nil, &list); err != nil {
		return nil, err
	}
	announcements := make([]*model.Announcement, 0, len(list))
	for _, a := range list {
		announcements = append(announcements, &model.Announcement{
			ID:        formatID(a.ID),
			Title:     a.Title,
			Body:      a.Content,
			Audience:  model.AnnouncementAudience(a.TargetAudience),
			Read:      a.Read,
			CreatedAt: parseTime(a.CreatedAt),
		})
	}
	return announcements, nil
}

// MarkAnnouncementRead はお知らせを既読として記録する。
// POST /announcements/{id}/read
func (c *Client) MarkAnnouncementRead(ctx context.Context, token, id string) error {
	var out otpMessageResponse
	return c.doJSON(ctx, http.MethodPost, "/announcements/"+id+"/read", token, nil, &out)
}
