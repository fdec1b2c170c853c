package api

import (
	"context"
	"net/http"

	"github.com/hitoshi/syncdesk/internal/model"
)

// studentAPI はバックエンドの児童レコード。
type studentAPI struct {
	ID        int64  `json:"id"`
	SchoolID  int64  `json:"school_id"`
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
}

// FetchStudents は呼び出しユーザーに紐付く児童一覧を取得する。
// GET /me/students
func (c *Client) FetchStudents(ctx context.Context, token string) ([]*model.Student, error) {
	var list []studentAPI
	if err := c.doJSON(ctx, http.MethodGet, "/me/students", token, nil, &list); err != nil {
		return nil, err
	}
	students := make([]*model.Student, 0, len(list))
	for _, s := range list {
		students = append(students, &model.Student{
			ID:        formatID(s.ID),
			SchoolID:  formatID(s.SchoolID),
			ClassName: s.ClassName,
			Section:   s.Section,
		})
	}
	return students, nil
}
