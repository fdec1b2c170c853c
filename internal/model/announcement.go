// Package model はドメインモデルを定義する。
package model

import "time"

// AnnouncementAudience はお知らせの配信対象を表す。
type AnnouncementAudience string

const (
	// AudienceParents は保護者向け。
	AudienceParents AnnouncementAudience = "parents"
	// AudienceStaff は職員向け。
	AudienceStaff AnnouncementAudience = "staff"
	// AudienceBoth は保護者・職員の両方向け。
	AudienceBoth AnnouncementAudience = "both"
)

// Announcement は学校からのお知らせを表す。
type Announcement struct {
	ID        string
	Title     string
	Body      string
	Audience  AnnouncementAudience
	Read      bool
	CreatedAt time.Time
}
