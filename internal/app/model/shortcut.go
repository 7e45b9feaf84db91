package model

import "time"

// Icon type discriminators stored alongside the icon value.
const (
	IconTypeLucide = "lucide"
	IconTypeImage  = "image"
	IconTypeUpload = "upload"
)

// DefaultIcon is used when a shortcut is created without an explicit icon.
const DefaultIcon = "cube"

// Shortcut is a dashboard bookmark, optionally linked to a container and
// optionally grouped into a section. Position orders shortcuts within their
// section scope (a scope is one section_id value, including NULL for the
// unsectioned bucket).
type Shortcut struct {
	ID           int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string  `json:"name" gorm:"not null"`
	Description  *string `json:"description"`
	URL          *string `json:"url"`
	Port         *int    `json:"port"`
	Icon         string  `json:"icon" gorm:"not null;default:cube"`
	IconType     *string `json:"icon_type" gorm:"size:16"`
	ContainerID  *string `json:"container_id"`
	IsFavorite   bool    `json:"is_favorite" gorm:"not null;default:false"`
	UseTailscale bool    `json:"use_tailscale" gorm:"not null;default:false"`
	SectionID    *int64  `json:"section_id" gorm:"index"`
	Position     int     `json:"position" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SameScope reports whether the shortcut belongs to the given section scope.
func (s *Shortcut) SameScope(sectionID *int64) bool {
	if s.SectionID == nil || sectionID == nil {
		return s.SectionID == nil && sectionID == nil
	}
	return *s.SectionID == *sectionID
}

// ResolvedTarget returns the link target the client should open. A stored URL
// wins over a port when both happen to be present.
func (s *Shortcut) ResolvedTarget() (url *string, port *int) {
	if s.URL != nil && *s.URL != "" {
		return s.URL, nil
	}
	return nil, s.Port
}
