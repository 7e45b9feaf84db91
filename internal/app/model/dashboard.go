package model

// SectionGroup pairs a section with its ordered, favorited members.
type SectionGroup struct {
	Section   Section    `json:"section"`
	Shortcuts []Shortcut `json:"shortcuts"`
}

// DashboardView is the render projection of the home grid: favorited
// shortcuts partitioned into the unsectioned bucket plus one group per
// section in section order. Empty sections are still present so they stay
// visible and droppable in edit mode.
type DashboardView struct {
	Unsectioned []Shortcut     `json:"unsectioned"`
	Sections    []SectionGroup `json:"sections"`
}
