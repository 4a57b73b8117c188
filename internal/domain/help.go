package domain

import "time"

type HelpStatus string

const (
	HelpOpen   HelpStatus = "open"
	HelpClosed HelpStatus = "closed"
)

// HelpCategories - допустимые категории соседской помощи
var HelpCategories = []string{"repair", "move", "buy", "elder", "household", "other"}

// HelpRequest - запрос соседской помощи, привязанный к дому
type HelpRequest struct {
	ID          int64      `json:"id"`
	BuildingID  int64      `json:"building_id"`
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Contact     string     `json:"contact"`
	Status      HelpStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// hotWindow - запрос считается "горячим" первые два часа
const hotWindow = 2 * time.Hour

// IsHot reports whether the request was created recently enough to be
// highlighted on the board.
func (h HelpRequest) IsHot(now time.Time) bool {
	if h.CreatedAt.IsZero() {
		return false
	}
	return now.Sub(h.CreatedAt) < hotWindow
}

// NewHelpRequestInput - форма создания запроса помощи
type NewHelpRequestInput struct {
	BuildingID  int64  `json:"building_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
}
