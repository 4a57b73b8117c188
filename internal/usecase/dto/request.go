package dto

// ViewportRequest - событие смены видимой области карты
type ViewportRequest struct {
	South float64 `json:"south" validate:"min=-90,max=90"`
	West  float64 `json:"west" validate:"min=-180,max=180"`
	North float64 `json:"north" validate:"min=-90,max=90"`
	East  float64 `json:"east" validate:"min=-180,max=180"`
	Zoom  int     `json:"zoom" validate:"required,min=1,max=20"`
}

// FiltersRequest - смена активных фильтров отображения
type FiltersRequest struct {
	Status      string `json:"status" validate:"omitempty,oneof=all green yellow orange red"`
	ProblemOnly bool   `json:"problem_only"`
	Severity    string `json:"severity" validate:"omitempty,oneof=low medium high"`
}

// PointRequest - координаты клика или позиции пользователя
type PointRequest struct {
	Lat float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng float64 `json:"lng" validate:"required,min=-180,max=180"`
}

// AddressDraftRequest - черновик адреса в форме добавления метки
type AddressDraftRequest struct {
	Address string `json:"address" validate:"max=300"`
}

// ReportCreateRequest - форма жалобы; фото уходит отдельной частью
// multipart-запроса
type ReportCreateRequest struct {
	Category    string `json:"category" form:"category" validate:"required,max=100"`
	Severity    string `json:"severity" form:"severity" validate:"required,oneof=low medium high"`
	Periodicity string `json:"periodicity" form:"periodicity" validate:"required,oneof=rare often always"`
	Text        string `json:"text" form:"text" validate:"required,max=2000"`
}

// HelpCreateRequest - форма запроса соседской помощи
type HelpCreateRequest struct {
	BuildingID  int64  `json:"building_id" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=repair move buy elder household other"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	Contact     string `json:"contact" validate:"required,max=200"`
}
