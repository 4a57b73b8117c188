package domain

import "time"

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Periodicity string

const (
	PeriodicityRare   Periodicity = "rare"
	PeriodicityOften  Periodicity = "often"
	PeriodicityAlways Periodicity = "always"
)

type ReportStatus string

const (
	ReportOpen     ReportStatus = "open"
	ReportResolved ReportStatus = "resolved"
	ReportOutdated ReportStatus = "outdated"
)

// MaxConfirmations - потолок голосов: после трёх подтверждений
// счётчик не растёт, кнопка гаснет
const MaxConfirmations = 3

// Report - жалоба жильца, привязанная к дому
type Report struct {
	ID                    int64        `json:"id"`
	BuildingID            int64        `json:"building_id"`
	Category              string       `json:"category"`
	Severity              Severity     `json:"severity"`
	Periodicity           Periodicity  `json:"periodicity"`
	Text                  string       `json:"text"`
	ImagePath             *string      `json:"image_path,omitempty"`
	Status                ReportStatus `json:"status"`
	ProblemConfirmations  int          `json:"problem_confirmations"`
	ResolvedConfirmations int          `json:"resolved_confirmations"`
	CreatedAt             time.Time    `json:"created_at"`
}

// ProblemVoteOpen reports whether another problem confirmation is still accepted.
func (r Report) ProblemVoteOpen() bool {
	return r.Status == ReportOpen && r.ProblemConfirmations < MaxConfirmations
}

// ResolvedVoteOpen reports whether another resolved confirmation is still accepted.
func (r Report) ResolvedVoteOpen() bool {
	return r.Status == ReportOpen && r.ResolvedConfirmations < MaxConfirmations
}

// ImageAttachment - прикреплённое к жалобе фото
type ImageAttachment struct {
	Filename string
	Data     []byte
}

// NewReportInput - форма отправки жалобы
type NewReportInput struct {
	BuildingID  int64
	Category    string
	Severity    Severity
	Periodicity Periodicity
	Text        string
	Image       *ImageAttachment
}
