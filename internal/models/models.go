package models

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EventType distinguishes format shows from artist bookings
type EventType string

const (
	EventTypeArtist EventType = "artist"
	EventTypeFormat EventType = "format"
)

// EventStatus is the lifecycle state of an event. The values are the
// ones the agency uses day to day, so they are stored as-is.
type EventStatus string

const (
	StatusDraft     EventStatus = "bozza"
	StatusConfirmed EventStatus = "confermato"
	StatusCancelled EventStatus = "cancellato"
)

// IsValid reports whether s is one of the three known statuses
func (s EventStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Event represents a scheduled engagement: a concert or a format show
// with its logistics and its links to talent and providers.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Date     time.Time   `gorm:"type:date;not null;index" json:"date"`
	Title    string      `gorm:"not null;default:''" json:"title"`
	Location string      `gorm:"default:''" json:"location"`
	Type     EventType   `gorm:"type:varchar(16);default:'artist'" json:"type"`
	Status   EventStatus `gorm:"type:varchar(16);default:'bozza';index" json:"status"`
	Notes    string      `gorm:"type:text;default:''" json:"notes"`

	FormatID      *uint `json:"format_id"`
	PromoterID    *uint `json:"promoter_id"`
	TourManagerID *uint `json:"tour_manager_id"`

	// Logistics
	Van     string `gorm:"default:''" json:"van"`
	Travel  string `gorm:"default:''" json:"travel"`
	Hotel   string `gorm:"default:''" json:"hotel"`
	Staging string `gorm:"type:text;default:''" json:"staging"`
	Porters string `gorm:"default:''" json:"porters"`

	// Payments: nil means "not agreed yet", distinct from zero
	Deposit *float64 `json:"deposit"`
	Balance *float64 `json:"balance"`

	// Format-show roles
	DJID       *uint         `json:"dj_id"`
	VocalistID *uint         `json:"vocalist_id"`
	Dancers    []EventDancer `gorm:"foreignKey:EventID" json:"dancers,omitempty"`
	Mascots    []EventMascot `gorm:"foreignKey:EventID" json:"mascots,omitempty"`

	Artists  []Artist  `gorm:"many2many:event_artists" json:"artists,omitempty"`
	Services []Service `gorm:"many2many:event_services" json:"services,omitempty"`

	Format      *Format      `gorm:"foreignKey:FormatID" json:"-"`
	Promoter    *Promoter    `gorm:"foreignKey:PromoterID" json:"-"`
	TourManager *TourManager `gorm:"foreignKey:TourManagerID" json:"-"`
}

// EventDancer is one position in an event's ordered dancer line-up
type EventDancer struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	EventID  uint `gorm:"not null;index" json:"-"`
	ArtistID uint `gorm:"not null" json:"artist_id"`
	Position int  `gorm:"not null;default:0" json:"position"`
}

// EventMascot is one position in an event's ordered mascot line-up
type EventMascot struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	EventID  uint `gorm:"not null;index" json:"-"`
	ArtistID uint `gorm:"not null" json:"artist_id"`
	Position int  `gorm:"not null;default:0" json:"position"`
}

// ServiceAssignment is the resolved claim of a service for one date.
// The unique index on (service_id, date) is the single hard invariant
// of the system: a provider works at most one event per day, and the
// database is the final arbiter under concurrent saves.
type ServiceAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	ServiceID uint      `gorm:"not null;uniqueIndex:uq_service_date" json:"service_id"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uq_service_date" json:"date"`
}

// Artist is a performer on the agency roster
type Artist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Role      string    `gorm:"default:'artist'" json:"role"`
	Phone     string    `gorm:"default:''" json:"phone"`
	Email     string    `gorm:"default:''" json:"email"`
	Notes     string    `gorm:"type:text;default:''" json:"notes"`
}

// Service is an external technical or production provider
type Service struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Contact   string    `gorm:"default:''" json:"contact"`
	Phone     string    `gorm:"default:''" json:"phone"`
	Notes     string    `gorm:"type:text;default:''" json:"notes"`
}

// Format is a reusable show concept the agency produces
type Format struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text;default:''" json:"description"`
	Notes       string    `gorm:"type:text;default:''" json:"notes"`
}

// Promoter is the party that books an event
type Promoter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Contact   string    `gorm:"default:''" json:"contact"`
	Phone     string    `gorm:"default:''" json:"phone"`
	Email     string    `gorm:"default:''" json:"email"`
	Notes     string    `gorm:"type:text;default:''" json:"notes"`
}

// TourManager accompanies artists on the road
type TourManager struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Name      string    `gorm:"not null;uniqueIndex" json:"name"`
	Contact   string    `gorm:"default:''" json:"contact"`
	Phone     string    `gorm:"default:''" json:"phone"`
	Email     string    `gorm:"default:''" json:"email"`
	Notes     string    `gorm:"type:text;default:''" json:"notes"`
}

// Task is a checklist item belonging to exactly one event
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	EventID     uint       `gorm:"not null;index" json:"event_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text;default:''" json:"description"`
	Assignee    string     `gorm:"default:''" json:"assignee"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date"`
	Done        bool       `gorm:"not null;default:false" json:"done"`
}

// AuditLog is one immutable record of a mutation. Entries are only
// ever appended; nothing in the system updates or deletes them.
type AuditLog struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	Entity   string         `gorm:"not null;index" json:"entity"`
	EntityID uint           `gorm:"index" json:"entity_id"`
	Action   string         `gorm:"not null" json:"action"`
	Payload  datatypes.JSON `json:"payload"`
	User     string         `gorm:"default:''" json:"user"`
	TS       time.Time      `gorm:"column:ts;autoCreateTime;index" json:"ts"`
}

// EventTemplate is a named event blueprint with the fields a complete
// event of that kind is expected to carry.
type EventTemplate struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null;uniqueIndex" json:"name"`
	Type           EventType      `gorm:"type:varchar(16);default:'artist'" json:"type"`
	Description    string         `gorm:"type:text;default:''" json:"description"`
	RequiredFields datatypes.JSON `json:"required_fields"`
	Notes          string         `gorm:"type:text;default:''" json:"notes"`
}

// TaskTemplate is one row of a named checklist: a task definition with
// a due-date offset relative to the event date (e.g. -7 days).
type TaskTemplate struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	TemplateName string `gorm:"not null;index" json:"template_name"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `gorm:"type:text;default:''" json:"description"`
	OffsetDays   int    `gorm:"not null;default:0" json:"offset_days"`
}

// DateOnly truncates t to a calendar date in UTC. Event and assignment
// dates are always stored this way so (service, date) comparisons are
// exact.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Artist{},
		&Service{},
		&Format{},
		&Promoter{},
		&TourManager{},
		&Event{},
		&EventDancer{},
		&EventMascot{},
		&ServiceAssignment{},
		&Task{},
		&AuditLog{},
		&EventTemplate{},
		&TaskTemplate{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}
	return nil
}
