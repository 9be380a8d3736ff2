package store

import (
	"encoding/json"
	"time"
)

// Turn is one message in a session. Rows are append-only: ordered by the
// autoincrement ID, never mutated, deleted only by an explicit session
// clear. Role alternation is not enforced.
type Turn struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(26);not null;index:idx_turns_session" json:"session_id"`
	Role      string    `gorm:"type:varchar(16);not null;index" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Intent    *string   `gorm:"type:varchar(16)" json:"intent"`
	Persona   *string   `gorm:"type:varchar(16)" json:"persona"`
	Metadata  string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `json:"timestamp"`
}

func (Turn) TableName() string { return "conversation_turns" }

// Meta decodes the metadata JSON column. A missing or malformed column
// yields an empty map rather than an error; metadata is advisory.
func (t *Turn) Meta() map[string]string {
	out := map[string]string{}
	if t.Metadata == "" {
		return out
	}
	_ = json.Unmarshal([]byte(t.Metadata), &out)
	return out
}

// SetMeta encodes metadata into the JSON column. Nil or empty maps leave
// the column empty.
func (t *Turn) SetMeta(m map[string]string) {
	if len(m) == 0 {
		t.Metadata = ""
		return
	}
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	t.Metadata = string(b)
}

// Session is the rolling per-session record. interaction_count counts
// role=user turn writes only; detected_persona keeps the latest non-nil
// value from any turn write.
type Session struct {
	SessionID        string    `gorm:"type:varchar(26);primaryKey" json:"session_id"`
	CreatedAt        time.Time `json:"created_at"`
	LastActive       time.Time `json:"last_active"`
	InteractionCount int       `gorm:"not null;default:0" json:"interaction_count"`
	DetectedPersona  *string   `gorm:"type:varchar(16)" json:"detected_persona"`
	Preferences      string    `gorm:"type:text" json:"-"`
}

func (Session) TableName() string { return "user_sessions" }

// Prefs decodes the preferences JSON column. Recognized key: "verbosity"
// (concise | balanced | detailed).
func (s *Session) Prefs() map[string]string {
	out := map[string]string{}
	if s.Preferences == "" {
		return out
	}
	_ = json.Unmarshal([]byte(s.Preferences), &out)
	return out
}

// Account is a researched company/account plan. The ID is stable across
// updates; CompanyName is redundant with the payload's name field for
// lookup convenience.
type Account struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CompanyName string    `gorm:"type:varchar(128);index" json:"company_name"`
	Payload     string    `gorm:"type:text;not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// Job is an asynchronous research request processed by the worker.
type Job struct {
	ID        string `gorm:"primaryKey;size:26"` // ULID length
	SessionID string `gorm:"size:26;index;not null"`
	Prompt    string `gorm:"type:text;not null"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when succeeded
	ResultTurnID *uint64 `gorm:"index"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Job) TableName() string { return "research_jobs" }
