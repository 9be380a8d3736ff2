package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// AutoMigrate creates the conversation, session, account and job tables.
func (r *Repo) AutoMigrate() error {
	return r.db.AutoMigrate(&Turn{}, &Session{}, &Account{}, &Job{})
}

// AppendTurn atomically writes a turn and upserts its session record:
// last_active is refreshed on every write, interaction_count increments
// only for role=user writes, and the latest non-nil persona overwrites the
// stored one.
func (r *Repo) AppendTurn(ctx context.Context, t *Turn) error {
	now := time.Now().UTC()
	inc := 0
	if t.Role == "user" {
		inc = 1
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		sess := &Session{
			SessionID:        t.SessionID,
			CreatedAt:        now,
			LastActive:       now,
			InteractionCount: inc,
			DetectedPersona:  t.Persona,
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"last_active":       now,
				"interaction_count": gorm.Expr("interaction_count + ?", inc),
				"detected_persona":  gorm.Expr("COALESCE(?, detected_persona)", t.Persona),
			}),
		}).Create(sess).Error
	})
}

// History returns the limit most recent turns for a session in
// chronological (oldest-first) order.
func (r *Repo) History(ctx context.Context, sessionID string, limit int) ([]Turn, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var desc []Turn
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id DESC").
		Limit(limit).
		Find(&desc).Error; err != nil {
		return nil, err
	}

	// reverse to ASC (oldest -> newest)
	asc := make([]Turn, 0, len(desc))
	for i := len(desc) - 1; i >= 0; i-- {
		asc = append(asc, desc[i])
	}
	return asc, nil
}

// GetSession returns nil without error when the session does not exist.
func (r *Repo) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var s Session
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) SetPreferences(ctx context.Context, sessionID string, prefs map[string]string) error {
	b, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&Session{}).
		Where("session_id = ?", sessionID).
		Update("preferences", string(b)).Error
}

// ClearSession deletes all turns and the session record.
func (r *Repo) ClearSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&Turn{}).Error; err != nil {
			return err
		}
		return tx.Where("session_id = ?", sessionID).Delete(&Session{}).Error
	})
}

// SaveAccount upserts by ID: the payload and updated_at are replaced,
// created_at survives the update.
func (r *Repo) SaveAccount(ctx context.Context, a *Account) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"company_name", "payload", "updated_at",
		}),
	}).Create(a).Error
}

func (r *Repo) GetAccount(ctx context.Context, id string) (*Account, error) {
	var a Account
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Job CRUD
func (r *Repo) CreateJob(ctx context.Context, job *Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetJobByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) UpdateJobStatusRunning(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobQueued).
		Update("status", JobRunning).Error
}

func (r *Repo) MarkJobSucceeded(ctx context.Context, id string, resultTurnID uint64) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         JobSucceeded,
			"result_turn_id": resultTurnID,
			"error":          nil,
		}).Error
}

func (r *Repo) MarkJobFailed(ctx context.Context, id string, errMsg string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         JobFailed,
			"error":          errMsg,
			"result_turn_id": nil,
		}).Error
}
