package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"smartalert/backend/internal/models"

	"gorm.io/gorm"
)

func complaintCacheKey(id string) string {
	return "complaint:" + id
}

// CreateComplaint inserts the complaint together with any timeline events and
// comments it already carries.
func (s *Service) CreateComplaint(ctx context.Context, complaint *models.Complaint) error {
	if err := s.DB.WithContext(ctx).Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint %q: %v", complaint.Title, err)
		return err
	}
	return nil
}

// GetComplaint returns the complaint with its timeline and comments in
// insertion order. Reads go through the cache; every mutation below
// invalidates it, so all views see the same record.
func (s *Service) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	if cached, ok := s.cachedComplaint(ctx, id); ok {
		return cached, nil
	}

	var complaint models.Complaint
	err := s.DB.WithContext(ctx).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&complaint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get complaint %s: %v", id, err)
		return nil, err
	}

	s.cacheComplaint(ctx, &complaint)
	s.verifyCached(ctx, &complaint)
	return &complaint, nil
}

// verifyCached drops the entry just written if the record moved on after it
// was read. A writer that commits later deletes the entry itself, so no
// stale copy outlives both checks.
func (s *Service) verifyCached(ctx context.Context, complaint *models.Complaint) {
	if s.Cache == nil {
		return
	}
	var version int64
	err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Select("version").
		Where("id = ?", complaint.ID).
		Scan(&version).Error
	if err != nil || version != complaint.Version {
		s.invalidate(ctx, complaint.ID)
	}
}

// ListComplaints returns complaints newest first, without timelines or comments.
func (s *Service) ListComplaints(ctx context.Context, params ListParams) ([]models.Complaint, error) {
	q := s.DB.WithContext(ctx).Model(&models.Complaint{})
	if params.SubmittedByID != "" {
		q = q.Where("reporter_user_id = ?", params.SubmittedByID)
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	complaints := make([]models.Complaint, 0)
	if err := q.Order("created_at DESC").Order("id DESC").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to list complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// CountComplaintsByStatus groups complaints by status, optionally for one reporter.
func (s *Service) CountComplaintsByStatus(ctx context.Context, submittedByID string) (map[models.Status]int64, error) {
	var rows []struct {
		Status models.Status
		Count  int64
	}

	q := s.DB.WithContext(ctx).Model(&models.Complaint{}).Select("status, COUNT(*) AS count")
	if submittedByID != "" {
		q = q.Where("reporter_user_id = ?", submittedByID)
	}
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// UpdateComplaintStatus moves the complaint to a new status and appends the
// timeline event and system comment in the same transaction. The current
// status is read inside the transaction and passed to check; it is also
// returned. ErrStaleStatus means another writer got in between.
func (s *Service) UpdateComplaintStatus(ctx context.Context, id string, to models.Status, check StatusCheck, event *models.TimelineEvent, comment *models.Comment) (models.Status, error) {
	var from models.Status
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Complaint
		err := tx.Select("id", "status", "version").Where("id = ?", id).Take(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		from = current.Status

		if check != nil {
			if err := check(current.Status); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Complaint{}).
			Where("id = ? AND version = ?", id, current.Version).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_at": event.CreatedAt,
				"version":    gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}

		event.ComplaintID = id
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		if comment != nil {
			comment.ComplaintID = id
			if err := tx.Create(comment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil || errors.Is(err, ErrStaleStatus) {
		s.invalidate(ctx, id)
	}
	return from, err
}

// AddComment appends one comment to a complaint's thread.
func (s *Service) AddComment(ctx context.Context, comment *models.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Complaint{}).
			Where("id = ?", comment.ComplaintID).
			Updates(map[string]interface{}{
				"updated_at": comment.CreatedAt,
				"version":    gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, comment.ComplaintID)
	return nil
}

func (s *Service) cachedComplaint(ctx context.Context, id string) (*models.Complaint, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, complaintCacheKey(id))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			log.Printf("WARNING: Complaint cache read failed for %s: %v", id, err)
		}
		return nil, false
	}

	var complaint models.Complaint
	if err := json.Unmarshal([]byte(raw), &complaint); err != nil {
		log.Printf("WARNING: Dropping corrupt cache entry for %s: %v", id, err)
		s.invalidate(ctx, id)
		return nil, false
	}
	return &complaint, true
}

func (s *Service) cacheComplaint(ctx context.Context, complaint *models.Complaint) {
	if s.Cache == nil {
		return
	}
	payload, err := json.Marshal(complaint)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, complaintCacheKey(complaint.ID), string(payload), s.CacheTTL); err != nil {
		log.Printf("WARNING: Complaint cache write failed for %s: %v", complaint.ID, err)
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, complaintCacheKey(id)); err != nil {
		log.Printf("ERROR: Failed to invalidate cached complaint %s: %v", id, err)
	}
}
