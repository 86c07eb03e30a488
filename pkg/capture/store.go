package capture

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"wampcore/pkg/common/logger"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("capture: record not found")

// Store persists FrameRecords through gorm.
type Store struct {
	db  *gorm.DB
	log *zerolog.Logger
}

// Open migrates the frame_records table on db.
func Open(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("capture: nil database")
	}
	if err := db.AutoMigrate(&FrameRecord{}); err != nil {
		return nil, fmt.Errorf("capture: migrate: %w", err)
	}
	return &Store{db: db, log: logger.WithComponent("capture")}, nil
}

// Record saves rec and fills in its ID.
func (s *Store) Record(ctx context.Context, rec *FrameRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("capture: record: %w", err)
	}
	s.log.Debug().Uint("id", rec.ID).Str("type", rec.TypeName).Bool("failed", rec.Failed()).Msg("frame recorded")
	return nil
}

// RecordAll saves recs in one transaction.
func (s *Store) RecordAll(ctx context.Context, recs []*FrameRecord) error {
	if len(recs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(recs, 100).Error; err != nil {
		return fmt.Errorf("capture: record batch: %w", err)
	}
	return nil
}

// Get returns the record with id.
func (s *Store) Get(ctx context.Context, id uint) (*FrameRecord, error) {
	var rec FrameRecord
	err := s.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Filter narrows List.
type Filter struct {
	Tag        *uint64
	FailedOnly bool
}

// List returns records newest first plus the total matching count.
func (s *Store) List(ctx context.Context, f Filter, limit, offset int) ([]FrameRecord, int64, error) {
	scope := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&FrameRecord{})
		if f.Tag != nil {
			q = q.Where("tag = ?", storedTag(*f.Tag))
		}
		if f.FailedOnly {
			q = q.Where("error_text <> ''")
		}
		return q
	}
	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	var recs []FrameRecord
	if err := scope().Order("id desc").Limit(limit).Offset(offset).Find(&recs).Error; err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// All returns every record in insertion order.
func (s *Store) All(ctx context.Context) ([]FrameRecord, error) {
	var recs []FrameRecord
	err := s.db.WithContext(ctx).Order("id asc").Find(&recs).Error
	return recs, err
}

// TypeCount is one row of Stats.
type TypeCount struct {
	Tag    uint64 `json:"tag"`
	Type   string `json:"type"`
	Count  int64  `json:"count"`
	Failed int64  `json:"failed"`
}

// Stats summarizes the store.
type Stats struct {
	Total  int64       `json:"total"`
	Failed int64       `json:"failed"`
	ByType []TypeCount `json:"by_type"`
}

// Stats counts records per tag. Frames without a readable tag are grouped
// under tag 0.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	db := s.db.WithContext(ctx)
	if err := db.Model(&FrameRecord{}).Count(&st.Total).Error; err != nil {
		return st, err
	}
	if err := db.Model(&FrameRecord{}).Where("error_text <> ''").Count(&st.Failed).Error; err != nil {
		return st, err
	}
	var rows []struct {
		Tag    int64
		Type   string
		Count  int64
		Failed int64
	}
	err := db.Model(&FrameRecord{}).
		Select("tag, MAX(type_name) AS type, COUNT(*) AS count, SUM(CASE WHEN error_text <> '' THEN 1 ELSE 0 END) AS failed").
		Group("tag").
		Scan(&rows).Error
	if err != nil {
		return st, err
	}
	st.ByType = make([]TypeCount, len(rows))
	for i, r := range rows {
		st.ByType[i] = TypeCount{Tag: uint64(r.Tag), Type: r.Type, Count: r.Count, Failed: r.Failed}
	}
	sort.Slice(st.ByType, func(i, j int) bool { return st.ByType[i].Tag < st.ByType[j].Tag })
	return st, nil
}
