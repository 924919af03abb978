package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/Meetcast/internal/app"
	"github.com/dkeye/Meetcast/internal/domain"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Seed struct {
	Code      string `mapstructure:"code"`
	HostToken string `mapstructure:"host_token"`
}

type Config struct {
	Driver      string // memory, postgres, sqlite
	DSN         string // postgres DSN or sqlite file path
	AutoMigrate bool
	Meetings    []Seed // inserted at startup unless the code exists
}

// Open connects gorm for the sql drivers.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&Meeting{}); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, nil
}

// New builds the meeting store selected by cfg.Driver.
func New(cfg Config) (app.MeetingStore, error) {
	if cfg.Driver == "" || cfg.Driver == "memory" {
		s := NewMemoryMeetingStore()
		for _, m := range cfg.Meetings {
			s.Put(domain.MeetingCode(m.Code), m.HostToken)
		}
		log.Info().Str("module", "store").Int("meetings", len(cfg.Meetings)).Msg("memory store ready")
		return s, nil
	}
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	s := NewGormMeetingStore(db)
	for _, m := range cfg.Meetings {
		if err := s.Create(context.Background(), &Meeting{MeetingCode: m.Code, HostToken: m.HostToken}); err != nil {
			return nil, err
		}
	}
	log.Info().Str("module", "store").Str("driver", cfg.Driver).Int("seeded", len(cfg.Meetings)).Msg("database store ready")
	return s, nil
}

type GormMeetingStore struct {
	db *gorm.DB
}

func NewGormMeetingStore(db *gorm.DB) *GormMeetingStore {
	return &GormMeetingStore{db: db}
}

func (s *GormMeetingStore) LookupHostToken(ctx context.Context, code domain.MeetingCode) (string, bool, error) {
	var m Meeting
	err := s.db.WithContext(ctx).
		Select("meeting_code", "host_token").
		Where("meeting_code = ?", string(code)).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup meeting %s: %w", code, err)
	}
	return m.HostToken, true, nil
}

// Create inserts m. A meeting that already exists is left untouched.
func (s *GormMeetingStore) Create(ctx context.Context, m *Meeting) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m).Error
	if err != nil {
		return fmt.Errorf("create meeting %s: %w", m.MeetingCode, err)
	}
	return nil
}
