package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avGenie/go-order-system/internal/app/entity"
	storageErrors "github.com/avGenie/go-order-system/internal/app/storage/api/errors"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Postgres struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewPostgresStorage(ctx context.Context, dbStorageConnect string) (*Postgres, error) {
	return New(ctx, postgres.Open(dbStorageConnect), goose.DialectPostgres)
}

// New opens the database through the dialector and applies the embedded migrations.
func New(ctx context.Context, dialector gorm.Dialector, dialect goose.Dialect) (*Postgres, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error while database connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error while getting database handle: %w", err)
	}

	err = migrate(ctx, sqlDB, dialect)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &Postgres{
		db:    db,
		sqlDB: sqlDB,
	}, nil
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) error {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("error while opening migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("error while creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("error while applying migrations: %w", err)
	}

	for _, result := range results {
		zap.L().Info("migration applied",
			zap.String("source", result.Source.Path),
			zap.Duration("duration", result.Duration),
		)
	}

	return nil
}

func (s *Postgres) Close() error {
	return s.sqlDB.Close()
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *Postgres) GetTeam(ctx context.Context, teamID entity.TeamID) (entity.Team, error) {
	var row teamRow
	err := s.db.WithContext(ctx).
		Where("id = ?", teamID.String()).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Team{}, storageErrors.ErrTeamNotFound
		}
		return entity.Team{}, fmt.Errorf("failed to get team: %w", err)
	}

	return entity.Team{
		ID:   entity.TeamID(row.ID),
		Name: row.Name,
	}, nil
}

// GetTeamMember returns the earliest member of the team.
func (s *Postgres) GetTeamMember(ctx context.Context, teamID entity.TeamID) (entity.Member, error) {
	var row teamMemberRow
	err := s.db.WithContext(ctx).
		Where("team_id = ?", teamID.String()).
		Order("created_at").Order("id").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Member{}, storageErrors.ErrTeamMemberNotFound
		}
		return entity.Member{}, fmt.Errorf("failed to get team member: %w", err)
	}

	return entity.Member{
		UserID: entity.UserID(row.UserID),
		TeamID: entity.TeamID(row.TeamID),
	}, nil
}

func (s *Postgres) GetAPIKey(ctx context.Context, hashedKey string) (entity.APIKey, error) {
	var row apiKeyRow
	err := s.db.WithContext(ctx).
		Where("hashed_key = ?", hashedKey).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.APIKey{}, storageErrors.ErrAPIKeyNotFound
		}
		return entity.APIKey{}, fmt.Errorf("failed to get api key: %w", err)
	}

	return entity.APIKey{
		ID:        row.ID,
		TeamID:    entity.TeamID(row.TeamID),
		ExpiresAt: row.ExpiresAt,
	}, nil
}
