package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

// The structs below mirror internal/models at the time this migration was
// written. They are intentionally duplicated so later model changes do not
// rewrite history.

type User struct {
	ID        string    `gorm:"type:text;primaryKey"`
	Username  string    `gorm:"type:text;uniqueIndex;not null"`
	Name      string    `gorm:"type:text"`
	Surname   string    `gorm:"type:text"`
	Role      string    `gorm:"type:text;not null;default:'ReadOnly'"`
	Active    bool      `gorm:"not null;default:true"`
	Email     string    `gorm:"type:text;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
}

func (User) TableName() string { return "users" }

type Club struct {
	ID                  uint       `gorm:"primaryKey;autoIncrement"`
	Name                string     `gorm:"type:varchar(200);uniqueIndex;not null"`
	RegistrationNumber  *string    `gorm:"type:text"`
	Address             *string    `gorm:"type:text"`
	Email               *string    `gorm:"type:text"`
	Phone               *string    `gorm:"type:text"`
	Guidelines          *string    `gorm:"type:text"`
	GuidelinesUpdatedAt *time.Time `gorm:"type:timestamptz"`
	ChairmanID          *string    `gorm:"type:text;index"`
	CreatedAt           time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	Chairman            *User      `gorm:"foreignKey:ChairmanID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Club) TableName() string { return "clubs" }

type AuditLogEntry struct {
	ID           int64          `gorm:"type:bigserial;primaryKey"`
	UserID       string         `gorm:"type:text;not null"`
	ClubID       uint           `gorm:"not null;index"`
	Action       string         `gorm:"type:text;not null"`
	OriginalData datatypes.JSON `gorm:"type:jsonb"`
	NewData      datatypes.JSON `gorm:"type:jsonb"`
	ChangedAt    time.Time      `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	Club         Club           `gorm:"foreignKey:ClubID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (AuditLogEntry) TableName() string { return "audit_log" }

type Dog struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"`
	Name      string     `gorm:"type:text;not null"`
	Breed     string     `gorm:"type:text"`
	BirthDate *time.Time `gorm:"type:timestamptz"`
	OwnerID   *string    `gorm:"type:text;index"`
	CreatedAt time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	Owner     *User      `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Dog) TableName() string { return "dogs" }

type Exhibition struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:text;not null"`
	Location    string    `gorm:"type:text"`
	HeldAt      time.Time `gorm:"type:timestamptz;not null"`
	ClubID      uint      `gorm:"not null;index"`
	CreatedByID *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	Club        Club      `gorm:"foreignKey:ClubID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Exhibition) TableName() string { return "exhibitions" }

type ExhibitionResult struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	ExhibitionID uint       `gorm:"not null;index"`
	DogID        uint       `gorm:"not null;index"`
	Placement    int        `gorm:"not null"`
	Notes        string     `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now();autoCreateTime"`
	Exhibition   Exhibition `gorm:"foreignKey:ExhibitionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Dog          Dog        `gorm:"foreignKey:DogID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (ExhibitionResult) TableName() string { return "exhibition_results" }

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).AutoMigrate(
		&User{},
		&Club{},
		&AuditLogEntry{},
		&Dog{},
		&Exhibition{},
		&ExhibitionResult{},
	); err != nil {
		return err
	}

	m := gormDB.WithContext(ctx).Migrator()
	if err := m.CreateConstraint(&Club{}, "Chairman"); err != nil {
		return err
	}
	if err := m.CreateConstraint(&AuditLogEntry{}, "Club"); err != nil {
		return err
	}
	if err := m.CreateConstraint(&Exhibition{}, "Club"); err != nil {
		return err
	}
	if err := m.CreateConstraint(&ExhibitionResult{}, "Exhibition"); err != nil {
		return err
	}
	if err := m.CreateConstraint(&ExhibitionResult{}, "Dog"); err != nil {
		return err
	}

	return nil
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := gormDB.WithContext(ctx).Migrator().DropTable(
		&ExhibitionResult{},
		&Exhibition{},
		&Dog{},
		&AuditLogEntry{},
		&Club{},
		&User{},
	); err != nil {
		return err
	}

	return nil
}
