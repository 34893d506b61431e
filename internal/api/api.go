package api

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"gorm.io/gorm"

	"github.com/Stevekk11/Evidence-psich-spolku/internal/audit"
	"github.com/Stevekk11/Evidence-psich-spolku/internal/club"
)

// Store holds external dependencies required by the API layer.
type Store struct {
	ORM *gorm.DB
	DB  *pgxpool.Pool
	Bus *nats.Conn
}

// Config controls runtime behaviour for the API handlers.
type Config struct {
	JWTSigningKey  string
	AllowedOrigins []string
}

// API wires dependencies and configuration for HTTP handlers.
type API struct {
	store  *Store
	config Config
	clubs  *club.Service
	audits *audit.Query
}

// New initialises the API layer.
func New(store *Store, cfg Config) (*API, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if store.ORM == nil {
		return nil, errors.New("store ORM is required")
	}
	if store.DB == nil {
		return nil, errors.New("store DB pool is required")
	}
	if cfg.JWTSigningKey == "" {
		return nil, errors.New("JWT signing key is required")
	}

	return &API{
		store:  store,
		config: cfg,
		clubs:  club.NewService(store.ORM, audit.NewRecorder(), store.Bus),
		audits: audit.NewQuery(store.DB),
	}, nil
}
