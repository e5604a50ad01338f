// Package storage escolhe o backend da tabela de snapshots a partir de STORE_URL.
package storage

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jeovahfialho/stock-dashboard/internal/config"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/internal/storage/postgres"
	"github.com/jeovahfialho/stock-dashboard/internal/storage/rest"
)

// Open devolve o cliente único do processo. O chamador é dono do Close.
func Open(cfg *config.Config) (domain.SnapshotStore, error) {
	u, err := url.Parse(cfg.StoreURL)
	if err != nil {
		return nil, &config.ConfigurationError{Key: "STORE_URL", Reason: err.Error()}
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		db, err := postgres.NewDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("erro ao conectar ao banco: %w", err)
		}
		return postgres.NewSnapshotStore(db, cfg.StoreTable), nil
	case "http", "https":
		return rest.NewClient(cfg), nil
	default:
		return nil, &config.ConfigurationError{
			Key:    "STORE_URL",
			Reason: fmt.Sprintf("esquema não suportado: %q", u.Scheme),
		}
	}
}
