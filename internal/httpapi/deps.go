package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"easyapply-engine/internal/config"
	"easyapply-engine/internal/docgen"
	"easyapply-engine/internal/domain"
	"easyapply-engine/internal/events"
	"easyapply-engine/internal/poll"
	"easyapply-engine/internal/scrape/types"

	"go.uber.org/zap"
)

// Searches is what the search endpoints need from poll.Service.
type Searches interface {
	Search(ctx context.Context, reqID string, q types.Query) (poll.Outcome, error)
	Start(reqID string, q types.Query) (string, error)
	Status() types.ScrapeStatus
}

// Documents renders résumés and cover letters.
type Documents interface {
	Generate(ctx context.Context, p domain.JobPosting, kind docgen.Kind, format docgen.Format) (string, error)
}

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log *zap.Logger

	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	Searches  Searches
	Documents Documents
	ExportDir string

	// SetIMAPPassword defaults to the OS keychain.
	SetIMAPPassword func(account, password string) error

	ShutdownToken string
	Shutdown      func()
}
