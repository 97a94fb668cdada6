package app

import (
	"context"
	"fmt"
	"time"

	pkgcron "github.com/myblog/core/internal/pkg/cron"
	"github.com/myblog/core/internal/pkg/session"
	"go.uber.org/zap"
)

const (
	JobPurgeSessions = "purge_sessions"
	JobBackup        = "backup"
)

func (a *App) registerCronJobs(svc services) {
	a.sched.Register(pkgcron.Job{
		Name:        JobPurgeSessions,
		Description: "Remove expired and revoked login sessions",
		Interval:    6 * time.Hour,
		Fn: func(ctx context.Context) error {
			n, err := session.Purge(a.db.WithContext(ctx))
			if err != nil {
				return err
			}
			if n > 0 {
				a.logger.Info("purged sessions", zap.Int64("count", n))
			}
			return nil
		},
	})

	if !a.cfg.Backup.Enable {
		return
	}
	hours := a.cfg.Backup.IntervalHours
	if hours <= 0 {
		hours = 24
	}
	a.sched.Register(pkgcron.Job{
		Name:        JobBackup,
		Description: fmt.Sprintf("Archive the database every %dh", hours),
		Interval:    time.Duration(hours) * time.Hour,
		Fn:          svc.backup.Run,
	})
}
