package app

import (
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/modules/backup"
	"github.com/myblog/core/internal/modules/content/category"
	"github.com/myblog/core/internal/modules/content/comment"
	"github.com/myblog/core/internal/modules/content/link"
	"github.com/myblog/core/internal/modules/content/post"
)

type services struct {
	account    *account.Service
	posts      *post.Service
	categories *category.Service
	comments   *comment.Service
	links      *link.Service
	backup     *backup.Service
}

func (a *App) newServices() services {
	return services{
		account:    account.NewService(a.db),
		posts:      post.NewService(a.db),
		categories: category.NewService(a.db),
		comments:   comment.NewService(a.db),
		links:      link.NewService(a.db),
		backup:     backup.NewService(a.db, a.cfg.BackupDir(), a.cfg.Backup, a.logger.Named("backup")),
	}
}
