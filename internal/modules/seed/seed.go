// Package seed fills an empty database with fake blog content.
package seed

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/myblog/core/internal/models"
	"github.com/myblog/core/internal/modules/account"
	"github.com/myblog/core/internal/modules/content/category"
	"gorm.io/gorm"
)

const (
	AdminUsername = "admin"
	AdminPassword = "helloflask"

	adminName  = "Mima Kirigoe"
	adminEmail = "mima@example.com"
	adminSite  = "https://example.com"
	adminAbout = "Um, l, Mima Kirigoe, had a fun time as a member of CHAM. Now I'm a successful actress. If you want to know more, feel free to leave a comment."

	batchSize = 100
)

// Options sets how much content Forge generates.
type Options struct {
	Categories int
	Posts      int
	Comments   int
	// Seed makes the output reproducible; 0 picks a random seed.
	Seed int64
	// Progress, when set, receives one line per generation step.
	Progress func(msg string)
}

// DefaultOptions mirrors the `forge` command defaults.
func DefaultOptions() Options {
	return Options{Categories: 10, Posts: 50, Comments: 500}
}

// Result counts what Forge inserted.
type Result struct {
	Categories int
	Posts      int
	Comments   int
	Links      int
}

type forger struct {
	db   *gorm.DB
	fake *gofakeit.Faker
	opts Options
	res  Result
}

// Forge generates an admin, categories, posts, comments and links. The
// tables must exist; callers usually reset the database first.
func Forge(db *gorm.DB, opts Options) (*Result, error) {
	if opts.Categories < 0 || opts.Posts < 0 || opts.Comments < 0 {
		return nil, errors.New("counts must not be negative")
	}
	f := &forger{db: db, fake: gofakeit.New(opts.Seed), opts: opts}

	steps := []struct {
		msg string
		fn  func() error
	}{
		{"Generating the administrator...", f.admin},
		{fmt.Sprintf("Generating %d categories...", opts.Categories), f.categories},
		{fmt.Sprintf("Generating %d posts...", opts.Posts), f.posts},
		{fmt.Sprintf("Generating %d comments...", opts.Comments), f.comments},
		{"Generating links...", f.links},
	}
	for _, step := range steps {
		f.progress(step.msg)
		if err := step.fn(); err != nil {
			return nil, err
		}
	}
	f.progress("Done.")
	return &f.res, nil
}

func (f *forger) progress(msg string) {
	if f.opts.Progress != nil {
		f.opts.Progress(msg)
	}
}

func (f *forger) admin() error {
	svc := account.NewService(f.db)
	a, _, err := svc.Init(AdminUsername, AdminPassword)
	if err != nil {
		return err
	}
	_, err = svc.UpdateSettings(a.ID, account.Settings{
		Name:         adminName,
		BlogTitle:    account.DefaultBlogTitle,
		BlogSubTitle: account.DefaultBlogSubTitle,
		About:        adminAbout,
	})
	return err
}

func (f *forger) categories() error {
	svc := category.NewService(f.db)
	if _, created, err := svc.EnsureDefault("Default"); err != nil {
		return err
	} else if created {
		f.res.Categories++
	}

	// Random words collide; keep drawing until enough unique names exist.
	for attempts := 0; f.res.Categories < f.opts.Categories+1 && attempts < f.opts.Categories*10; attempts++ {
		_, err := svc.Create(f.fake.Word())
		if errors.Is(err, category.ErrDuplicateName) {
			continue
		}
		if err != nil {
			return err
		}
		f.res.Categories++
	}
	return nil
}

func (f *forger) posts() error {
	if f.opts.Posts == 0 {
		return nil
	}
	var categoryIDs []string
	if err := f.db.Model(&models.CategoryModel{}).Pluck("id", &categoryIDs).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return errors.New("no categories to attach posts to")
	}

	now := time.Now()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	posts := make([]models.PostModel, 0, f.opts.Posts)
	for i := 0; i < f.opts.Posts; i++ {
		created := f.fake.DateRange(yearStart, now)
		posts = append(posts, models.PostModel{
			Base:       models.Base{CreatedAt: created, UpdatedAt: created},
			Title:      trimTo(f.fake.Sentence(6), 60),
			Body:       f.fake.Paragraph(5, 6, 20, "\n\n"),
			CanComment: true,
			CategoryID: categoryIDs[f.fake.Number(0, len(categoryIDs)-1)],
		})
	}
	if err := f.db.CreateInBatches(&posts, batchSize).Error; err != nil {
		return err
	}
	f.res.Posts = len(posts)
	return nil
}

func (f *forger) comments() error {
	if f.opts.Comments == 0 {
		return nil
	}
	var posts []models.PostModel
	if err := f.db.Select("id", "created_at").Find(&posts).Error; err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}

	now := time.Now()
	pick := func() models.PostModel { return posts[f.fake.Number(0, len(posts)-1)] }
	visitor := func(p models.PostModel, reviewed bool) models.CommentModel {
		created := f.fake.DateRange(p.CreatedAt, now)
		return models.CommentModel{
			Base:     models.Base{CreatedAt: created, UpdatedAt: created},
			Author:   trimTo(f.fake.Name(), 30),
			Email:    f.fake.Email(),
			Site:     f.fake.URL(),
			Body:     f.fake.Sentence(f.fake.Number(5, 30)),
			Reviewed: reviewed,
			PostID:   p.ID,
		}
	}

	// Mostly reviewed visitor comments, plus a tenth each of unreviewed
	// ones, admin comments and replies.
	salt := f.opts.Comments / 10
	comments := make([]models.CommentModel, 0, f.opts.Comments+3*salt)
	for i := 0; i < f.opts.Comments; i++ {
		comments = append(comments, visitor(pick(), true))
	}
	for i := 0; i < salt; i++ {
		comments = append(comments, visitor(pick(), false))
	}
	for i := 0; i < salt; i++ {
		p := pick()
		created := f.fake.DateRange(p.CreatedAt, now)
		comments = append(comments, models.CommentModel{
			Base:      models.Base{CreatedAt: created, UpdatedAt: created},
			Author:    adminName,
			Email:     adminEmail,
			Site:      adminSite,
			Body:      f.fake.Sentence(f.fake.Number(5, 30)),
			FromAdmin: true,
			Reviewed:  true,
			PostID:    p.ID,
		})
	}
	if err := f.db.CreateInBatches(&comments, batchSize).Error; err != nil {
		return err
	}

	replies := make([]models.CommentModel, 0, salt)
	for i := 0; i < salt; i++ {
		target := comments[f.fake.Number(0, len(comments)-1)]
		created := f.fake.DateRange(target.CreatedAt, now)
		reply := visitor(models.PostModel{Base: models.Base{ID: target.PostID}}, true)
		reply.CreatedAt, reply.UpdatedAt = created, created
		replyTo := target.ID
		reply.RepliedID = &replyTo
		replies = append(replies, reply)
	}
	if len(replies) > 0 {
		if err := f.db.CreateInBatches(&replies, batchSize).Error; err != nil {
			return err
		}
	}
	f.res.Comments = len(comments) + len(replies)
	return nil
}

func (f *forger) links() error {
	links := []models.LinkModel{
		{Name: "Twitter", URL: "https://twitter.com/"},
		{Name: "Facebook", URL: "https://facebook.com/"},
		{Name: "LinkedIn", URL: "https://linkedin.com/"},
		{Name: "GitHub", URL: "https://github.com/"},
	}
	if err := f.db.Create(&links).Error; err != nil {
		return err
	}
	f.res.Links = len(links)
	return nil
}

func trimTo(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
