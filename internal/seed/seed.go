// Package seed populates a database with demo content for development and
// manual testing. It is never used by the API server itself.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password of every seeded user.
const DemoPassword = "password123"

const batchSize = 100

var interestDomains = []string{
	"science", "history", "programming", "fiction", "books", "careers",
	"design", "music", "travel", "food", "startups", "philosophy",
}

// Options configure SeedDemo.
type Options struct {
	NumUsers       int
	NumArticles    int
	NumDiscussions int
	NumProposals   int
	// MaxDays spreads created_at timestamps over the past N days.
	MaxDays int
	// Seed makes generated content reproducible. Zero uses the clock.
	Seed int64
}

// Summary counts the rows a seeding run created.
type Summary struct {
	Users         int
	Articles      int
	Comments      int
	Bookmarks     int
	Discussions   int
	Proposals     int
	Responses     int
	Notifications int
	Subscribers   int
}

func (s Summary) String() string {
	return fmt.Sprintf("users=%d articles=%d comments=%d bookmarks=%d discussions=%d proposals=%d responses=%d notifications=%d subscribers=%d",
		s.Users, s.Articles, s.Comments, s.Bookmarks, s.Discussions, s.Proposals, s.Responses, s.Notifications, s.Subscribers)
}

// Seeder writes demo rows through a Gorm handle.
type Seeder struct {
	db           *gorm.DB
	passwordHash string
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

func (s *Seeder) hash() (string, error) {
	if s.passwordHash != "" {
		return s.passwordHash, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	s.passwordHash = string(h)
	return s.passwordHash, nil
}

// ClearAll hard-deletes every row of every schema-managed table, children
// first. The admin credential is kept.
func (s *Seeder) ClearAll() error {
	log.Println("🧹 Clearing existing data...")
	tables := database.PersistentModels()
	for i := len(tables) - 1; i >= 0; i-- {
		if _, ok := tables[i].(*models.AdminCredential); ok {
			continue
		}
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(tables[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", tables[i], err)
		}
	}
	return nil
}

// ApplyFixtures inserts hand-written content in a single transaction.
func (s *Seeder) ApplyFixtures(fx *Fixtures) (Summary, error) {
	var sum Summary
	hash, err := s.hash()
	if err != nil {
		return sum, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		ids := make(map[string]uint, len(fx.Users))
		for _, u := range fx.Users {
			user := models.User{
				Name:              u.Name,
				Username:          u.Username,
				Email:             strings.ToLower(u.Email),
				Password:          hash,
				IsVerified:        u.Verified,
				InterestedDomains: u.Interests,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("user %s: %w", u.Username, err)
			}
			ids[u.Username] = user.ID
			sum.Users++
		}

		for _, a := range fx.Articles {
			article := models.Article{
				Title:     a.Title,
				Author:    a.Author,
				Content:   strings.TrimSpace(a.Content),
				Thumbnail: a.Thumbnail,
				Viewed:    a.Viewed,
			}
			if err := tx.Create(&article).Error; err != nil {
				return fmt.Errorf("article %q: %w", a.Title, err)
			}
			sum.Articles++
			for _, body := range a.Comments {
				if err := tx.Create(&models.Comment{ArticleID: article.ID, Content: body}).Error; err != nil {
					return err
				}
				sum.Comments++
			}
		}

		for _, d := range fx.Discussions {
			discussion := models.Discussion{Title: d.Title, Body: d.Body, AuthorID: ids[d.Author]}
			if err := tx.Omit(clause.Associations).Create(&discussion).Error; err != nil {
				return fmt.Errorf("discussion %q: %w", d.Title, err)
			}
			sum.Discussions++
			for _, c := range d.Comments {
				comment := models.DiscussionComment{DiscussionID: discussion.ID, Body: c.Body, AuthorID: ids[c.Author]}
				if err := tx.Omit(clause.Associations).Create(&comment).Error; err != nil {
					return err
				}
				sum.Comments++
				for _, r := range c.Replies {
					reply := models.DiscussionReply{CommentID: comment.ID, Body: r.Body, AuthorID: ids[r.Author]}
					if err := tx.Omit(clause.Associations).Create(&reply).Error; err != nil {
						return err
					}
					sum.Comments++
				}
			}
		}

		for _, p := range fx.Proposals {
			proposal := models.Proposal{
				UserID:              ids[p.Owner],
				Description:         p.Description,
				Details:             p.Details,
				Deadline:            time.Now().AddDate(0, 0, p.DeadlineDays),
				TeamMembersRequired: max(p.TeamMembersRequired, 1),
				IsPaid:              p.Paid,
				Email:               p.Email,
			}
			if err := tx.Omit(clause.Associations).Create(&proposal).Error; err != nil {
				return fmt.Errorf("proposal %q: %w", p.Description, err)
			}
			sum.Proposals++
			for _, r := range p.Responses {
				if err := tx.Create(&models.ProposalResponse{ProposalID: proposal.ID, Phone: r.Phone, Message: r.Message}).Error; err != nil {
					return err
				}
				sum.Responses++
			}
		}

		for _, n := range fx.Notifications {
			if err := tx.Create(&models.Notification{Title: n.Title, Message: n.Message}).Error; err != nil {
				return err
			}
			sum.Notifications++
		}
		return nil
	})
	return sum, err
}

// SeedDemo generates random content with gofakeit on top of whatever is
// already stored.
func (s *Seeder) SeedDemo(opts Options) (Summary, error) {
	var sum Summary
	if opts.NumUsers <= 0 {
		return sum, fmt.Errorf("at least one user is required")
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &generator{faker: gofakeit.New(seed), maxDays: opts.MaxDays, now: time.Now()}

	hash, err := s.hash()
	if err != nil {
		return sum, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		users := g.users(opts.NumUsers, hash)
		if err := tx.CreateInBatches(users, batchSize).Error; err != nil {
			return fmt.Errorf("users: %w", err)
		}
		sum.Users = len(users)
		log.Printf("✓ %d users", sum.Users)

		if opts.NumArticles > 0 {
			articles := g.articles(opts.NumArticles, users)
			if err := tx.CreateInBatches(articles, batchSize).Error; err != nil {
				return fmt.Errorf("articles: %w", err)
			}
			sum.Articles = len(articles)

			comments := g.comments(articles)
			if len(comments) > 0 {
				if err := tx.CreateInBatches(comments, batchSize).Error; err != nil {
					return fmt.Errorf("comments: %w", err)
				}
			}
			sum.Comments += len(comments)

			bookmarks := g.bookmarks(users, articles)
			if len(bookmarks) > 0 {
				if err := tx.Omit(clause.Associations).CreateInBatches(bookmarks, batchSize).Error; err != nil {
					return fmt.Errorf("bookmarks: %w", err)
				}
			}
			sum.Bookmarks = len(bookmarks)
			log.Printf("✓ %d articles, %d comments, %d bookmarks", sum.Articles, len(comments), sum.Bookmarks)
		}

		for i := 0; i < opts.NumDiscussions; i++ {
			n, err := g.discussion(tx, users)
			if err != nil {
				return fmt.Errorf("discussions: %w", err)
			}
			sum.Discussions++
			sum.Comments += n
		}

		for i := 0; i < opts.NumProposals; i++ {
			n, err := g.proposal(tx, users)
			if err != nil {
				return fmt.Errorf("proposals: %w", err)
			}
			sum.Proposals++
			sum.Responses += n
		}

		subscribers := g.subscribers(users)
		if len(subscribers) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&subscribers).Error; err != nil {
				return fmt.Errorf("subscribers: %w", err)
			}
		}
		sum.Subscribers = len(subscribers)
		return nil
	})
	return sum, err
}

type generator struct {
	faker   *gofakeit.Faker
	maxDays int
	now     time.Time
}

func (g *generator) createdAt() time.Time {
	back := time.Duration(g.faker.Number(0, g.maxDays*24*60)) * time.Minute
	return g.now.Add(-back)
}

func (g *generator) users(n int, hash string) []models.User {
	users := make([]models.User, 0, n)
	names := make(map[string]bool, n)
	handles := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		name := g.faker.Name()
		for attempt := 0; names[name]; attempt++ {
			name = g.faker.Name()
			if attempt > 5 {
				name = fmt.Sprintf("%s %s", name, g.faker.LetterN(4))
			}
		}
		names[name] = true

		username := strings.ToLower(g.faker.Username())
		for handles[username] {
			username = fmt.Sprintf("%s%d", username, g.faker.Number(10, 99))
		}
		handles[username] = true

		created := g.createdAt()
		users = append(users, models.User{
			Name:              name,
			Username:          username,
			Email:             fmt.Sprintf("%s@%s", username, g.faker.DomainName()),
			Password:          hash,
			IsVerified:        g.faker.Bool(),
			InterestedDomains: g.interests(),
			CreatedAt:         created,
			UpdatedAt:         created,
		})
	}
	return users
}

func (g *generator) interests() []string {
	n := g.faker.Number(1, 3)
	picked := make([]string, 0, n)
	seen := map[string]bool{}
	for len(picked) < n {
		d := g.faker.RandomString(interestDomains)
		if !seen[d] {
			seen[d] = true
			picked = append(picked, d)
		}
	}
	return picked
}

func (g *generator) articles(n int, users []models.User) []models.Article {
	articles := make([]models.Article, 0, n)
	for i := 0; i < n; i++ {
		author := users[g.faker.Number(0, len(users)-1)]
		paragraphs := make([]string, g.faker.Number(2, 5))
		for j := range paragraphs {
			paragraphs[j] = "<p>" + g.faker.Paragraph(1, g.faker.Number(3, 6), 12, " ") + "</p>"
		}
		created := g.createdAt()
		articles = append(articles, models.Article{
			Title:     strings.TrimSuffix(g.faker.Sentence(g.faker.Number(3, 8)), "."),
			Author:    author.Username,
			Content:   strings.Join(paragraphs, "\n"),
			Thumbnail: fmt.Sprintf("https://picsum.photos/seed/%s/800/450", g.faker.UUID()),
			Viewed:    int64(g.faker.Number(0, 2500)),
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	return articles
}

func (g *generator) comments(articles []models.Article) []models.Comment {
	var comments []models.Comment
	for _, a := range articles {
		for i := g.faker.Number(0, 4); i > 0; i-- {
			comments = append(comments, models.Comment{
				ArticleID: a.ID,
				Content:   g.faker.Sentence(g.faker.Number(4, 16)),
				CreatedAt: a.CreatedAt.Add(time.Duration(g.faker.Number(1, 72)) * time.Hour),
			})
		}
	}
	return comments
}

func (g *generator) bookmarks(users []models.User, articles []models.Article) []models.Bookmark {
	var bookmarks []models.Bookmark
	for _, u := range users {
		picked := map[uint]bool{}
		for i := g.faker.Number(0, min(3, len(articles))); i > 0; i-- {
			a := articles[g.faker.Number(0, len(articles)-1)]
			if picked[a.ID] {
				continue
			}
			picked[a.ID] = true
			bookmarks = append(bookmarks, models.Bookmark{UserID: u.ID, ArticleID: a.ID})
		}
	}
	return bookmarks
}

func (g *generator) discussion(tx *gorm.DB, users []models.User) (int, error) {
	pick := func() uint { return users[g.faker.Number(0, len(users)-1)].ID }
	d := models.Discussion{
		Title:     strings.TrimSuffix(g.faker.Question(), "?") + "?",
		Body:      g.faker.Paragraph(1, 3, 14, " "),
		AuthorID:  pick(),
		CreatedAt: g.createdAt(),
	}
	if err := tx.Omit(clause.Associations).Create(&d).Error; err != nil {
		return 0, err
	}
	count := 0
	for i := g.faker.Number(0, 3); i > 0; i-- {
		c := models.DiscussionComment{DiscussionID: d.ID, Body: g.faker.Sentence(12), AuthorID: pick()}
		if err := tx.Omit(clause.Associations).Create(&c).Error; err != nil {
			return count, err
		}
		count++
		for j := g.faker.Number(0, 2); j > 0; j-- {
			r := models.DiscussionReply{CommentID: c.ID, Body: g.faker.Sentence(8), AuthorID: pick()}
			if err := tx.Omit(clause.Associations).Create(&r).Error; err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func (g *generator) proposal(tx *gorm.DB, users []models.User) (int, error) {
	owner := users[g.faker.Number(0, len(users)-1)]
	p := models.Proposal{
		UserID:              owner.ID,
		Description:         g.faker.BuzzWord() + " " + g.faker.HackerNoun(),
		Details:             g.faker.Paragraph(1, 4, 12, " "),
		Deadline:            g.now.AddDate(0, 0, g.faker.Number(7, 120)),
		TeamMembersRequired: g.faker.Number(1, 6),
		IsPaid:              g.faker.Bool(),
		Email:               owner.Email,
		CreatedAt:           g.createdAt(),
	}
	if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
		return 0, err
	}
	n := g.faker.Number(0, 3)
	for i := 0; i < n; i++ {
		msg := []rune(g.faker.Sentence(10))
		if len(msg) > models.MaxProposalResponseRunes {
			msg = msg[:models.MaxProposalResponseRunes]
		}
		r := models.ProposalResponse{ProposalID: p.ID, Phone: g.faker.Phone(), Message: string(msg)}
		if g.faker.Bool() {
			uid := users[g.faker.Number(0, len(users)-1)].ID
			r.UserID = &uid
		}
		if err := tx.Create(&r).Error; err != nil {
			return i, err
		}
	}
	return n, nil
}

func (g *generator) subscribers(users []models.User) []models.Subscriber {
	var subs []models.Subscriber
	for _, u := range users {
		if g.faker.Number(0, 2) == 0 {
			subs = append(subs, models.Subscriber{Email: u.Email})
		}
	}
	return subs
}
