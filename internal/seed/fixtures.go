package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yml
var defaultFixtures []byte

// Fixtures is hand-written demo content loaded from YAML. Authors and owners
// reference users by username.
type Fixtures struct {
	Users         []UserFixture         `yaml:"users"`
	Articles      []ArticleFixture      `yaml:"articles"`
	Discussions   []DiscussionFixture   `yaml:"discussions"`
	Proposals     []ProposalFixture     `yaml:"proposals"`
	Notifications []NotificationFixture `yaml:"notifications"`
}

type UserFixture struct {
	Name      string   `yaml:"name"`
	Username  string   `yaml:"username"`
	Email     string   `yaml:"email"`
	Verified  bool     `yaml:"verified"`
	Interests []string `yaml:"interests"`
}

type ArticleFixture struct {
	Title     string   `yaml:"title"`
	Author    string   `yaml:"author"`
	Content   string   `yaml:"content"`
	Thumbnail string   `yaml:"thumbnail"`
	Viewed    int64    `yaml:"viewed"`
	Comments  []string `yaml:"comments"`
}

type DiscussionFixture struct {
	Title    string           `yaml:"title"`
	Author   string           `yaml:"author"`
	Body     string           `yaml:"body"`
	Comments []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Author  string           `yaml:"author"`
	Body    string           `yaml:"body"`
	Replies []CommentFixture `yaml:"replies"`
}

type ProposalFixture struct {
	Owner               string            `yaml:"owner"`
	Description         string            `yaml:"description"`
	Details             string            `yaml:"details"`
	DeadlineDays        int               `yaml:"deadlineDays"`
	TeamMembersRequired int               `yaml:"teamMembersRequired"`
	Paid                bool              `yaml:"paid"`
	Email               string            `yaml:"email"`
	Responses           []ResponseFixture `yaml:"responses"`
}

type ResponseFixture struct {
	Phone   string `yaml:"phone"`
	Message string `yaml:"message"`
}

type NotificationFixture struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// DefaultFixtures returns the built-in demo content.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(bytes.NewReader(defaultFixtures))
}

// LoadFixtures reads a fixture file from disk.
func LoadFixtures(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseFixtures(f)
}

// ParseFixtures decodes and validates a fixture document. Unknown keys are
// rejected.
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixtures) validate() error {
	users := make(map[string]bool, len(fx.Users))
	for i, u := range fx.Users {
		if err := validation.ValidateUsername(u.Username); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
		if err := validation.ValidateEmail(u.Email); err != nil {
			return fmt.Errorf("users[%d]: %w", i, err)
		}
		if strings.TrimSpace(u.Name) == "" {
			return fmt.Errorf("users[%d]: name is required", i)
		}
		if users[u.Username] {
			return fmt.Errorf("users[%d]: duplicate username %q", i, u.Username)
		}
		users[u.Username] = true
	}

	known := func(where, username string) error {
		if !users[username] {
			return fmt.Errorf("%s: unknown user %q", where, username)
		}
		return nil
	}

	for i, a := range fx.Articles {
		if err := known(fmt.Sprintf("articles[%d]", i), a.Author); err != nil {
			return err
		}
		if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
			return fmt.Errorf("articles[%d]: title and content are required", i)
		}
	}
	for i, d := range fx.Discussions {
		where := fmt.Sprintf("discussions[%d]", i)
		if err := known(where, d.Author); err != nil {
			return err
		}
		for j, c := range d.Comments {
			if err := known(fmt.Sprintf("%s.comments[%d]", where, j), c.Author); err != nil {
				return err
			}
			for k, r := range c.Replies {
				if len(r.Replies) > 0 {
					return fmt.Errorf("%s.comments[%d].replies[%d]: replies cannot nest", where, j, k)
				}
				if err := known(fmt.Sprintf("%s.comments[%d].replies[%d]", where, j, k), r.Author); err != nil {
					return err
				}
			}
		}
	}
	for i, p := range fx.Proposals {
		where := fmt.Sprintf("proposals[%d]", i)
		if err := known(where, p.Owner); err != nil {
			return err
		}
		if err := validation.ValidateEmail(p.Email); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		for j, r := range p.Responses {
			if err := validation.ValidatePhone(r.Phone); err != nil {
				return fmt.Errorf("%s.responses[%d]: %w", where, j, err)
			}
			if utf8.RuneCountInString(r.Message) > models.MaxProposalResponseRunes {
				return fmt.Errorf("%s.responses[%d]: message exceeds %d characters", where, j, models.MaxProposalResponseRunes)
			}
		}
	}
	return nil
}
