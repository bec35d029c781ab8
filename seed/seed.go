// Package seed loads a JSON fixture of gigs, crew and merch into the database
// and makes sure an admin account exists. Running it twice changes nothing.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atmos-collective/atmos-site-backend/database"
	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/atmos-collective/atmos-site-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Config controls a seed run.
type Config struct {
	// Path is the fixture file. Empty means only the admin is seeded.
	Path          string
	AdminEmail    string
	AdminPassword string
	Location      *time.Location
}

// Report counts what a run inserted and what it found already present.
type Report struct {
	GigsCreated  int
	GigsSkipped  int
	CrewCreated  int
	CrewSkipped  int
	MerchCreated int
	MerchSkipped int
	AdminCreated bool
}

type Seeder struct {
	db     database.Database
	logger zerolog.Logger
}

func New(db database.Database) *Seeder {
	return &Seeder{
		db:     db,
		logger: log.With().Str("component", "seed").Logger(),
	}
}

// LoadFixture reads and decodes a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var fixture Fixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return &fixture, nil
}

// Run seeds the admin and, when cfg.Path is set, the fixture.
func (s *Seeder) Run(ctx context.Context, cfg Config) (Report, error) {
	var report Report

	created, err := s.seedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return report, err
	}
	report.AdminCreated = created

	if cfg.Path == "" {
		return report, nil
	}
	fixture, err := LoadFixture(cfg.Path)
	if err != nil {
		return report, err
	}
	return s.Apply(ctx, fixture, cfg.Location, report)
}

// Apply inserts every fixture entry not already present, matching gigs by
// title and crew and merch by name.
func (s *Seeder) Apply(ctx context.Context, fixture *Fixture, loc *time.Location, report Report) (Report, error) {
	if loc == nil {
		loc = time.UTC
	}

	for i, g := range fixture.Gigs {
		created, err := s.seedGig(ctx, g, loc)
		if err != nil {
			return report, fmt.Errorf("gig %d (%q): %w", i, g.Title, err)
		}
		if created {
			report.GigsCreated++
		} else {
			report.GigsSkipped++
		}
	}

	if len(fixture.Crew) > 0 {
		existing, err := s.db.CrewRepo().FindAll(ctx)
		if err != nil {
			return report, fmt.Errorf("list crew: %w", err)
		}
		names := make(map[string]bool, len(existing))
		for _, c := range existing {
			names[strings.ToLower(c.Name)] = true
		}
		for _, c := range fixture.Crew {
			name := strings.TrimSpace(c.Name)
			if name == "" {
				return report, errors.New("crew member without a name")
			}
			if names[strings.ToLower(name)] {
				report.CrewSkipped++
				continue
			}
			member := &models.CrewMember{
				Name:          name,
				Role:          c.Role,
				Bio:           c.Bio,
				ImageURL:      c.ImageURL,
				InstagramURL:  c.InstagramURL,
				SoundcloudURL: c.SoundcloudURL,
			}
			if err := s.db.CrewRepo().Add(ctx, member); err != nil {
				return report, fmt.Errorf("add crew member %q: %w", name, err)
			}
			names[strings.ToLower(name)] = true
			report.CrewCreated++
		}
	}

	if len(fixture.Merch) > 0 {
		existing, err := s.db.MerchRepo().FindAll(ctx, false)
		if err != nil {
			return report, fmt.Errorf("list merch: %w", err)
		}
		names := make(map[string]bool, len(existing))
		for _, m := range existing {
			names[strings.ToLower(m.Name)] = true
		}
		for _, m := range fixture.Merch {
			name := strings.TrimSpace(m.Name)
			if name == "" {
				return report, errors.New("merch item without a name")
			}
			if names[strings.ToLower(name)] {
				report.MerchSkipped++
				continue
			}
			if m.PriceCents < 0 {
				return report, fmt.Errorf("merch item %q: negative price", name)
			}
			item := &models.MerchItem{
				Name:        name,
				Description: m.Description,
				PriceCents:  m.PriceCents,
				Currency:    strings.ToUpper(strings.TrimSpace(m.Currency)),
				ImageURL:    m.ImageURL,
				ShopURL:     m.ShopURL,
				Available:   m.Available == nil || *m.Available,
			}
			if err := s.db.MerchRepo().Add(ctx, item); err != nil {
				return report, fmt.Errorf("add merch item %q: %w", name, err)
			}
			names[strings.ToLower(name)] = true
			report.MerchCreated++
		}
	}

	s.logger.Info().
		Int("gigsCreated", report.GigsCreated).
		Int("crewCreated", report.CrewCreated).
		Int("merchCreated", report.MerchCreated).
		Msg("seed applied")
	return report, nil
}

func (s *Seeder) seedGig(ctx context.Context, g GigFixture, loc *time.Location) (bool, error) {
	title := strings.TrimSpace(g.Title)
	if title == "" {
		return false, errors.New("missing title")
	}

	_, err := s.db.GigRepo().FindByTitle(ctx, title)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	start, end, err := services.ParseTimeRange(g.Date, g.Time, loc)
	if err != nil {
		return false, err
	}

	gig := &models.Gig{
		Title:       title,
		Subtitle:    g.Subtitle,
		Description: g.Description,
		Venue:       g.Venue,
		City:        g.City,
		StartTime:   start.UTC(),
		TicketURL:   g.TicketURL,
		PosterURL:   g.PosterURL,
		Published:   g.Published == nil || *g.Published,
	}
	if end != nil {
		utc := end.UTC()
		gig.EndTime = &utc
	}
	if err := s.db.GigRepo().Add(ctx, gig); err != nil {
		return false, err
	}
	return true, nil
}

// seedAdmin creates the admin account unless a user with that email exists.
func (s *Seeder) seedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = database.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	_, err := s.db.UserRepo().FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{Email: email, Name: "Admin", PasswordHash: hash, Role: models.RoleAdmin}
	if err := s.db.UserRepo().Add(ctx, admin); err != nil {
		return false, fmt.Errorf("add admin: %w", err)
	}
	s.logger.Info().Str("email", email).Msg("admin user created")
	return true, nil
}
