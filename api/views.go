package api

import (
	"time"

	"github.com/atmos-collective/atmos-site-backend/models"
	"github.com/atmos-collective/atmos-site-backend/services"
)

// presenter adds the display fields the site renders directly: resolved media
// URLs, embeddable players and formatted dates and prices.
type presenter struct {
	resolver *services.MediaResolver
	loc      *time.Location
}

type gigMediaView struct {
	models.GigMedia
	ResolvedURL string `json:"resolvedUrl"`
	EmbedURL    string `json:"embedUrl,omitempty"`
}

type gigView struct {
	models.Gig
	Media             []gigMediaView  `json:"media"`
	Tags              []models.GigTag `json:"tags"`
	DisplayDate       string          `json:"displayDate"`
	DisplayTime       string          `json:"displayTime"`
	ResolvedPosterURL *string         `json:"resolvedPosterUrl,omitempty"`
}

type crewView struct {
	models.CrewMember
	ResolvedImageURL *string `json:"resolvedImageUrl,omitempty"`
}

type merchView struct {
	models.MerchItem
	DisplayPrice     string  `json:"displayPrice"`
	ResolvedImageURL *string `json:"resolvedImageUrl,omitempty"`
}

type contentView struct {
	models.ContentItem
	EmbedURL             string `json:"embedUrl,omitempty"`
	ResolvedThumbnailURL string `json:"resolvedThumbnailUrl,omitempty"`
}

type fileView struct {
	models.FileUpload
	Tags         []models.FileTag `json:"tags"`
	URL          string           `json:"url"`
	DownloadURL  string           `json:"downloadUrl,omitempty"`
	Deduplicated bool             `json:"deduplicated,omitempty"`
}

type placementView[T any] struct {
	ID        string `json:"id"`
	SortOrder int    `json:"sortOrder"`
	Item      T      `json:"item"`
}

func (p presenter) gig(g *models.Gig) gigView {
	view := gigView{
		Gig:               *g,
		Media:             make([]gigMediaView, 0, len(g.Media)),
		Tags:              g.Tags,
		DisplayDate:       services.FormatGigDate(g.StartTime, p.loc),
		DisplayTime:       services.FormatTimeRange(g.StartTime, g.EndTime, p.loc),
		ResolvedPosterURL: p.resolver.ResolvePtr(g.PosterURL),
	}
	if view.Tags == nil {
		view.Tags = []models.GigTag{}
	}
	for _, m := range g.Media {
		mv := gigMediaView{GigMedia: m, ResolvedURL: p.resolver.Resolve(m.URL)}
		if m.Type == models.MediaTypeEmbed || m.Type == models.MediaTypeVideo {
			mv.EmbedURL, _ = services.EmbedURL(m.URL)
		}
		view.Media = append(view.Media, mv)
	}
	return view
}

func (p presenter) gigs(gigs []*models.Gig) []gigView {
	out := make([]gigView, 0, len(gigs))
	for _, g := range gigs {
		out = append(out, p.gig(g))
	}
	return out
}

func (p presenter) crewMember(c *models.CrewMember) crewView {
	return crewView{CrewMember: *c, ResolvedImageURL: p.resolver.ResolvePtr(c.ImageURL)}
}

func (p presenter) crew(crew []*models.CrewMember) []crewView {
	out := make([]crewView, 0, len(crew))
	for _, c := range crew {
		out = append(out, p.crewMember(c))
	}
	return out
}

func (p presenter) merchItem(m *models.MerchItem) merchView {
	return merchView{
		MerchItem:        *m,
		DisplayPrice:     services.FormatPrice(m.PriceCents, m.Currency),
		ResolvedImageURL: p.resolver.ResolvePtr(m.ImageURL),
	}
}

func (p presenter) merch(items []*models.MerchItem) []merchView {
	out := make([]merchView, 0, len(items))
	for _, m := range items {
		out = append(out, p.merchItem(m))
	}
	return out
}

func (p presenter) contentItem(c *models.ContentItem) contentView {
	embed, _ := services.EmbedURL(c.URL)
	return contentView{
		ContentItem:          *c,
		EmbedURL:             embed,
		ResolvedThumbnailURL: p.resolver.ContentThumbnail(c.URL, c.ThumbnailURL),
	}
}

func (p presenter) content(items []*models.ContentItem) []contentView {
	out := make([]contentView, 0, len(items))
	for _, c := range items {
		out = append(out, p.contentItem(c))
	}
	return out
}

func (p presenter) file(f *models.FileUpload) fileView {
	view := fileView{FileUpload: *f, Tags: f.Tags, URL: p.resolver.Resolve(f.Key)}
	if view.Tags == nil {
		view.Tags = []models.FileTag{}
	}
	return view
}

func (p presenter) files(files []*models.FileUpload) []fileView {
	out := make([]fileView, 0, len(files))
	for _, f := range files {
		out = append(out, p.file(f))
	}
	return out
}
