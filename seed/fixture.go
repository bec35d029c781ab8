package seed

// Fixture is the content of a SEED_FILE. Dates and times are written the way
// the collective writes them on flyers.
type Fixture struct {
	Gigs  []GigFixture   `json:"gigs"`
	Crew  []CrewFixture  `json:"crew"`
	Merch []MerchFixture `json:"merch"`
}

// GigFixture is a gig with a human date, e.g. "Sat 12 Oct 2024" and "10pm - 4am".
type GigFixture struct {
	Title       string  `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Description string  `json:"description"`
	Venue       string  `json:"venue"`
	City        string  `json:"city"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	TicketURL   *string `json:"ticketUrl"`
	PosterURL   *string `json:"posterUrl"`
	Published   *bool   `json:"published"`
}

type CrewFixture struct {
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	Bio           string  `json:"bio"`
	ImageURL      *string `json:"imageUrl"`
	InstagramURL  *string `json:"instagramUrl"`
	SoundcloudURL *string `json:"soundcloudUrl"`
}

type MerchFixture struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	PriceCents  int64   `json:"priceCents"`
	Currency    string  `json:"currency"`
	ImageURL    *string `json:"imageUrl"`
	ShopURL     *string `json:"shopUrl"`
	Available   *bool   `json:"available"`
}
