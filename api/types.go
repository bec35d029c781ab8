package api

import (
	"encoding/json"
	"time"

	"github.com/atmos-collective/atmos-site-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	gigHandler     gigHandler
	gigTagHandler  gigTagHandler
	crewHandler    crewHandler
	merchHandler   merchHandler
	contentHandler contentHandler
	fileHandler    fileHandler
	fileTagHandler fileTagHandler
	userHandler    userHandler
	homeHandler    homeHandler
	contactHandler contactHandler
	siteHandler    siteHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// gigRequest accepts either explicit times or the human-written date and
// time strings used on flyers ("Sat 12 Oct 2024", "10pm - 4am").
type gigRequest struct {
	Title       string     `json:"title"`
	Subtitle    *string    `json:"subtitle"`
	Description string     `json:"description"`
	Venue       string     `json:"venue"`
	City        string     `json:"city"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	TicketURL   *string    `json:"ticketUrl"`
	PosterURL   *string    `json:"posterUrl"`
	Published   bool       `json:"published"`
}

type gigMediaRequest struct {
	Section models.MediaSection `json:"section"`
	Type    models.MediaType    `json:"type"`
	URL     string              `json:"url"`
	Caption *string             `json:"caption"`
}

type reorderMediaRequest struct {
	Section  models.MediaSection `json:"section"`
	MediaIDs []string            `json:"mediaIds"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

type gigTagsRequest struct {
	TagIDs []string `json:"tagIds"`
}

type gigTagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type contentRequest struct {
	Type         models.ContentType `json:"type"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	URL          string             `json:"url"`
	ThumbnailURL *string            `json:"thumbnailUrl"`
	PublishedAt  *time.Time         `json:"publishedAt"`
	Metadata     json.RawMessage    `json:"metadata"`
}

type presignRequest struct {
	Filename    string   `json:"filename"`
	ContentType string   `json:"contentType"`
	Size        int64    `json:"size"`
	Tags        []string `json:"tags"`
}

type presignResponse struct {
	File      fileView          `json:"file"`
	UploadURL string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
}

type fileTagsRequest struct {
	Tags []string `json:"tags"`
}

type fileTagRequest struct {
	Name string `json:"name"`
}

type purgeResult struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

type purgeResponse struct {
	Purged []string      `json:"purged"`
	Failed []purgeResult `json:"failed"`
}

type createUserRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

type placementRequest struct {
	Section    models.PlacementSection `json:"section"`
	GigIDs     []string                `json:"gigIds"`
	ContentIDs []string                `json:"contentIds"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type handledRequest struct {
	Handled *bool `json:"handled"`
}

type socialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}
