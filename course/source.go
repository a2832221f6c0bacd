package course

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"elearning_app/catalog"
	"elearning_app/models"
)

// Content is what a session loads before it can start.
type Content struct {
	Lessons   []models.Lesson
	Questions []models.Question
}

// Source loads course content. Load is called once per session.
type Source interface {
	Load(ctx context.Context) (Content, error)
}

// APISource reads content from the content server's GET /api/content.
type APISource struct {
	BaseURL string
	Client  *http.Client
}

func NewAPISource(baseURL string) *APISource {
	return &APISource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *APISource) Load(ctx context.Context) (Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/api/content", nil)
	if err != nil {
		return Content{}, err
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Content{}, fmt.Errorf("error fetching content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Content{}, fmt.Errorf("error fetching content: HTTP error! status: %d", resp.StatusCode)
	}

	var body models.ContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Content{}, fmt.Errorf("error decoding content: %w", err)
	}
	return Content{Lessons: body.Lessons, Questions: body.Questions}, nil
}

// StaticSource serves the course compiled into the binary.
type StaticSource struct{}

func (StaticSource) Load(context.Context) (Content, error) {
	c, err := catalog.Default()
	if err != nil {
		return Content{}, err
	}
	lessons := make([]models.Lesson, len(c.Lessons))
	for i, l := range c.Lessons {
		l.ID = int64(i + 1)
		lessons[i] = l
	}
	questions := make([]models.Question, len(c.Questions))
	for i, q := range c.Questions {
		q.ID = int64(i + 1)
		questions[i] = q
	}
	return Content{Lessons: lessons, Questions: questions}, nil
}

// NewSource picks a source by name: "api" or "static".
func NewSource(kind, apiBaseURL string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "api":
		return NewAPISource(apiBaseURL), nil
	case "static":
		return StaticSource{}, nil
	default:
		return nil, fmt.Errorf("unknown content source %q", kind)
	}
}
