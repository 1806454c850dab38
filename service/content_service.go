package service

import (
	"context"
	"strings"
	"unicode"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/search"
	"taxifrota/storage"
)

type ArticleInput struct {
	Title       string   `json:"title" validate:"required"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	Body        string   `json:"body" validate:"required"`
	ImageURL    string   `json:"image_url"`
	Author      string   `json:"author"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ReadingTime string   `json:"reading_time"`
	Published   bool     `json:"published"`
	Featured    bool     `json:"featured"`
}

type BannerInput struct {
	Title      string `json:"title" validate:"required"`
	Subtitle   string `json:"subtitle"`
	ImageURL   string `json:"image_url" validate:"required"`
	Link       string `json:"link"`
	ButtonText string `json:"button_text"`
	Active     bool   `json:"active"`
	Order      int    `json:"order" validate:"gte=0"`
}

type ContentService interface {
	ListArticles(ctx context.Context, f storage.ArticleFilter) ([]*models.Article, error)
	GetArticle(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error)
	CreateArticle(ctx context.Context, in ArticleInput) (*models.Article, error)
	UpdateArticle(ctx context.Context, id string, in ArticleInput) (*models.Article, error)
	TogglePublished(ctx context.Context, id string) (*models.Article, error)
	ToggleArticleFeatured(ctx context.Context, id string) (*models.Article, error)
	DeleteArticle(ctx context.Context, id string) error

	ListBanners(ctx context.Context, onlyActive bool) ([]*models.HeroBanner, error)
	CreateBanner(ctx context.Context, in BannerInput) (*models.HeroBanner, error)
	UpdateBanner(ctx context.Context, id string, in BannerInput) (*models.HeroBanner, error)
	ToggleBanner(ctx context.Context, id string) (*models.HeroBanner, error)
	DeleteBanner(ctx context.Context, id string) error
}

type contentService struct {
	stg storage.IStorage
	log logger.ILogger
}

func NewContentService(stg storage.IStorage, log logger.ILogger) ContentService {
	return &contentService{stg: stg, log: log}
}

// Slugify lowercases, strips accents and joins words with dashes.
func Slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range search.Fold(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (s *contentService) ListArticles(ctx context.Context, f storage.ArticleFilter) ([]*models.Article, error) {
	return s.stg.Article().List(ctx, f)
}

func (s *contentService) GetArticle(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	a, err := s.stg.Article().GetBySlug(ctx, slug, publishedOnly)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, storage.ErrNotFound
	}
	return a, nil
}

func (s *contentService) articleFromInput(ctx context.Context, id string, in ArticleInput) (*models.Article, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(in.Title)
	}
	existing, err := s.stg.Article().GetBySlug(ctx, slug, false)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, invalid("slug", "slug já utilizado")
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Article{
		Title:       strings.TrimSpace(in.Title),
		Slug:        slug,
		Summary:     in.Summary,
		Body:        in.Body,
		ImageURL:    in.ImageURL,
		Author:      in.Author,
		Category:    in.Category,
		Tags:        tags,
		ReadingTime: in.ReadingTime,
		Published:   in.Published,
		Featured:    in.Featured,
	}, nil
}

func (s *contentService) CreateArticle(ctx context.Context, in ArticleInput) (*models.Article, error) {
	a, err := s.articleFromInput(ctx, "", in)
	if err != nil {
		return nil, err
	}
	saved, err := s.stg.Article().Add(ctx, a)
	if err != nil {
		return nil, conflictOnDuplicate(err, "article slug "+a.Slug)
	}
	return saved, nil
}

func (s *contentService) UpdateArticle(ctx context.Context, id string, in ArticleInput) (*models.Article, error) {
	a, err := s.articleFromInput(ctx, id, in)
	if err != nil {
		return nil, err
	}
	saved, err := s.stg.Article().Replace(ctx, id, a)
	if err != nil {
		return nil, conflictOnDuplicate(err, "article slug "+a.Slug)
	}
	return saved, nil
}

func (s *contentService) TogglePublished(ctx context.Context, id string) (*models.Article, error) {
	return s.toggleArticle(ctx, id, "published", func(a *models.Article) bool { return a.Published })
}

func (s *contentService) ToggleArticleFeatured(ctx context.Context, id string) (*models.Article, error) {
	return s.toggleArticle(ctx, id, "featured", func(a *models.Article) bool { return a.Featured })
}

func (s *contentService) toggleArticle(ctx context.Context, id, field string, get func(*models.Article) bool) (*models.Article, error) {
	a, err := s.stg.Article().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, storage.ErrNotFound
	}
	return s.stg.Article().Update(ctx, id, map[string]any{field: !get(a)})
}

func (s *contentService) DeleteArticle(ctx context.Context, id string) error {
	return s.stg.Article().Delete(ctx, id)
}

func (s *contentService) ListBanners(ctx context.Context, onlyActive bool) ([]*models.HeroBanner, error) {
	return s.stg.Banner().List(ctx, onlyActive)
}

func bannerFromInput(in BannerInput) (*models.HeroBanner, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	return &models.HeroBanner{
		Title:      strings.TrimSpace(in.Title),
		Subtitle:   in.Subtitle,
		ImageURL:   in.ImageURL,
		Link:       in.Link,
		ButtonText: in.ButtonText,
		Active:     in.Active,
		Order:      in.Order,
	}, nil
}

func (s *contentService) CreateBanner(ctx context.Context, in BannerInput) (*models.HeroBanner, error) {
	b, err := bannerFromInput(in)
	if err != nil {
		return nil, err
	}
	return s.stg.Banner().Add(ctx, b)
}

func (s *contentService) UpdateBanner(ctx context.Context, id string, in BannerInput) (*models.HeroBanner, error) {
	b, err := bannerFromInput(in)
	if err != nil {
		return nil, err
	}
	return s.stg.Banner().Replace(ctx, id, b)
}

func (s *contentService) ToggleBanner(ctx context.Context, id string) (*models.HeroBanner, error) {
	b, err := s.stg.Banner().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, storage.ErrNotFound
	}
	return s.stg.Banner().Update(ctx, id, map[string]any{"active": !b.Active})
}

func (s *contentService) DeleteBanner(ctx context.Context, id string) error {
	return s.stg.Banner().Delete(ctx, id)
}
