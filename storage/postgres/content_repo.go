package postgres

import (
	"context"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/storage"
)

type articleRepo struct {
	*Collection[models.Article, *models.Article]
}

func NewArticleRepo(db querier, log logger.ILogger) storage.IArticleStorage {
	return &articleRepo{NewCollection[models.Article](db, storage.CollectionArticles, log)}
}

func (r *articleRepo) List(ctx context.Context, f storage.ArticleFilter) ([]*models.Article, error) {
	return r.Find(ctx, storage.ByNewest(f.Filters()))
}

func (r *articleRepo) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	filters := map[string]any{"slug": slug}
	if publishedOnly {
		filters["published"] = true
	}
	articles, err := r.Find(ctx, storage.Query{Filters: filters, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, nil
	}
	return articles[0], nil
}

type bannerRepo struct {
	*Collection[models.HeroBanner, *models.HeroBanner]
}

func NewBannerRepo(db querier, log logger.ILogger) storage.IBannerStorage {
	return &bannerRepo{NewCollection[models.HeroBanner](db, storage.CollectionBanners, log)}
}

func (r *bannerRepo) List(ctx context.Context, onlyActive bool) ([]*models.HeroBanner, error) {
	var filters map[string]any
	if onlyActive {
		filters = map[string]any{"active": true}
	}
	return r.Find(ctx, storage.Query{Filters: filters, OrderBy: "order", Asc: true})
}
