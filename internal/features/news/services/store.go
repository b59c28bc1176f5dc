package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news/models"
)

// Store is the repository for articles, deals, categories and run reports.
type Store struct {
	db     *core.Database
	logger *core.Logger
}

// NewStore creates a new store on top of the shared database handle.
func NewStore(db *core.Database, logger *core.Logger) *Store {
	return &Store{db: db, logger: logger}
}

const articleColumns = `a.id, a.url, a.url_hash, a.title, a.summary, a.content,
	a.published_date, a.scraped_date, a.source, a.ai_relevance_score,
	a.is_deal_news, a.url_status, a.url_last_checked, a.created_at`

// Exists checks whether an article with this URL is already stored. The
// lookup is keyed on the hash of the URL exactly as given.
func (s *Store) Exists(ctx context.Context, url string) (bool, error) {
	var id int64
	err := s.db.QueryRowWithTimeout(ctx,
		`SELECT id FROM news_articles WHERE url_hash = ?`, URLHash(url)).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check article existence: %w", err)
	}
	return true, nil
}

// InsertArticle stores a new article and returns it with its assigned ID.
// A duplicate URL returns (nil, nil) without writing. The existence check and
// the insert run in one transaction, and the insert itself ignores unique
// conflicts, so concurrent callers racing on the same URL still produce at
// most one row.
func (s *Store) InsertArticle(ctx context.Context, create models.ArticleCreate) (*models.Article, error) {
	urlHash := create.URLHash
	if urlHash == "" {
		urlHash = URLHash(create.URL)
	}
	scrapedDate := time.Now().UTC()

	var article *models.Article
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM news_articles WHERE url_hash = ?`, urlHash).Scan(&existing)
		if err == nil {
			s.logger.Debug("Article already exists", "url", create.URL)
			return nil
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check article existence: %w", err)
		}

		result, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO news_articles
			(url, url_hash, title, summary, content, published_date,
			 scraped_date, source, ai_relevance_score, is_deal_news, url_status)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			create.URL, urlHash, create.Title, create.Summary, create.Content,
			nullableTime(create.PublishedDate), scrapedDate, create.Source,
			create.RelevanceScore, boolToInt(create.IsDealNews),
			string(models.LinkStatusUnchecked))
		if err != nil {
			return fmt.Errorf("failed to insert article: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read insert result: %w", err)
		}
		if affected == 0 {
			// Lost a race to a concurrent insert of the same URL.
			return nil
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read inserted article id: %w", err)
		}

		article = &models.Article{
			ID:             id,
			URL:            create.URL,
			URLHash:        urlHash,
			Title:          create.Title,
			Summary:        create.Summary,
			Content:        create.Content,
			PublishedDate:  create.PublishedDate,
			ScrapedDate:    scrapedDate,
			Source:         create.Source,
			RelevanceScore: create.RelevanceScore,
			IsDealNews:     create.IsDealNews,
			URLStatus:      models.LinkStatusUnchecked,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if article != nil {
		s.logger.Info("Inserted article", "id", article.ID, "title", truncate(article.Title, 60))
	}
	return article, nil
}

// InsertDeal stores a deal row and returns its ID.
func (s *Store) InsertDeal(ctx context.Context, create models.DealCreate) (int64, error) {
	currency := create.FundingCurrency
	if currency == "" {
		currency = "USD"
	}

	result, err := s.db.ExecWithTimeout(ctx, `
		INSERT INTO deals
		(article_id, company_name, funding_amount, funding_currency,
		 round_type, investors, announcement_date, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		create.ArticleID, create.CompanyName, nullableFloat(create.FundingAmount),
		currency, create.RoundType, strings.Join(create.Investors, ", "),
		create.AnnouncementDate, create.Confidence)
	if err != nil {
		return 0, fmt.Errorf("failed to insert deal: %w", err)
	}
	return result.LastInsertId()
}

// AttachCategory tags an article with a category, creating the category row
// on first use. Re-attaching an existing pair is a no-op.
func (s *Store) AttachCategory(ctx context.Context, articleID int64, name string, weight float64) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		var categoryID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM ai_categories WHERE name = ?`, name).Scan(&categoryID)
		if err == sql.ErrNoRows {
			result, err := tx.ExecContext(ctx,
				`INSERT INTO ai_categories (name) VALUES (?)`, name)
			if err != nil {
				return fmt.Errorf("failed to create category %q: %w", name, err)
			}
			categoryID, err = result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read category id: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to look up category %q: %w", name, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO article_categories (article_id, category_id, weight)
			VALUES (?, ?, ?)`, articleID, categoryID, weight)
		if err != nil {
			return fmt.Errorf("failed to attach category %q: %w", name, err)
		}
		return nil
	})
}

// UpdateLinkStatus records the probe outcome for an article and stamps the
// check time. Returns whether a row was updated.
func (s *Store) UpdateLinkStatus(ctx context.Context, articleID int64, status models.LinkStatus) (bool, error) {
	result, err := s.db.ExecWithTimeout(ctx, `
		UPDATE news_articles SET url_status = ?, url_last_checked = ?
		WHERE id = ?`, string(status), time.Now().UTC(), articleID)
	if err != nil {
		return false, fmt.Errorf("failed to update link status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// UnvalidatedArticles returns articles whose URL has not been probed yet,
// most recently scraped first.
func (s *Store) UnvalidatedArticles(ctx context.Context, limit int) ([]models.Article, error) {
	rows, err := s.db.QueryWithTimeout(ctx, `
		SELECT `+articleColumns+` FROM news_articles a
		WHERE a.url_status = 'unchecked' OR a.url_status IS NULL
		ORDER BY a.scraped_date DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unvalidated articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// ArticlesByLinkStatus returns articles with the given probe status.
func (s *Store) ArticlesByLinkStatus(ctx context.Context, status models.LinkStatus, limit int) ([]models.Article, error) {
	rows, err := s.db.QueryWithTimeout(ctx, `
		SELECT `+articleColumns+` FROM news_articles a
		WHERE a.url_status = ?
		ORDER BY a.published_date DESC
		LIMIT ?`, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles by status: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// articleQuery builds the shared FROM/WHERE fragment for ListArticles and
// CountArticles so the page contents and the total always agree.
func articleQuery(params models.ArticleListParams) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString(` FROM news_articles a`)
	if params.Category != "" {
		sb.WriteString(`
			JOIN article_categories ac ON a.id = ac.article_id
			JOIN ai_categories c ON ac.category_id = c.id`)
	}

	sb.WriteString(` WHERE a.ai_relevance_score >= ?`)
	minRelevance := 0.0
	if params.MinRelevance != nil {
		minRelevance = *params.MinRelevance
	}
	args = append(args, minRelevance)

	if params.Category != "" {
		sb.WriteString(` AND c.name = ?`)
		args = append(args, params.Category)
	}
	if params.Search != "" {
		sb.WriteString(` AND (a.title LIKE ? OR a.content LIKE ?)`)
		term := "%" + params.Search + "%"
		args = append(args, term, term)
	}

	return sb.String(), args
}

func articleOrderBy(sortBy string) string {
	switch sortBy {
	case models.SortByRelevance:
		return "a.ai_relevance_score DESC, a.published_date DESC"
	case models.SortByRecent:
		return "a.scraped_date DESC, a.published_date DESC"
	default:
		return "a.published_date DESC, a.scraped_date DESC"
	}
}

// ListArticles returns one page of articles matching the filters.
func (s *Store) ListArticles(ctx context.Context, params models.ArticleListParams) ([]models.Article, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	fromWhere, args := articleQuery(params)
	query := `SELECT DISTINCT ` + articleColumns + fromWhere +
		` ORDER BY ` + articleOrderBy(params.SortBy) + ` LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryWithTimeout(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// CountArticles returns the total matching the same filters as ListArticles.
func (s *Store) CountArticles(ctx context.Context, params models.ArticleListParams) (int, error) {
	fromWhere, args := articleQuery(params)
	var count int
	err := s.db.QueryRowWithTimeout(ctx, `SELECT COUNT(DISTINCT a.id)`+fromWhere, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// GetArticle returns one article with its category tags, or nil if absent.
func (s *Store) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	row := s.db.QueryRowWithTimeout(ctx,
		`SELECT `+articleColumns+` FROM news_articles a WHERE a.id = ?`, id)
	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}

	rows, err := s.db.QueryWithTimeout(ctx, `
		SELECT c.name FROM ai_categories c
		JOIN article_categories ac ON c.id = ac.category_id
		WHERE ac.article_id = ?
		ORDER BY c.name`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get article categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		article.Categories = append(article.Categories, name)
	}
	return article, rows.Err()
}

// AllArticles returns every stored article, oldest first. Used by the
// reparse maintenance pass.
func (s *Store) AllArticles(ctx context.Context) ([]models.Article, error) {
	rows, err := s.db.QueryWithTimeout(ctx,
		`SELECT `+articleColumns+` FROM news_articles a ORDER BY a.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// UpdateArticleAnalysis rewrites the derived analysis fields of an article.
func (s *Store) UpdateArticleAnalysis(ctx context.Context, id int64, score float64, isDealNews bool, summary string) error {
	_, err := s.db.ExecWithTimeout(ctx, `
		UPDATE news_articles SET ai_relevance_score = ?, is_deal_news = ?, summary = ?
		WHERE id = ?`, score, boolToInt(isDealNews), summary, id)
	if err != nil {
		return fmt.Errorf("failed to update article analysis: %w", err)
	}
	return nil
}

// DeleteDealsForArticle removes the deal rows derived from an article.
func (s *Store) DeleteDealsForArticle(ctx context.Context, articleID int64) error {
	_, err := s.db.ExecWithTimeout(ctx, `DELETE FROM deals WHERE article_id = ?`, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete deals for article %d: %w", articleID, err)
	}
	return nil
}

// DetachCategories removes an article's category tags.
func (s *Store) DetachCategories(ctx context.Context, articleID int64) error {
	_, err := s.db.ExecWithTimeout(ctx, `DELETE FROM article_categories WHERE article_id = ?`, articleID)
	if err != nil {
		return fmt.Errorf("failed to detach categories for article %d: %w", articleID, err)
	}
	return nil
}

const dealColumns = `d.id, d.article_id, d.company_name, d.funding_amount,
	d.funding_currency, d.round_type, d.investors, d.announcement_date,
	d.confidence, d.created_at, a.title, a.url`

// dealQuery is the shared FROM/WHERE fragment for deal listing and counting.
// Deals without an amount are never served.
func dealQuery(params models.DealListParams) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString(` FROM deals d
		JOIN news_articles a ON d.article_id = a.id
		WHERE d.funding_amount IS NOT NULL`)

	if params.MinAmount != nil {
		sb.WriteString(` AND d.funding_amount >= ?`)
		args = append(args, *params.MinAmount)
	}
	if params.Search != "" {
		sb.WriteString(` AND (d.company_name LIKE ? OR a.title LIKE ?)`)
		term := "%" + params.Search + "%"
		args = append(args, term, term)
	}

	return sb.String(), args
}

// ListDeals returns one page of deals with joined article info.
func (s *Store) ListDeals(ctx context.Context, params models.DealListParams) ([]models.Deal, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	fromWhere, args := dealQuery(params)
	query := `SELECT ` + dealColumns + fromWhere +
		` ORDER BY d.announcement_date DESC, a.published_date DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryWithTimeout(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var deals []models.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, *deal)
	}
	return deals, rows.Err()
}

// CountDeals returns the total matching the same filters as ListDeals.
func (s *Store) CountDeals(ctx context.Context, params models.DealListParams) (int, error) {
	fromWhere, args := dealQuery(params)
	var count int
	err := s.db.QueryRowWithTimeout(ctx, `SELECT COUNT(DISTINCT d.id)`+fromWhere, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deals: %w", err)
	}
	return count, nil
}

// GetDeal returns one deal with joined article info, or nil if absent.
func (s *Store) GetDeal(ctx context.Context, id int64) (*models.Deal, error) {
	row := s.db.QueryRowWithTimeout(ctx, `
		SELECT `+dealColumns+` FROM deals d
		JOIN news_articles a ON d.article_id = a.id
		WHERE d.id = ?`, id)
	deal, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deal %d: %w", id, err)
	}
	return deal, nil
}

// ListCategories returns every category with its article count, busiest
// first, name as tie-break.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryWithTimeout(ctx, `
		SELECT c.id, c.name, COUNT(DISTINCT ac.article_id) AS article_count
		FROM ai_categories c
		LEFT JOIN article_categories ac ON c.id = ac.category_id
		GROUP BY c.id, c.name
		ORDER BY article_count DESC, c.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ArticleCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Statistics computes a live aggregate over the whole corpus.
func (s *Store) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{}

	err := s.db.QueryRowWithTimeout(ctx,
		`SELECT COUNT(*) FROM news_articles`).Scan(&stats.TotalArticles)
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	err = s.db.QueryRowWithTimeout(ctx,
		`SELECT COUNT(*) FROM deals WHERE funding_amount IS NOT NULL`).Scan(&stats.TotalDeals)
	if err != nil {
		return nil, fmt.Errorf("failed to count deals: %w", err)
	}

	err = s.db.QueryRowWithTimeout(ctx,
		`SELECT COUNT(DISTINCT company_name) FROM deals`).Scan(&stats.TotalCompanies)
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}

	err = s.db.QueryRowWithTimeout(ctx,
		`SELECT COALESCE(SUM(funding_amount), 0) FROM deals WHERE funding_amount IS NOT NULL`).Scan(&stats.TotalFundingUSD)
	if err != nil {
		return nil, fmt.Errorf("failed to sum funding: %w", err)
	}

	err = s.db.QueryRowWithTimeout(ctx,
		`SELECT COALESCE(AVG(ai_relevance_score), 0) FROM news_articles`).Scan(&stats.AvgRelevance)
	if err != nil {
		return nil, fmt.Errorf("failed to average relevance: %w", err)
	}

	err = s.db.QueryRowWithTimeout(ctx,
		`SELECT COUNT(*) FROM ai_categories`).Scan(&stats.TotalCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}

	// Investors are stored comma-joined per deal; dedupe across rows here.
	rows, err := s.db.QueryWithTimeout(ctx,
		`SELECT investors FROM deals WHERE investors IS NOT NULL AND investors != ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query investors: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var joined string
		if err := rows.Scan(&joined); err != nil {
			return nil, fmt.Errorf("failed to scan investors: %w", err)
		}
		for _, inv := range strings.Split(joined, ",") {
			if inv = strings.TrimSpace(inv); inv != "" {
				seen[inv] = true
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.TotalInvestors = len(seen)

	return stats, nil
}

// SaveRunReport persists a refresh run report.
func (s *Store) SaveRunReport(ctx context.Context, report *models.RunReport) error {
	counts, err := json.Marshal(report.SourceCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal source counts: %w", err)
	}
	errs, err := json.Marshal(report.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal run errors: %w", err)
	}

	result, err := s.db.ExecWithTimeout(ctx, `
		INSERT INTO run_reports
		(started_at, completed_at, success, articles_total, source_counts, errors, urls_validated)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.StartedAt, report.CompletedAt, boolToInt(report.Success),
		report.ArticlesTotal, string(counts), string(errs), report.URLsValidated)
	if err != nil {
		return fmt.Errorf("failed to save run report: %w", err)
	}
	report.ID, err = result.LastInsertId()
	return err
}

// LastRunReport returns the most recent refresh report, or nil if none ran.
func (s *Store) LastRunReport(ctx context.Context) (*models.RunReport, error) {
	row := s.db.QueryRowWithTimeout(ctx, `
		SELECT id, started_at, completed_at, success, articles_total,
		       source_counts, errors, urls_validated
		FROM run_reports ORDER BY id DESC LIMIT 1`)

	var report models.RunReport
	var success int
	var counts, errs string
	err := row.Scan(&report.ID, &report.StartedAt, &report.CompletedAt, &success,
		&report.ArticlesTotal, &counts, &errs, &report.URLsValidated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run report: %w", err)
	}

	report.Success = success != 0
	if err := json.Unmarshal([]byte(counts), &report.SourceCounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source counts: %w", err)
	}
	if err := json.Unmarshal([]byte(errs), &report.Errors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run errors: %w", err)
	}
	return &report, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var summary, content, source, status sql.NullString
	var published, lastChecked sql.NullTime
	var isDeal int

	err := row.Scan(&a.ID, &a.URL, &a.URLHash, &a.Title, &summary, &content,
		&published, &a.ScrapedDate, &source, &a.RelevanceScore,
		&isDeal, &status, &lastChecked, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	a.Summary = summary.String
	a.Content = content.String
	a.Source = source.String
	a.IsDealNews = isDeal != 0
	a.URLStatus = models.LinkStatusUnchecked
	if status.Valid && status.String != "" {
		a.URLStatus = models.LinkStatus(status.String)
	}
	if published.Valid {
		t := published.Time
		a.PublishedDate = &t
	}
	if lastChecked.Valid {
		t := lastChecked.Time
		a.URLLastChecked = &t
	}
	return &a, nil
}

func scanArticles(rows *sql.Rows) ([]models.Article, error) {
	var articles []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}

func scanDeal(row rowScanner) (*models.Deal, error) {
	var d models.Deal
	var amount sql.NullFloat64
	var roundType, investors, announced sql.NullString

	err := row.Scan(&d.ID, &d.ArticleID, &d.CompanyName, &amount,
		&d.FundingCurrency, &roundType, &investors, &announced,
		&d.Confidence, &d.CreatedAt, &d.ArticleTitle, &d.ArticleURL)
	if err != nil {
		return nil, err
	}

	if amount.Valid {
		v := amount.Float64
		d.FundingAmount = &v
	}
	d.RoundType = roundType.String
	d.AnnouncementDate = announced.String
	if investors.Valid && investors.String != "" {
		for _, inv := range strings.Split(investors.String, ",") {
			if inv = strings.TrimSpace(inv); inv != "" {
				d.Investors = append(d.Investors, inv)
			}
		}
	}
	return &d, nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
