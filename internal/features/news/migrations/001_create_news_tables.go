package migrations

import "ai-news-intel/internal/core"

// Migration001CreateNewsTables creates the article, deal, category and run
// report tables with their indexes.
var Migration001CreateNewsTables = core.Migration{
	Version:     1,
	Name:        "create_news_tables",
	Description: "Create news articles, deals, categories and run report tables",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS news_articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT UNIQUE NOT NULL,
			url_hash TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			summary TEXT,
			content TEXT,
			published_date TIMESTAMP,
			scraped_date TIMESTAMP NOT NULL,
			source TEXT,
			ai_relevance_score REAL DEFAULT 0.0,
			is_deal_news INTEGER DEFAULT 0,
			url_status TEXT DEFAULT 'unchecked',
			url_last_checked TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS deals (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id INTEGER NOT NULL,
			company_name TEXT NOT NULL,
			funding_amount REAL,
			funding_currency TEXT DEFAULT 'USD',
			round_type TEXT,
			investors TEXT,
			announcement_date TEXT,
			confidence REAL DEFAULT 0.0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (article_id) REFERENCES news_articles(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS ai_categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL
		);

		CREATE TABLE IF NOT EXISTS article_categories (
			article_id INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			weight REAL DEFAULT 1.0,
			PRIMARY KEY (article_id, category_id),
			FOREIGN KEY (article_id) REFERENCES news_articles(id) ON DELETE CASCADE,
			FOREIGN KEY (category_id) REFERENCES ai_categories(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS run_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NOT NULL,
			success INTEGER NOT NULL,
			articles_total INTEGER DEFAULT 0,
			source_counts TEXT,
			errors TEXT,
			urls_validated INTEGER DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_news_articles_url_hash ON news_articles(url_hash);
		CREATE INDEX IF NOT EXISTS idx_news_articles_published ON news_articles(published_date);
		CREATE INDEX IF NOT EXISTS idx_news_articles_scraped ON news_articles(scraped_date);
		CREATE INDEX IF NOT EXISTS idx_news_articles_relevance ON news_articles(ai_relevance_score DESC);
		CREATE INDEX IF NOT EXISTS idx_news_articles_deal_news ON news_articles(is_deal_news);
		CREATE INDEX IF NOT EXISTS idx_deals_article ON deals(article_id);
		CREATE INDEX IF NOT EXISTS idx_article_categories_article ON article_categories(article_id);
	`,
	DownSQL: `
		DROP INDEX IF EXISTS idx_article_categories_article;
		DROP INDEX IF EXISTS idx_deals_article;
		DROP INDEX IF EXISTS idx_news_articles_deal_news;
		DROP INDEX IF EXISTS idx_news_articles_relevance;
		DROP INDEX IF EXISTS idx_news_articles_scraped;
		DROP INDEX IF EXISTS idx_news_articles_published;
		DROP INDEX IF EXISTS idx_news_articles_url_hash;
		DROP TABLE IF EXISTS run_reports;
		DROP TABLE IF EXISTS article_categories;
		DROP TABLE IF EXISTS ai_categories;
		DROP TABLE IF EXISTS deals;
		DROP TABLE IF EXISTS news_articles;
	`,
}
