package models

// Category is an AI topic tag with the number of articles carrying it.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ArticleCount int    `json:"article_count"`
}
