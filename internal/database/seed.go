package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// defaultCategories are the categories the blog ships with. The set is
// extensible: new rows can be added without code changes.
var defaultCategories = []struct {
	name, description, icon, color string
}{
	{"AI", "机器学习、深度学习与大模型", "🤖", "#8b5cf6"},
	{"Java", "JVM 生态与后端开发", "☕", "#f97316"},
	{"Python", "脚本、数据处理与工程实践", "🐍", "#22c55e"},
}

// Seed populates the database with initial development data: the default
// categories and a welcome post. It is a no-op if categories already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, c := range defaultCategories {
		_, err := db.Exec(`
			INSERT INTO categories (name, description, icon, color)
			VALUES ($1, $2, $3, $4)
		`, c.name, c.description, c.icon, c.color)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.name, err)
		}
	}

	_, err := db.Exec(`
		INSERT INTO posts (title, summary, content, category, tags)
		VALUES ($1, $2, $3, $4, $5)
	`,
		"欢迎来到我的博客",
		"第一篇文章",
		"# 你好\n\n这是一篇示例文章，编辑或删除它开始写作。",
		"AI",
		`["welcome"]`,
	)
	if err != nil {
		return fmt.Errorf("seed insert welcome post: %w", err)
	}

	slog.Info("database seeded", "categories", len(defaultCategories))
	return nil
}
