// Package testutil provides an in-memory database shaped like production.
package testutil

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var schemaDDL = []string{
	`ATTACH DATABASE ':memory:' AS portfolio`,
	`ATTACH DATABASE ':memory:' AS request_audit`,
	`CREATE TABLE portfolio.profile (
		id integer PRIMARY KEY,
		name text, headline text, bio text, location text, email text,
		avatar_url text, resume_url text, github_url text, linkedin_url text, website_url text,
		updated_at datetime
	)`,
	`CREATE TABLE portfolio.experience (
		id integer PRIMARY KEY AUTOINCREMENT,
		company text NOT NULL, role text NOT NULL, location text, description text,
		start_date date, end_date date, created_at datetime, updated_at datetime
	)`,
	`CREATE TABLE portfolio.education (
		id integer PRIMARY KEY AUTOINCREMENT,
		institution text NOT NULL, degree text, field text, description text,
		start_date date, end_date date, created_at datetime, updated_at datetime
	)`,
	`CREATE TABLE portfolio.skills (
		id integer PRIMARY KEY AUTOINCREMENT,
		name text NOT NULL, category text, level integer,
		created_at datetime, updated_at datetime
	)`,
	`CREATE TABLE portfolio.projects (
		id integer PRIMARY KEY AUTOINCREMENT,
		title text NOT NULL, slug text NOT NULL, summary text, description text, tech_stack text,
		repo_url text, live_url text, image_url text, featured boolean,
		start_date date, end_date date, sort_order integer NOT NULL DEFAULT 0,
		created_at datetime, updated_at datetime
	)`,
	`CREATE UNIQUE INDEX portfolio.projects_slug_key ON projects (slug)`,
	`CREATE TABLE portfolio.blogs (
		id integer PRIMARY KEY AUTOINCREMENT,
		title text NOT NULL, slug text NOT NULL, excerpt text, content text, tags text,
		published boolean, published_at datetime, sort_order integer NOT NULL DEFAULT 0,
		created_at datetime, updated_at datetime
	)`,
	`CREATE UNIQUE INDEX portfolio.blogs_slug_key ON blogs (slug)`,
	`CREATE TABLE portfolio.config (
		id integer PRIMARY KEY,
		admin_email text NOT NULL, admin_password_hash text NOT NULL,
		github_owner text, github_repo text, github_branch text, readme_path text,
		contact_recipient text, ai_daily_limit integer, updated_at datetime
	)`,
	`CREATE TABLE portfolio.ui_config (
		id integer PRIMARY KEY,
		theme text DEFAULT 'system', accent_color text, show_blog boolean, show_contact boolean,
		settings text, updated_at datetime
	)`,
	`CREATE TABLE request_audit.sessions (
		id text PRIMARY KEY, ip_address text, user_agent text, success boolean,
		created_at datetime, expires_at datetime, revoked_at datetime
	)`,
	`CREATE TABLE request_audit.ai_usage (
		id integer PRIMARY KEY AUTOINCREMENT,
		client_key text NOT NULL, kind text NOT NULL, day text NOT NULL,
		count integer NOT NULL DEFAULT 0, notified boolean,
		created_at datetime, updated_at datetime
	)`,
	`CREATE UNIQUE INDEX request_audit.ai_usage_client_day_key ON ai_usage (client_key, kind, day)`,
}

// NewDB opens a private in-memory SQLite database with the portfolio and
// request_audit schemas attached. The pool is pinned to one connection so
// every query sees the same attached databases.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schemaDDL {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v\n%s", err, stmt)
		}
	}
	return db
}
