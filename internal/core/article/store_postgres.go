// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taibuivan/bayan/internal/locale"
	"github.com/taibuivan/bayan/internal/platform/database/schema"
	"github.com/taibuivan/bayan/internal/platform/dberr"
)

// PostgresRepository reads and writes [schema.PublicArticle].
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	table := schema.PublicArticle

	where := ""
	args := []any{}
	if filter.Lang != "" {
		args = append(args, string(filter.Lang))
		where = fmt.Sprintf("WHERE %s = $%d", table.Lang, len(args))
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s %s`, table.Table, where)
	if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_articles")
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		strings.Join(table.Columns(), ", "), table.Table, where,
		table.CreatedAt, table.ID, len(args)-1, len(args))

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_articles")
	}
	defer rows.Close()

	articles := make([]*Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_article")
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_articles")
	}

	return articles, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Article, error) {
	table := schema.PublicArticle
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.ID)

	article, err := scanArticle(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_article")
	}
	return article, nil
}

func (repository *PostgresRepository) Create(context context.Context, article *Article) error {
	table := schema.PublicArticle
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7)
		RETURNING %s
	`,
		table.Table,
		table.ID, table.Lang, table.Author, table.AuthorID, table.Title, table.Excerpt, table.Content,
		table.CreatedAt,
	)

	err := repository.db.QueryRow(context, query,
		article.ID, string(article.Lang), article.Author, article.AuthorID,
		article.Title, article.Excerpt, article.Content,
	).Scan(&article.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_article")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.PublicArticle
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_article")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_article")
	}
	return nil
}

// scanArticle reads one row in [schema.PublicArticleTable.Columns] order.
func scanArticle(row pgx.Row) (*Article, error) {
	article := &Article{}
	var authorID *string
	var lang string

	err := row.Scan(
		&article.ID, &article.CreatedAt, &lang, &article.Author, &authorID,
		&article.Title, &article.Excerpt, &article.Content,
	)
	if err != nil {
		return nil, err
	}

	article.Lang = locale.Locale(lang)
	if authorID != nil {
		article.AuthorID = *authorID
	}
	return article, nil
}
