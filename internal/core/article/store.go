// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import "context"

// Repository persists articles.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error)
	FindByID(context context.Context, id string) (*Article, error)
	Create(context context.Context, article *Article) error
	Delete(context context.Context, id string) error
}
