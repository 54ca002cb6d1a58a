package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"networth/internal/core"
)

// ErrNoRows is returned by single-row lookups that match nothing.
var ErrNoRows = sql.ErrNoRows

func (q *Queries) InsertCategory(ctx context.Context, c core.Category) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO net_worth_categories (type, category, color, is_option) VALUES (?, ?, ?, ?) RETURNING id`,
		string(c.Type), c.Category, c.Color, c.IsOption,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}
	return id, nil
}

func (q *Queries) UpdateCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE net_worth_categories SET type = ?, category = ?, color = ?, is_option = ? WHERE id = ?`,
		string(c.Type), c.Category, c.Color, c.IsOption, c.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update category: %w", err)
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM net_worth_categories WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	return res.RowsAffected()
}

func (q *Queries) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var (
		c        core.Category
		category string
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT id, type, category, color, is_option FROM net_worth_categories WHERE id = ?`, id,
	).Scan(&c.ID, &category, &c.Category, &c.Color, &c.IsOption)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, ErrNoRows
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	c.Type = core.CategoryType(category)
	return c, nil
}

func (q *Queries) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, type, category, color, is_option FROM net_worth_categories ORDER BY type, category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var (
			c        core.Category
			category string
		)
		if err := rows.Scan(&c.ID, &category, &c.Category, &c.Color, &c.IsOption); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.CategoryType(category)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (q *Queries) InsertSubcategory(ctx context.Context, s core.Subcategory) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO net_worth_subcategories
			(category_id, subcategory, has_credit_limit, is_saye, opacity, appreciation_rate)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		s.CategoryID, s.Subcategory, nullableBool(s.HasCreditLimit), nullableBool(s.IsSAYE),
		s.Opacity, nullableFloat64(s.AppreciationRate),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert subcategory: %w", err)
	}
	return id, nil
}

func (q *Queries) UpdateSubcategory(ctx context.Context, s core.Subcategory) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE net_worth_subcategories
		SET category_id = ?, subcategory = ?, has_credit_limit = ?, is_saye = ?, opacity = ?, appreciation_rate = ?
		WHERE id = ?`,
		s.CategoryID, s.Subcategory, nullableBool(s.HasCreditLimit), nullableBool(s.IsSAYE),
		s.Opacity, nullableFloat64(s.AppreciationRate), s.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update subcategory: %w", err)
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteSubcategory(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM net_worth_subcategories WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete subcategory: %w", err)
	}
	return res.RowsAffected()
}

// ListSubcategories lists the sub-categories of one category, or all when categoryID is zero.
func (q *Queries) ListSubcategories(ctx context.Context, categoryID int64) ([]core.Subcategory, error) {
	query := `SELECT id, category_id, subcategory, has_credit_limit, is_saye, opacity, appreciation_rate
		FROM net_worth_subcategories`
	var args []interface{}
	if categoryID != 0 {
		query += ` WHERE category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY category_id, subcategory`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var out []core.Subcategory
	for rows.Next() {
		var s core.Subcategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Subcategory, &s.HasCreditLimit, &s.IsSAYE,
			&s.Opacity, &s.AppreciationRate); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SelectSubcategoryInfo returns the sub-categories with the given IDs joined with their
// parent category. IDs that do not exist are simply absent from the result.
func (q *Queries) SelectSubcategoryInfo(ctx context.Context, ids []int64) ([]core.SubcategoryInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT nws.id, nws.category_id, nws.subcategory, nws.has_credit_limit, nws.is_saye,
			nws.opacity, nws.appreciation_rate, nwc.type, nwc.category, nwc.is_option
		FROM net_worth_subcategories nws
		JOIN net_worth_categories nwc ON nwc.id = nws.category_id
		WHERE nws.id IN (`+placeholders(len(ids))+`)
		ORDER BY nws.id`, int64Args(ids)...)
	if err != nil {
		return nil, fmt.Errorf("select subcategory info: %w", err)
	}
	defer rows.Close()

	var out []core.SubcategoryInfo
	for rows.Next() {
		var (
			info         core.SubcategoryInfo
			categoryType string
		)
		if err := rows.Scan(&info.ID, &info.CategoryID, &info.Subcategory.Subcategory,
			&info.HasCreditLimit, &info.IsSAYE, &info.Opacity, &info.AppreciationRate,
			&categoryType, &info.CategoryName, &info.CategoryIsOption); err != nil {
			return nil, fmt.Errorf("scan subcategory info: %w", err)
		}
		info.CategoryType = core.CategoryType(categoryType)
		out = append(out, info)
	}
	return out, rows.Err()
}
