package mysql

import (
	"context"
	"database/sql"
	"strings"

	"reviewpulse/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertProduct(ctx context.Context, p domain.Product) (int64, error) {
	res, err := r.db.ExecContext(ctx, upsertProductSQL, p.Name, p.Platform, p.URL)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) UpsertReviews(ctx context.Context, productID int64, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*10)
	for _, rv := range rs {
		// Columns (from insertReviewsPrefix):
		// (product_id, source_id, author, rating, `text`, review_date, sentiment_score, sentiment, topic, raw)
		values = append(values, "(?,?,?,?,?,?,?,?,?,?)")
		var date any
		if rv.Date != nil {
			date = *rv.Date
		}
		args = append(args,
			productID,
			valStr(rv.SourceID),
			valStr(rv.Author),
			valF64(rv.Rating),
			rv.Text,
			date,
			rv.SentimentScore,
			rv.Sentiment,
			rv.Topic,
			valJSON(rv.RawJSON),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, url, platform string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, url, platform, status, reason)
	return err
}

func (r *Repo) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := r.db.QueryRowContext(ctx, getProductSQL, id)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, listProductsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProduct(scan func(...any) error) (domain.Product, error) {
	var p domain.Product
	var createdAt sql.NullTime
	if err := scan(&p.ID, &p.Name, &p.Platform, &p.URL, &createdAt, &p.ReviewCount); err != nil {
		return domain.Product{}, err
	}
	if createdAt.Valid {
		t := createdAt.Time
		p.CreatedAt = &t
	}
	return p, nil
}

func (r *Repo) ListReviews(ctx context.Context, productID int64, q domain.ReviewQuery) (domain.ReviewsPage, error) {
	where := "WHERE product_id = ?"
	args := []any{productID}
	if q.Sentiment != "" {
		where += " AND sentiment = ?"
		args = append(args, q.Sentiment)
	}
	if q.Topic != "" {
		where += " AND topic = ?"
		args = append(args, q.Topic)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews "+where, args...).Scan(&total); err != nil {
		return domain.ReviewsPage{}, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT" + reviewColumns + "FROM reviews " + where +
		" ORDER BY review_date DESC, id DESC LIMIT ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, limit)...)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	items, err := scanReviews(rows)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: items, Total: total}, nil
}

func (r *Repo) ListAllReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	query := "SELECT" + reviewColumns + "FROM reviews WHERE product_id = ? ORDER BY review_date DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func scanReviews(rows *sql.Rows) ([]domain.Review, error) {
	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var (
			sourceID, author sql.NullString
			rating           sql.NullFloat64
			reviewDate       sql.NullTime
			rawB             sql.RawBytes
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&sourceID,
			&author,
			&rating,
			&rv.Text,
			&reviewDate,
			&rv.SentimentScore,
			&rv.Sentiment,
			&rv.Topic,
			&rawB,
		); err != nil {
			return nil, err
		}
		if sourceID.Valid {
			s := sourceID.String
			rv.SourceID = &s
		}
		if author.Valid {
			s := author.String
			rv.Author = &s
		}
		if rating.Valid {
			f := rating.Float64
			rv.Rating = &f
		}
		if reviewDate.Valid {
			t := reviewDate.Time
			rv.Date = &t
		}
		if len(rawB) > 0 {
			rv.RawJSON = append([]byte(nil), rawB...)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
