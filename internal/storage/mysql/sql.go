package mysql

// LAST_INSERT_ID(id) makes the upsert return the existing row's id on the
// duplicate path, so callers always get the product id back.
const upsertProductSQL = `
INSERT INTO products
  (name, platform, url)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  id         = LAST_INSERT_ID(id),
  name       = VALUES(name),
  updated_at = CURRENT_TIMESTAMP
`

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n" +
	"  (product_id, source_id, author, rating, `text`, review_date, sentiment_score, sentiment, topic, raw)\n" +
	"VALUES "

// COALESCE keeps the old value when a re-scrape comes back with less data.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  author          = COALESCE(VALUES(author), reviews.author),\n" +
	"  rating          = COALESCE(VALUES(rating), reviews.rating),\n" +
	"  `text`          = VALUES(`text`),\n" +
	"  review_date     = COALESCE(VALUES(review_date), reviews.review_date),\n" +
	"  sentiment_score = VALUES(sentiment_score),\n" +
	"  sentiment       = VALUES(sentiment),\n" +
	"  topic           = VALUES(topic),\n" +
	"  raw             = COALESCE(VALUES(raw), reviews.raw)\n"

const insertMissSQL = `
INSERT INTO scrape_misses (url, platform, http_status, reason)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

const getProductSQL = `
SELECT
  p.id,
  p.name,
  p.platform,
  p.url,
  p.created_at,
  COUNT(r.id) AS review_count
FROM products p
LEFT JOIN reviews r ON r.product_id = p.id
WHERE p.id = ?
GROUP BY p.id
`

const listProductsSQL = `
SELECT
  p.id,
  p.name,
  p.platform,
  p.url,
  p.created_at,
  COUNT(r.id) AS review_count
FROM products p
LEFT JOIN reviews r ON r.product_id = p.id
GROUP BY p.id
ORDER BY p.id
`

const reviewColumns = `
  id,
  product_id,
  source_id,
  author,
  rating,
  ` + "`text`" + `,
  review_date,
  sentiment_score,
  sentiment,
  topic,
  raw
`
