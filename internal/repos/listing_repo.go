package repos

import (
	"context"
	"time"

	"astranode/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ListingRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func NewListingRepo(db *sqlx.DB, timeout time.Duration) *ListingRepo {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ListingRepo{db: db, timeout: timeout}
}

func (r *ListingRepo) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Upsert inserts the listing or replaces every payload field of an existing
// row with the same nft_id. created_at is set on first insert only; a
// re-sync (ownership transfer on purchase) keeps the original mint time.
func (r *ListingRepo) Upsert(l domain.Listing) error {
	ctx, cancel := r.ctx()
	defer cancel()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO listings (nft_id, owner, price, denom, metadata_uri, image_url, name, description, ai_prompt, model_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(nft_id) DO UPDATE SET
		  owner         = excluded.owner,
		  price         = excluded.price,
		  denom         = excluded.denom,
		  metadata_uri  = excluded.metadata_uri,
		  image_url     = excluded.image_url,
		  name          = excluded.name,
		  description   = excluded.description,
		  ai_prompt     = excluded.ai_prompt,
		  model_version = excluded.model_version
	`, l.NftID, l.Owner, l.Price, l.Denom, l.MetadataURI, l.ImageURL, l.Name, l.Description, l.AIPrompt, l.ModelVersion)
	return err
}

// UpdatePrice sets price on the row matching (nftID, owner) and reports how
// many rows matched. Zero rows is not an error: the caller decides whether
// an unmatched ownership scope is worth surfacing.
func (r *ListingRepo) UpdatePrice(nftID, owner, price string) (int64, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET price = ? WHERE nft_id = ? AND owner = ?
	`, price, nftID, owner)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the row matching (nftID, owner). Hard removal, no
// soft-delete. Same zero-row semantics as UpdatePrice.
func (r *ListingRepo) Delete(nftID, owner string) (int64, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM listings WHERE nft_id = ? AND owner = ?
	`, nftID, owner)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// All returns every listing, newest first. The id tiebreak keeps ordering
// stable for rows created within the same second.
func (r *ListingRepo) All() ([]domain.Listing, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	out := []domain.Listing{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, nft_id, owner, COALESCE(price,'') AS price, COALESCE(denom,'') AS denom,
		       COALESCE(metadata_uri,'') AS metadata_uri, COALESCE(image_url,'') AS image_url,
		       COALESCE(name,'') AS name, COALESCE(description,'') AS description,
		       COALESCE(ai_prompt,'') AS ai_prompt, COALESCE(model_version,'') AS model_version,
		       created_at
		FROM listings
		ORDER BY created_at DESC, id DESC
	`)
	return out, err
}

// Get fetches a single listing by nft_id (sql.ErrNoRows if absent).
func (r *ListingRepo) Get(nftID string) (domain.Listing, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	var l domain.Listing
	err := r.db.GetContext(ctx, &l, `
		SELECT id, nft_id, owner, COALESCE(price,'') AS price, COALESCE(denom,'') AS denom,
		       COALESCE(metadata_uri,'') AS metadata_uri, COALESCE(image_url,'') AS image_url,
		       COALESCE(name,'') AS name, COALESCE(description,'') AS description,
		       COALESCE(ai_prompt,'') AS ai_prompt, COALESCE(model_version,'') AS model_version,
		       created_at
		FROM listings
		WHERE nft_id = ?
	`, nftID)
	return l, err
}
