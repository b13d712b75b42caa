package services

import (
	"errors"

	"astranode/internal/domain"
	"astranode/internal/repos"
	"astranode/internal/sigverify"
)

var (
	// ErrAuthRequired means message/signature were absent on a signed request.
	ErrAuthRequired = errors.New("authentication required: signature and message missing")
	// ErrBadSignature means the signature did not verify against the claimed owner.
	ErrBadSignature = errors.New("security check failed: invalid signature")
	// ErrDemoDisabled means a demo-mode request arrived while demo mode is off.
	ErrDemoDisabled = errors.New("demo mode is disabled")
)

// Credentials carries the authentication fields of a mutating request.
type Credentials struct {
	Mode      domain.AuthMode
	Message   string
	Signature string
}

type MarketplaceService struct {
	Listings  *repos.ListingRepo
	AllowDemo bool
	// Verify is swappable for tests; defaults to sigverify.Verify.
	Verify func(address, message, signature string) bool
}

func NewMarketplaceService(listings *repos.ListingRepo, allowDemo bool) *MarketplaceService {
	return &MarketplaceService{Listings: listings, AllowDemo: allowDemo, Verify: sigverify.Verify}
}

// authorize gates every mutation. Demo mode is treated as authenticated
// outright (sandbox: any caller can impersonate any address); signed mode
// requires both fields present and a signature that recovers to owner.
// The message is not bound to a nonce or expiry, so an old valid
// (message, signature) pair replays successfully.
func (s *MarketplaceService) authorize(owner string, cred Credentials) error {
	if cred.Mode == domain.AuthDemo {
		if !s.AllowDemo {
			return ErrDemoDisabled
		}
		return nil
	}
	if cred.Message == "" || cred.Signature == "" {
		return ErrAuthRequired
	}
	if !s.Verify(owner, cred.Message, cred.Signature) {
		return ErrBadSignature
	}
	return nil
}

// Sync creates or replaces the listing for l.NftID. The gate is keyed on
// the claimed new owner; no ownership scoping beyond that, since the first
// sync has no prior owner and a purchase transfers ownership by overwrite.
func (s *MarketplaceService) Sync(l domain.Listing, cred Credentials) error {
	if err := s.authorize(l.Owner, cred); err != nil {
		return err
	}
	return s.Listings.Upsert(l)
}

// UpdatePrice sets a new price on the row owned by owner. An unmatched
// (nftID, owner) pair changes nothing; the zero rows-affected result is
// returned so callers can log it, but it is not an error.
func (s *MarketplaceService) UpdatePrice(nftID, owner, price string, cred Credentials) (int64, error) {
	if err := s.authorize(owner, cred); err != nil {
		return 0, err
	}
	return s.Listings.UpdatePrice(nftID, owner, price)
}

// Delist removes the row owned by owner. Same zero-row semantics as
// UpdatePrice.
func (s *MarketplaceService) Delist(nftID, owner string, cred Credentials) (int64, error) {
	if err := s.authorize(owner, cred); err != nil {
		return 0, err
	}
	return s.Listings.Delete(nftID, owner)
}

// Browse returns every listing, newest first. Callers filter by owner
// locally (e.g. the personal collection view).
func (s *MarketplaceService) Browse() ([]domain.Listing, error) {
	return s.Listings.All()
}
