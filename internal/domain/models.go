package domain

import "encoding/json"

// Listing is one marketplace row, keyed uniquely by nft_id.
type Listing struct {
	ID           int64  `db:"id" json:"id"`
	NftID        string `db:"nft_id" json:"nft_id"`
	Owner        string `db:"owner" json:"owner"`
	Price        string `db:"price" json:"price"`
	Denom        string `db:"denom" json:"denom"`
	MetadataURI  string `db:"metadata_uri" json:"metadata_uri"`
	ImageURL     string `db:"image_url" json:"image_url"`
	Name         string `db:"name" json:"name"`
	Description  string `db:"description" json:"description"`
	AIPrompt     string `db:"ai_prompt" json:"ai_prompt"`
	ModelVersion string `db:"model_version" json:"model_version"`
	CreatedAt    string `db:"created_at" json:"created_at"`
}

// AuthMode selects how a mutating request is authenticated.
// Demo skips signature verification entirely; Signed requires a
// verifiable wallet signature from the claimed owner.
type AuthMode int

const (
	AuthSigned AuthMode = iota
	AuthDemo
)

// Signature accepts either a bare hex string (EVM wallets) or the
// {pub_key, signature} object shape Cosmos wallets produce.
type Signature string

func (s *Signature) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			Signature string `json:"signature"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*s = Signature(obj.Signature)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	*s = Signature(str)
	return nil
}

// SyncRequest is the body of POST /api/marketplace/sync: a full listing
// payload plus the authentication fields.
type SyncRequest struct {
	NftID        string    `json:"nft_id"`
	Owner        string    `json:"owner"`
	Price        string    `json:"price"`
	Denom        string    `json:"denom"`
	MetadataURI  string    `json:"metadata_uri"`
	ImageURL     string    `json:"image_url"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	AIPrompt     string    `json:"ai_prompt"`
	ModelVersion string    `json:"model_version"`
	Signature    Signature `json:"signature"`
	Message      string    `json:"message"`
	IsDemo       bool      `json:"isDemo"`
}

// Listing converts the payload into its storable form.
func (r SyncRequest) Listing() Listing {
	return Listing{
		NftID:        r.NftID,
		Owner:        r.Owner,
		Price:        r.Price,
		Denom:        r.Denom,
		MetadataURI:  r.MetadataURI,
		ImageURL:     r.ImageURL,
		Name:         r.Name,
		Description:  r.Description,
		AIPrompt:     r.AIPrompt,
		ModelVersion: r.ModelVersion,
	}
}

// UpdateRequest is the body of POST /api/marketplace/update.
type UpdateRequest struct {
	NftID     string    `json:"nft_id"`
	Owner     string    `json:"owner"`
	Price     string    `json:"price"`
	Action    string    `json:"action"` // update_price | delist
	Signature Signature `json:"signature"`
	Message   string    `json:"message"`
	IsDemo    bool      `json:"isDemo"`
}

// GenerateResult is what the creation studio returns for a prompt.
type GenerateResult struct {
	ImageURL       string `json:"imageUrl"`
	EnhancedPrompt string `json:"enhancedPrompt"`
	ExtractedName  string `json:"extractedName"`
	ExtractedPrice string `json:"extractedPrice"`
	AgentName      string `json:"agentName"`
}

// Attribute is one ERC-721-style metadata trait.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the token metadata document served by /api/metadata.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	Compiler    string      `json:"compiler"`
	Digest      string      `json:"digest"`
}
