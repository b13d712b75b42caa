package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Single connection: sqlite allows one writer, and :memory: databases
	// are per-connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo listings if the table is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS listings(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nft_id TEXT UNIQUE NOT NULL,
  owner TEXT NOT NULL,
  price TEXT,
  denom TEXT,
  metadata_uri TEXT,
  image_url TEXT,
  name TEXT,
  description TEXT,
  ai_prompt TEXT,
  model_version TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_listings_owner      ON listings(owner);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO listings (nft_id, owner, price, denom, metadata_uri, image_url, name, description, ai_prompt, model_version) VALUES
	  ('1', 'astra1...', '100', 'uastra', 'ipfs://...', 'https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe', 'Neon Nebula', 'AI generated space art', 'A vibrant nebula with neon colors', 'v2.1'),
	  ('2', 'astra2...', '250', 'uastra', 'ipfs://...', 'https://images.unsplash.com/photo-1633167606207-d840b5070fc2', 'Cyber Samurai', 'Futuristic warrior', 'A samurai in a cyberpunk city', 'v2.1'),
	  ('3', 'astra3...', '50', 'uastra', 'ipfs://...', 'https://images.unsplash.com/photo-1620641788421-7a1c342ea42e', 'Digital Dream', 'Abstract digital art', 'A dreamlike abstract landscape', 'v1.5')`)

	return tx.Commit()
}
