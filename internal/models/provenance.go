package models

import "time"

// Provenance records where a ledger came from. Synthetic is set for every
// ledger produced by the sample generator, including fallback substitutions.
type Provenance struct {
	Source    string    `json:"source"`
	Synthetic bool      `json:"synthetic"`
	Reason    string    `json:"reason,omitempty"`
	LoadID    string    `json:"load_id,omitempty"`
	LoadedAt  time.Time `json:"loaded_at"`
}
