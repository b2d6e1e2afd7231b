package models

// Draft is a contract being edited, as kept by the local server.
// It lets a reloaded page or a restarted server resume the same form.
type Draft struct {
	// ID is the unique identifier for the draft (UUID format).
	ID string

	// Data is the latest complete snapshot of the form.
	Data ContractData

	// CreatedAt is the Unix timestamp when the draft was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last accepted edit.
	UpdatedAt int64
}

// DraftSummary is a lightweight view of a draft for listings.
type DraftSummary struct {
	ID           string
	DonorName    string
	DoneeName    string
	ContractDate string
	GiftCount    int
	UpdatedAt    int64
}
