package domain

// PlatformConfig holds the singleton platform wiring: the administrator
// identity, the account escrowed funds sit in, and whether milestone
// validation mints completion credentials. Written once by Initialize and
// read through getters; there is no ambient mutable global.
type PlatformConfig struct {
	Admin            string `json:"admin"`
	EscrowAccount    string `json:"escrow_account"`
	IssueCredentials bool   `json:"issue_credentials"`
}
