package model

// Stage is the buyer's position in the funnel. Progression is strictly
// forward: checkout -> upsell -> downsell -> success, with success and the
// gated thank-you page terminal.
type Stage string

const (
	StageLanding  Stage = "landing"
	StageCheckout Stage = "checkout"
	StageUpsell   Stage = "upsell"
	StageDownsell Stage = "downsell"
	StageSuccess  Stage = "success"
	StageThankYou Stage = "thank-you"
)

// Products records which of the four fixed SKUs a purchase includes.
// MainProduct is true for every purchase that exists; OrderBump is frozen at
// checkout time; Upsell and Downsell only ever flip from false to true.
type Products struct {
	MainProduct bool `json:"mainProduct"`
	OrderBump   bool `json:"orderBump"`
	Upsell      bool `json:"upsell"`
	Downsell    bool `json:"downsell"`
}

// DownloadLink is the issuer's result. Warning and Err are set when the
// static fallback replaced a signed URL.
type DownloadLink struct {
	URL     string
	Warning string
	Err     string
}
