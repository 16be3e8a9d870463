package models

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
)

// Envelope wraps every JSON response the API writes.
type Envelope struct {
	Msg        string  `json:"msg"`
	Variant    Variant `json:"variant"`
	Payload    any     `json:"payload"`
	TotalCount *int64  `json:"totalCount,omitempty"`
}
