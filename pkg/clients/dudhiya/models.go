package dudhiya

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Number decodes backend decimals, which arrive either as JSON numbers or as
// fixed-point strings. Null and "" leave Valid false.
type Number struct {
	Value float64
	Valid bool
	// Text is the raw text for string-encoded values.
	Text string
}

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = Number{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("decode number %q: %w", s, err)
		}
		*n = Number{Value: v, Valid: true, Text: s}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	if n.Text != "" {
		return json.Marshal(n.Text)
	}
	return json.Marshal(n.Value)
}

// Collection is a persisted collection record as listed by the backend.
type Collection struct {
	ID                int64  `json:"id"`
	CollectionDate    string `json:"collection_date"`
	CollectionTime    string `json:"collection_time"`
	MilkType          string `json:"milk_type"`
	Measured          string `json:"measured"`
	CustomerName      string `json:"customer_name"`
	Liters            Number `json:"liters"`
	Kg                Number `json:"kg"`
	FatPercentage     Number `json:"fat_percentage"`
	FatKg             Number `json:"fat_kg"`
	CLR               Number `json:"clr"`
	SNFPercentage     Number `json:"snf_percentage"`
	SNFKg             Number `json:"snf_kg"`
	FatRate           Number `json:"fat_rate"`
	SNFRate           Number `json:"snf_rate"`
	MilkRate          Number `json:"milk_rate"`
	Amount            Number `json:"amount"`
	SolidWeight       Number `json:"solid_weight"`
	BaseSNFPercentage Number `json:"base_snf_percentage"`
	IsProRata         bool   `json:"is_pro_rata"`
}

// CollectionPage is one page of the collections listing.
type CollectionPage struct {
	Count    int          `json:"count"`
	Next     *string      `json:"next"`
	Previous *string      `json:"previous"`
	Results  []Collection `json:"results"`
}

// HasNext reports whether the backend has another page.
func (p *CollectionPage) HasNext() bool {
	return p != nil && p.Next != nil && *p.Next != ""
}
