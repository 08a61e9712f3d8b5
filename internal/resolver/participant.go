package resolver

import "strings"

// Kind discriminates the participant variants. Go has no sum types, so the
// tag plus exhaustive switches stands in for a tagged union; switches over
// Kind must handle every constant and default to an error arm.
type Kind string

const (
	KindUser      Kind = "user"
	KindBrand     Kind = "brand"
	KindStore     Kind = "store"
	KindSupplier  Kind = "supplier"
	KindNonProfit Kind = "non_profit"
	KindPage      Kind = "page"
)

// Filter selects which participant sources a search hits.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterUser      Filter = Filter(KindUser)
	FilterBrand     Filter = Filter(KindBrand)
	FilterStore     Filter = Filter(KindStore)
	FilterSupplier  Filter = Filter(KindSupplier)
	FilterNonProfit Filter = Filter(KindNonProfit)
	FilterPage      Filter = Filter(KindPage)
)

// Participant is anything that can be added to a conversation: a user or an
// organization-like entity.
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      Kind   `json:"type"`
	Subtitle  string `json:"subtitle,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Slug      string `json:"slug,omitempty"`
}

// Label returns the human-readable form of a kind, used as the subtitle of
// entity results.
func (k Kind) Label() string {
	switch k {
	case KindNonProfit:
		return "Non Profit"
	case KindUser, KindBrand, KindStore, KindSupplier, KindPage:
		return strings.ToUpper(string(k)[:1]) + string(k)[1:]
	default:
		return string(k)
	}
}
