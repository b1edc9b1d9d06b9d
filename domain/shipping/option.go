package shipping

import (
	"sort"

	"posimarket/domain/shared"
)

// Method carrier policy code
type Method string

const (
	MethodStandard             Method = "STANDARD"
	MethodExpress              Method = "EXPRESS"
	MethodRegionalConsolidated Method = "REGIONAL_CONSOLIDATED"
)

// carrierOrder fixed per-seller ordering and the price tie-break
var carrierOrder = map[Method]int{
	MethodStandard:             0,
	MethodExpress:              1,
	MethodRegionalConsolidated: 2,
}

func (m Method) Valid() bool {
	_, ok := carrierOrder[m]
	return ok
}

// Option priced shipping choice
type Option struct {
	Name            string       `json:"name"`
	Company         string       `json:"company"`
	Price           shared.Money `json:"price"`
	LeadTimeDays    int          `json:"lead_time_days"`
	MethodCode      Method       `json:"method_code"`
	IncludesHygiene bool         `json:"includes_hygiene"`
	IncludesPickup  bool         `json:"includes_pickup"`
}

// Find returns the option for a method
func Find(options []Option, method Method) (Option, bool) {
	for _, o := range options {
		if o.MethodCode == method {
			return o, true
		}
	}
	return Option{}, false
}

// SortByCarrier orders options STANDARD, EXPRESS, REGIONAL_CONSOLIDATED
func SortByCarrier(options []Option) {
	sort.SliceStable(options, func(i, j int) bool {
		return carrierOrder[options[i].MethodCode] < carrierOrder[options[j].MethodCode]
	})
}

// SortByPrice orders options by ascending price, carrier order breaking ties
func SortByPrice(options []Option) {
	sort.SliceStable(options, func(i, j int) bool { return Cheaper(options[i], options[j]) })
}

// Cheaper price ascending with carrier order as tie-break
func Cheaper(a, b Option) bool {
	ca, cb := a.Price.Cents(), b.Price.Cents()
	if ca != cb {
		return ca < cb
	}
	return carrierOrder[a.MethodCode] < carrierOrder[b.MethodCode]
}
