package market

// DemoInstruments is the catalog used when a configuration does not list
// its own instruments: a commodities board, a handful of real-estate tokens,
// and the sovereign-fund asset classes.
var DemoInstruments = []Instrument{
	{ID: "GOLD", Name: "Gold Spot", Symbol: "XAU", BasePrice: 2034.50, Volatility: 0.012, Category: CategoryCommodity},
	{ID: "SILVER", Name: "Silver Spot", Symbol: "XAG", BasePrice: 23.15, Volatility: 0.018, Category: CategoryCommodity},
	{ID: "CRUDE", Name: "Brent Crude", Symbol: "BRN", BasePrice: 82.40, Volatility: 0.025, Category: CategoryCommodity},
	{ID: "NATGAS", Name: "Natural Gas", Symbol: "NG", BasePrice: 2.61, Volatility: 0.035, Category: CategoryCommodity},
	{ID: "WHEAT", Name: "Wheat Futures", Symbol: "ZW", BasePrice: 612.25, Volatility: 0.015, Category: CategoryCommodity},
	{ID: "COPPER", Name: "Copper Grade A", Symbol: "HG", BasePrice: 3.89, Volatility: 0.017, Category: CategoryCommodity},

	{ID: "NYC-TWR", Name: "Manhattan Office Tower", Symbol: "NYCT", BasePrice: 1250.00, Volatility: 0.008, Category: CategoryRealEstate},
	{ID: "LDN-RES", Name: "London Residential Block", Symbol: "LDNR", BasePrice: 845.00, Volatility: 0.006, Category: CategoryRealEstate},
	{ID: "DXB-MRN", Name: "Dubai Marina Tower", Symbol: "DXBM", BasePrice: 530.00, Volatility: 0.011, Category: CategoryRealEstate},
	{ID: "TKY-OFC", Name: "Tokyo Office Park", Symbol: "TKYO", BasePrice: 990.00, Volatility: 0.007, Category: CategoryRealEstate},

	{ID: "GLB-EQ", Name: "Global Equities Sleeve", Symbol: "GEQ", BasePrice: 100.00, Volatility: 0.010, Category: CategorySovereign},
	{ID: "GOV-BND", Name: "Sovereign Bond Ladder", Symbol: "GBND", BasePrice: 100.00, Volatility: 0.003, Category: CategorySovereign},
	{ID: "INFRA", Name: "Infrastructure Fund", Symbol: "INFR", BasePrice: 100.00, Volatility: 0.005, Category: CategorySovereign},
}

// DemoCorrelations couples the instruments of DemoInstruments. Pairs not
// listed are uncorrelated.
var DemoCorrelations = []CorrelationEdge{
	{From: "GOLD", To: "SILVER", Factor: 0.8},
	{From: "SILVER", To: "GOLD", Factor: 0.3},
	{From: "CRUDE", To: "NATGAS", Factor: 0.6},
	{From: "CRUDE", To: "COPPER", Factor: 0.3},
	{From: "COPPER", To: "GLB-EQ", Factor: 0.4},
	{From: "NYC-TWR", To: "LDN-RES", Factor: 0.5},
	{From: "NYC-TWR", To: "TKY-OFC", Factor: 0.4},
	{From: "GLB-EQ", To: "GOV-BND", Factor: -0.4},
	{From: "GLB-EQ", To: "INFRA", Factor: 0.5},
}

// LoadDemo registers the demo catalog into r.
func LoadDemo(r *Registry) error {
	for _, inst := range DemoInstruments {
		if err := r.Register(inst); err != nil {
			return err
		}
	}
	for _, e := range DemoCorrelations {
		if err := r.Correlate(e.From, e.To, e.Factor); err != nil {
			return err
		}
	}
	return nil
}
