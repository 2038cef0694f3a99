package world

import "sort"

// DeptCategories is the fixed list of budgetable service departments, in
// display and iteration order.
var DeptCategories = []string{
	"POLICE", "FIRE", "HEALTH", "EDUCATION", "PARKS",
	"SANITATION", "TRANSIT", "SOCIAL", "UTILITIES", "CULTURAL",
}

// Loan is an outstanding municipal loan amortized monthly.
type Loan struct {
	ID         uint32
	Principal  float64
	Remaining  float64
	AnnualRate float64
	TermMonths int
	MonthsLeft int
	MonthlyPay float64
}

// PolicyDef is a toggleable ordinance with a monthly cost (negative cost is
// income).
type PolicyDef struct {
	ID          string
	MonthlyCost float64
}

// PolicyCatalog lists the ordinances the city can enact.
var PolicyCatalog = []PolicyDef{
	{ID: "FREE_TRANSIT", MonthlyCost: 2500},
	{ID: "RECYCLING", MonthlyCost: 1200},
	{ID: "SMOKE_DETECTORS", MonthlyCost: 800},
	{ID: "NEIGHBORHOOD_WATCH", MonthlyCost: 600},
	{ID: "WATER_RATIONING", MonthlyCost: 0},
	{ID: "INDUSTRIAL_FILTERS", MonthlyCost: 1800},
	{ID: "TOURISM_ADS", MonthlyCost: 1500},
}

func PolicyByID(id string) *PolicyDef {
	for i := range PolicyCatalog {
		if PolicyCatalog[i].ID == id {
			return &PolicyCatalog[i]
		}
	}
	return nil
}

// Budget is the city's fiscal state. All recurring cash movement accrues
// into the Pending fields and lands in Treasury on the monthly collection
// day; only explicit player actions (construction, bulldoze refunds, loan
// principal) move Treasury between collections.
type Budget struct {
	Treasury float64
	TaxRate  float64

	// ZoneRates overrides TaxRate per zone id ("RES_LOW", ...).
	ZoneRates map[string]float64

	// DeptLevel is the funding level per category, 0..3 (1.0 = level 2).
	DeptLevel map[string]int

	Policies map[string]bool

	// DistrictPolicies holds per-district ordinance toggles, district id to
	// enabled policy set.
	DistrictPolicies map[string]map[string]bool

	Loans      []Loan
	NextLoanID uint32

	PendingTaxes      float64
	PendingMaint      float64
	PendingServiceOps float64
	PendingEnergyNet  float64
	PendingWaterNet   float64
	PendingPolicyCost float64

	// last month's ledger, for the budget view
	LastTaxes      float64
	LastMaint      float64
	LastServiceOps float64
	LastEnergyNet  float64
	LastWaterNet   float64
	LastPolicyCost float64
	LastLoanPay    float64
}

func NewBudget(startTreasury, taxRate float64) *Budget {
	b := &Budget{
		Treasury:         startTreasury,
		TaxRate:          taxRate,
		ZoneRates:        make(map[string]float64),
		DeptLevel:        make(map[string]int, len(DeptCategories)),
		Policies:         make(map[string]bool),
		DistrictPolicies: make(map[string]map[string]bool),
	}
	for _, c := range DeptCategories {
		b.DeptLevel[c] = 2
	}
	return b
}

// FundingMul is the effective budget multiplier for a department.
func (b *Budget) FundingMul(category string) float64 {
	lvl, ok := b.DeptLevel[category]
	if !ok {
		lvl = 2
	}
	return 0.5 + 0.25*float64(lvl)
}

func (b *Budget) PolicyOn(id string) bool { return b.Policies[id] }

// ZoneRate is the effective tax rate for a zone id, falling back to the
// city-wide rate when no override is set.
func (b *Budget) ZoneRate(zone string) float64 {
	if r, ok := b.ZoneRates[zone]; ok {
		return r
	}
	return b.TaxRate
}

// DistrictIDs are the four city quadrants, northwest first.
var DistrictIDs = []string{"NW", "NE", "SW", "SE"}

func ValidDistrict(id string) bool {
	for _, d := range DistrictIDs {
		if d == id {
			return true
		}
	}
	return false
}

// DistrictOf maps a cell to its quadrant district.
func DistrictOf(x, y int) string {
	if y < GridH/2 {
		if x < GridW/2 {
			return "NW"
		}
		return "NE"
	}
	if x < GridW/2 {
		return "SW"
	}
	return "SE"
}

// SetDistrictPolicy toggles an ordinance within one district.
func (b *Budget) SetDistrictPolicy(district, id string, enabled bool) {
	set := b.DistrictPolicies[district]
	if enabled {
		if set == nil {
			set = make(map[string]bool)
			b.DistrictPolicies[district] = set
		}
		set[id] = true
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(b.DistrictPolicies, district)
	}
}

// DistrictPolicyOn reports whether an ordinance applies at a cell, either
// city-wide or through the cell's district.
func (b *Budget) DistrictPolicyOn(id string, x, y int) bool {
	if b.Policies[id] {
		return true
	}
	return b.DistrictPolicies[DistrictOf(x, y)][id]
}

// ActiveDistrictPolicies returns (district, policy) pairs sorted by district
// then policy so monthly costs sum in a fixed order.
func (b *Budget) ActiveDistrictPolicies() [][2]string {
	var out [][2]string
	for _, d := range DistrictIDs {
		set := b.DistrictPolicies[d]
		if len(set) == 0 {
			continue
		}
		ids := make([]string, 0, len(set))
		for id, on := range set {
			if on {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			out = append(out, [2]string{d, id})
		}
	}
	return out
}

// ActivePolicies returns enacted policy ids in sorted order.
func (b *Budget) ActivePolicies() []string {
	out := make([]string, 0, len(b.Policies))
	for id, on := range b.Policies {
		if on {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// TakeLoan adds a loan and credits the principal immediately.
func (b *Budget) TakeLoan(principal, annualRate float64, termMonths int) *Loan {
	id := b.NextLoanID
	b.NextLoanID++
	monthlyRate := annualRate / 12
	// standard amortization payment
	pay := principal * monthlyRate / (1 - powF(1+monthlyRate, -termMonths))
	if monthlyRate == 0 {
		pay = principal / float64(termMonths)
	}
	b.Loans = append(b.Loans, Loan{
		ID:         id,
		Principal:  principal,
		Remaining:  principal,
		AnnualRate: annualRate,
		TermMonths: termMonths,
		MonthsLeft: termMonths,
		MonthlyPay: pay,
	})
	b.Treasury += principal
	return &b.Loans[len(b.Loans)-1]
}

// RepayLoan settles a loan's remaining balance early. Returns false when
// the loan does not exist or the treasury cannot cover it.
func (b *Budget) RepayLoan(id uint32) bool {
	for i := range b.Loans {
		if b.Loans[i].ID != id {
			continue
		}
		if b.Treasury < b.Loans[i].Remaining {
			return false
		}
		b.Treasury -= b.Loans[i].Remaining
		b.Loans = append(b.Loans[:i], b.Loans[i+1:]...)
		return true
	}
	return false
}

func powF(base float64, exp int) float64 {
	if exp < 0 {
		return 1 / powF(base, -exp)
	}
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}
