package village

const MaxDwellingLevel = 4

var dwellingCosts = map[int][]Requirement{
	1: {
		{ResourceCode: "piel", Quantity: 10},
		{ResourceCode: "rama", Quantity: 20},
		{ResourceCode: "cuerda", Quantity: 2},
		{ResourceCode: "moneda", Quantity: 20},
		{ResourceCode: EnergyResource, Quantity: 5},
	},
	2: {
		{ResourceCode: "madera", Quantity: 20},
		{ResourceCode: "hierro", Quantity: 1},
		{ResourceCode: "cuerda", Quantity: 10},
		{ResourceCode: "moneda", Quantity: 200},
		{ResourceCode: EnergyResource, Quantity: 10},
	},
	3: {
		{ResourceCode: "piedra", Quantity: 40},
		{ResourceCode: "madera", Quantity: 10},
		{ResourceCode: "hierro", Quantity: 4},
		{ResourceCode: "moneda", Quantity: 1000},
		{ResourceCode: EnergyResource, Quantity: 15},
	},
	4: {
		{ResourceCode: "ladrillo", Quantity: 60},
		{ResourceCode: "piedra", Quantity: 10},
		{ResourceCode: "madera", Quantity: 10},
		{ResourceCode: "hierro", Quantity: 10},
		{ResourceCode: "moneda", Quantity: 5000},
		{ResourceCode: EnergyResource, Quantity: 20},
	},
}

// DwellingRequirements returns the cost of moving from current to current+1.
func DwellingRequirements(current int) ([]Requirement, error) {
	if current >= MaxDwellingLevel {
		return nil, ErrDwellingMaxLevel
	}
	if current < 0 {
		return nil, ErrInvalidRequest
	}
	reqs := dwellingCosts[current+1]
	out := make([]Requirement, len(reqs))
	copy(out, reqs)
	return out, nil
}
