package delivery

import "context"

// Calculator turns a postal code and street into a delivery Calculation.
type Calculator struct {
	resolver Resolver
	origin   Point
	policy   FeePolicy
}

func NewCalculator(resolver Resolver, origin Point, policy FeePolicy) *Calculator {
	return &Calculator{resolver: resolver, origin: origin, policy: policy}
}

func (c *Calculator) Policy() FeePolicy { return c.policy }

// Calculate returns an error only for validation problems. Lookup misses and
// service failures come back as an unverified, unavailable Calculation.
func (c *Calculator) Calculate(ctx context.Context, postalCode, street string) (Calculation, error) {
	res, err := c.resolver.Resolve(ctx, postalCode, street)
	if err != nil {
		return Calculation{}, err
	}
	if !res.Found {
		return Calculation{Available: false, Message: res.Reason}, nil
	}

	calc := c.policy.Quote(RoundDistance(Distance(c.origin, res.Point)))
	calc.Verified = true
	calc.Address = &ResolvedAddress{Point: res.Point, DisplayName: res.DisplayName}
	return calc, nil
}
