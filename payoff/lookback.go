package payoff

import "math"

// Fixed strike lookback (Conze-Viswanathan). The call is priced off the larger of
// strike and running max, the put off the smaller of strike and running min; the
// part of the payoff already locked in is added back discounted.
func fixedLookback(side Side, s, k, sMin, sMax, sigma, T, dy, r float64) float64 {
	b := r - dy
	st := sigma * math.Sqrt(T)
	v := sigma * sigma / (2 * b)
	shift := 2 * b * math.Sqrt(T) / sigma
	eq, er := math.Exp(-dy*T), math.Exp(-r*T)

	if side == Call {
		x := math.Max(k, sMax)
		d1 := (math.Log(s/x) + (b+0.5*sigma*sigma)*T) / st
		d2 := d1 - st
		c := s*eq*norm.CDF(d1) - x*er*norm.CDF(d2) +
			s*er*v*(-math.Pow(s/x, -2*b/(sigma*sigma))*norm.CDF(d1-shift)+math.Exp(b*T)*norm.CDF(d1))
		return c + er*math.Max(sMax-k, 0)
	}

	x := math.Min(k, sMin)
	d1 := (math.Log(s/x) + (b+0.5*sigma*sigma)*T) / st
	d2 := d1 - st
	p := x*er*norm.CDF(-d2) - s*eq*norm.CDF(-d1) +
		s*er*v*(math.Pow(s/x, -2*b/(sigma*sigma))*norm.CDF(-d1+shift)-math.Exp(b*T)*norm.CDF(-d1))
	return p + er*math.Max(k-sMin, 0)
}

// Floating strike lookback (Goldman-Sosin-Gatto). The call strike is the realised
// minimum, the put strike the realised maximum.
func floatingLookback(side Side, s, sMin, sMax, sigma, T, dy, r float64) float64 {
	b := r - dy
	st := sigma * math.Sqrt(T)
	v := sigma * sigma / (2 * b)
	shift := 2 * b * math.Sqrt(T) / sigma
	eq, er := math.Exp(-dy*T), math.Exp(-r*T)

	if side == Call {
		a1 := (math.Log(s/sMin) + (b+0.5*sigma*sigma)*T) / st
		a2 := a1 - st
		return s*eq*norm.CDF(a1) - sMin*er*norm.CDF(a2) +
			s*er*v*(math.Pow(s/sMin, -2*b/(sigma*sigma))*norm.CDF(-a1+shift)-math.Exp(b*T)*norm.CDF(-a1))
	}

	b1 := (math.Log(s/sMax) + (b+0.5*sigma*sigma)*T) / st
	b2 := b1 - st
	return sMax*er*norm.CDF(-b2) - s*eq*norm.CDF(-b1) +
		s*er*v*(-math.Pow(s/sMax, -2*b/(sigma*sigma))*norm.CDF(b1-shift)+math.Exp(b*T)*norm.CDF(b1))
}
