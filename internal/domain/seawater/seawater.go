// Package seawater implements the standard seawater equation-of-state
// routines used for derived quantities: in-situ density, potential
// temperature, and the pressure-to-depth conversion.
//
// The formulas are the UNESCO 1983 (EOS-80) algorithms of Fofonoff & Millard.
// All functions are pure and deterministic: salinity in PSU (PSS-78),
// temperature in degrees Celsius (ITS-90 accepted as-is), pressure in dbar.
package seawater

import "math"

// Rho returns in-situ density in kg/m3 for salinity s, temperature t and
// pressure p, via the EOS-80 secant bulk modulus formulation.
func Rho(s, t, p float64) float64 {
	rho0 := densityAtSurface(s, t)
	if p == 0 {
		return rho0
	}
	pb := p / 10 // dbar -> bar
	k := secantBulkModulus(s, t, pb)
	return rho0 / (1 - pb/k)
}

// densityAtSurface is rho(S,T,0), the one-atmosphere international equation
// of state of seawater (Millero & Poisson 1981).
func densityAtSurface(s, t float64) float64 {
	rhow := 999.842594 + t*(6.793952e-2+t*(-9.095290e-3+t*(1.001685e-4+t*(-1.120083e-6+t*6.536332e-9))))
	a := 8.24493e-1 + t*(-4.0899e-3+t*(7.6438e-5+t*(-8.2467e-7+t*5.3875e-9)))
	b := -5.72466e-3 + t*(1.0227e-4+t*-1.6546e-6)
	const c = 4.8314e-4
	return rhow + s*(a+b*math.Sqrt(s)+c*s)
}

// secantBulkModulus is K(S,T,p) with p in bar.
func secantBulkModulus(s, t, pb float64) float64 {
	kw := 19652.21 + t*(148.4206+t*(-2.327105+t*(1.360477e-2+t*-5.155288e-5)))
	aw := 3.239908 + t*(1.43713e-3+t*(1.16092e-4+t*-5.77905e-7))
	bw := 8.50935e-5 + t*(-6.12293e-6+t*5.2787e-8)

	sr := math.Sqrt(s)
	k0 := kw + s*(54.6746+t*(-0.603459+t*(1.09987e-2+t*-6.1670e-5))) +
		s*sr*(7.944e-2+t*(1.6483e-2+t*-5.3009e-4))
	a := aw + s*(2.2838e-3+t*(-1.0981e-5+t*-1.6078e-6)) + 1.91075e-4*s*sr
	b := bw + s*(-9.9348e-7+t*(2.0816e-8+t*9.1697e-10))

	return k0 + pb*(a+pb*b)
}

// adiabaticLapseRate is the adiabatic temperature gradient in degC/dbar
// (Bryden 1973, UNESCO ATG).
func adiabaticLapseRate(s, t, p float64) float64 {
	ds := s - 35
	return 3.5803e-5 + t*(8.5258e-6+t*(-6.836e-8+t*6.6228e-10)) +
		ds*(1.8932e-6+t*-4.2393e-8) +
		p*(1.8741e-8+t*(-6.7795e-10+t*(8.733e-12+t*-5.4481e-14))) +
		ds*p*(-1.1351e-10+t*2.7759e-12) +
		p*p*(-4.6206e-13+t*(1.8676e-14+t*-2.1687e-16))
}

// Theta returns potential temperature in degC referenced to pressure pref,
// using the UNESCO Runge-Kutta integration of the adiabatic lapse rate.
func Theta(s, t, p, pref float64) float64 {
	h := pref - p
	xk := h * adiabaticLapseRate(s, t, p)

	t1 := t + 0.5*xk
	q := xk
	p1 := p + 0.5*h

	xk = h * adiabaticLapseRate(s, t1, p1)
	t2 := t1 + 0.29289322*(xk-q)
	q = 0.58578644*xk + 0.121320344*q

	xk = h * adiabaticLapseRate(s, t2, p1)
	t3 := t2 + 1.707106781*(xk-q)
	q = 3.414213562*xk - 4.121320344*q

	xk = h * adiabaticLapseRate(s, t3, pref)
	return t3 + (xk-2.0*q)/6.0
}

// Theta0 returns potential temperature referenced to the surface.
func Theta0(s, t, p float64) float64 {
	return Theta(s, t, p, 0)
}

// ZFromPressure converts sea pressure in dbar to height in meters relative
// to the surface (negative below the surface), using the UNESCO gravity
// formula at the given latitude in degrees.
func ZFromPressure(p, lat float64) float64 {
	x := math.Sin(lat * math.Pi / 180)
	x2 := x * x
	g := 9.780318*(1.0+(5.2788e-3+2.36e-5*x2)*x2) + 1.092e-6*p
	depth := (((-1.82e-15*p+2.279e-10)*p-2.2512e-5)*p + 9.72659) * p / g
	return -depth
}
