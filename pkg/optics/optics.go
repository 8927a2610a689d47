// Package optics implements the reflection and refraction vector formulas
// used when a traced ray meets a mirror or prism surface.
package optics

import (
	"math"

	"github.com/prismbox/go-prism-tracer/pkg/vec"
)

// Reflect calculates the specular reflection of direction d off a surface
// with normal n: r = d - 2*dot(d,n)*n. The normal need not be pre-normalized.
func Reflect(d, n vec.Vec2) vec.Vec2 {
	un := n.Normalize()
	return d.Subtract(un.Multiply(2 * d.Dot(un)))
}

// Refract calculates the refraction of direction d through a surface with
// outward normal n using Snell's law in vector form, where eta is the ratio
// of refractive indices (incident medium / transmitted medium).
//
// It returns false in the two cases where no refracted ray exists: the ray is
// not approaching the front face, or total internal reflection occurs. Both
// are expected optical events and the caller substitutes reflection.
func Refract(d, n vec.Vec2, eta float64) (vec.Vec2, bool) {
	ud := d.Normalize()
	un := n.Normalize()

	cosTheta := -ud.Dot(un)
	if cosTheta < 0 {
		// Back-face or grazing incidence
		return vec.Vec2{}, false
	}

	sin2Theta := 1 - cosTheta*cosTheta
	sin2Phi := eta * eta * sin2Theta
	if sin2Phi > 1 {
		// Total internal reflection
		return vec.Vec2{}, false
	}

	// Perpendicular and parallel components of the transmitted direction
	outPerp := ud.Add(un.Multiply(cosTheta)).Multiply(eta)
	outParallel := un.Multiply(-math.Sqrt(1 - sin2Phi))
	return outPerp.Add(outParallel), true
}
