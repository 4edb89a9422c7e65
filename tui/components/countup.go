package components

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// AnimationFPS is the frame rate of count-up animations.
const AnimationFPS = 30

const (
	countUpFrequency = 6.0
	countUpDamping   = 1.0
	settleEpsilon    = 0.01
)

// CountUp animates a number towards a target with a critically damped
// spring. The zero value is not usable; call NewCountUp.
type CountUp struct {
	spring   harmonica.Spring
	value    float64
	velocity float64
	target   float64
}

// NewCountUp returns a counter resting at zero.
func NewCountUp() CountUp {
	return CountUp{spring: harmonica.NewSpring(harmonica.FPS(AnimationFPS), countUpFrequency, countUpDamping)}
}

// SetTarget starts animating towards v.
func (c *CountUp) SetTarget(v float64) {
	c.target = v
}

// Jump moves straight to v without animating.
func (c *CountUp) Jump(v float64) {
	c.value, c.velocity, c.target = v, 0, v
}

// Step advances the animation by one frame.
func (c *CountUp) Step() {
	if c.Settled() {
		c.value, c.velocity = c.target, 0
		return
	}
	c.value, c.velocity = c.spring.Update(c.value, c.velocity, c.target)
}

// Value is the current animated value.
func (c CountUp) Value() float64 {
	return c.value
}

// Target is the value being animated towards.
func (c CountUp) Target() float64 {
	return c.target
}

// Settled reports whether the counter has reached its target.
func (c CountUp) Settled() bool {
	return math.Abs(c.value-c.target) < settleEpsilon && math.Abs(c.velocity) < settleEpsilon
}
