package sprite

import "fmt"

// Bullet type names understood by the default set.
const (
	BallS = "ball_s"
	BallM = "ball_m"
	BallL = "ball_l"
	Rice  = "rice"
	Kunai = "kunai"
	Star  = "star"
)

// Colors available for every bullet type.
var Colors = []string{"red", "blue", "green", "yellow", "purple", "aqua", "white"}

var bulletShapes = []struct {
	name   string
	glyph  rune
	radius float64
}{
	{BallS, '•', 0.010},
	{BallM, 'o', 0.020},
	{BallL, 'O', 0.035},
	{Rice, '\'', 0.008},
	{Kunai, 'v', 0.010},
	{Star, '*', 0.015},
}

// BulletName builds the registry key for a bullet type and color pair.
func BulletName(typ, color string) string {
	return fmt.Sprintf("%s:%s", typ, color)
}

// RegisterDefaults interns every bullet type and color combination plus
// the player shot and pickup visuals, and returns the registry for
// chaining.
func RegisterDefaults(r *Registry) *Registry {
	for _, s := range bulletShapes {
		for _, c := range Colors {
			r.Register(BulletName(s.name, c), Info{Glyph: s.glyph, Color: c, Radius: s.radius})
		}
	}
	r.Register("player_shot", Info{Glyph: '|', Color: "white", Radius: 0.012})
	r.Register("item_power", Info{Glyph: 'P', Color: "red", Radius: 0.020})
	r.Register("item_point", Info{Glyph: 'x', Color: "blue", Radius: 0.020})
	r.Register("item_life", Info{Glyph: '+', Color: "purple", Radius: 0.020})
	r.Register("item_bomb", Info{Glyph: 'B', Color: "green", Radius: 0.020})
	return r
}
