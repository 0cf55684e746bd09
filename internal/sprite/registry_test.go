package sprite

import "testing"

func TestRegisterInternsOnce(t *testing.T) {
	r := NewRegistry()
	a := r.Register("ball_s:red", Info{Glyph: '•', Radius: 0.01})
	b := r.Register("ball_m:red", Info{Glyph: 'o', Radius: 0.02})
	if a == b {
		t.Fatal("distinct names share a tag")
	}
	again := r.Register("ball_s:red", Info{Glyph: '•', Radius: 0.015})
	if again != a {
		t.Fatalf("re-register changed tag: %d != %d", again, a)
	}
	if got := r.Info(a).Radius; got != 0.015 {
		t.Fatalf("re-register did not update info: radius %v", got)
	}
}

func TestTagLookup(t *testing.T) {
	r := NewRegistry()
	want := r.Register("star:aqua", Info{Glyph: '*'})
	got, ok := r.Tag("star:aqua")
	if !ok || got != want {
		t.Fatalf("Tag = %d, %v; want %d, true", got, ok, want)
	}
	if _, ok := r.Tag("missing"); ok {
		t.Fatal("lookup of unregistered name succeeded")
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := RegisterDefaults(NewRegistry())
	for _, typ := range []string{BallS, BallM, BallL, Rice, Kunai, Star} {
		for _, c := range Colors {
			tag, ok := r.Tag(BulletName(typ, c))
			if !ok {
				t.Fatalf("missing default %s", BulletName(typ, c))
			}
			if r.Info(tag).Radius <= 0 {
				t.Fatalf("%s has no radius", BulletName(typ, c))
			}
		}
	}
	if _, ok := r.Tag("player_shot"); !ok {
		t.Fatal("missing player_shot")
	}
}
