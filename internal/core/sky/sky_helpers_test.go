package sky

import "time"

// fixedRand replays ints and floats in order, wrapping around
type fixedRand struct {
	ints   []int
	floats []float64
	ni, nf int
}

func (f *fixedRand) IntN(n int) int {
	v := 0
	if len(f.ints) > 0 {
		v = f.ints[f.ni%len(f.ints)]
		f.ni++
	}
	return v % n
}

func (f *fixedRand) Float64() float64 {
	v := 0.0
	if len(f.floats) > 0 {
		v = f.floats[f.nf%len(f.floats)]
		f.nf++
	}
	return v
}

func rec(id int64) Record {
	return Record{ID: id, Text: "wish", CreatedAt: time.Unix(id, 0).UTC()}
}

func aug(id int64) Augmented {
	return Augmented{Record: rec(id), XPercent: 50, Duration: 30 * time.Second}
}
